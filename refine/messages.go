package refine

import "fmt"

// Question templates, in the assistant's conversational French. The
// count-bearing variants are used for missing sections, the follow-ups for
// present sections that can be narrowed further.
var countQuestions = map[Criterion]string{
	CriterionLocation:  "J'ai trouve %d entreprises. Dans quelle region, departement ou ville souhaitez-vous chercher ?",
	CriterionSize:      "J'ai trouve %d entreprises. Quelle taille vous interesse ? (TPE, PME, ETI, grand groupe)",
	CriterionFinancial: "J'ai trouve %d entreprises. Avez-vous un critere de chiffre d'affaires minimum ?",
	CriterionLegal:     "J'ai trouve %d entreprises. Voulez-vous filtrer uniquement les sieges sociaux (pas les etablissements secondaires) ?",
}

var followUpQuestions = map[Criterion]string{
	CriterionLocation:  "Pouvez-vous preciser la zone geographique ? (region, departement ou ville)",
	CriterionSize:      "Pouvez-vous preciser la taille d'entreprise ? (TPE: 0-9 salaries, PME: 10-249, ETI: 250-4999, GE: 5000+)",
	CriterionFinancial: "Souhaitez-vous filtrer par chiffre d'affaires ? (ex: CA > 1M EUR)",
	CriterionLegal:     "Filtrer uniquement les sieges sociaux (oui/non) ?",
}

const genericQuestion = "J'ai trouve %d entreprises, ce qui est beaucoup. Pouvez-vous preciser vos criteres pour affiner la recherche ?"

// DeliveryMessage phrases the final answer for a delivered result set.
// forced marks a delivery despite a count above threshold, after the round
// budget ran out.
func (c *Controller) DeliveryMessage(count int, forced bool) string {
	if forced {
		return fmt.Sprintf("J'ai trouve %d entreprises correspondant a vos criteres. "+
			"C'est un volume important - vous pouvez affiner votre recherche "+
			"avec des criteres supplementaires si besoin.", count)
	}

	switch {
	case count == 0:
		return "Aucune entreprise ne correspond a ces criteres. " +
			"Essayez d'elargir votre recherche (region plus large, taille differente...)."
	case count <= 10:
		return fmt.Sprintf("Parfait ! J'ai trouve %d entreprises correspondant exactement a vos criteres.", count)
	default:
		return fmt.Sprintf("J'ai trouve %d entreprises correspondant a vos criteres.", count)
	}
}
