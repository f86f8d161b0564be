package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced no language", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding prose", `Voici le résultat : {"a": 1} merci`, `{"a": 1}`},
		{"leading and trailing whitespace", "  {\"a\": 1}\n", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONContent(tt.input))
		})
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid passes through", `{"present": true}`, `{"present": true}`},
		{"missing opening quote", `{present": true}`, `{"present": true}`},
		{"missing quote after comma", `{"a": 1, commune": "Lyon"}`, `{"a": 1, "commune": "Lyon"}`},
		{"quoted string values untouched", `{"a": "b, c"}`, `{"a": "b, c"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.input))
		})
	}
}

func TestCriteriaPayloadToBundle(t *testing.T) {
	raw := `{
		"localisation": {"present": true, "code_postal": null, "commune": "Lyon", "departement": null, "region": null},
		"activite": {"present": true, "libelle_secteur": "Restauration", "activite_entreprise": null},
		"taille_entreprise": {"present": true, "tranche_effectif": ">=10 AND <=249", "acronyme": "PME"},
		"criteres_financiers": {"present": true, "ca_plus_recent": 100000, "resultat_net_plus_recent": null, "rentabilite_plus_recente": null},
		"criteres_juridiques": {"present": false, "categorie_juridique": null, "siege_entreprise": null, "date_creation_entreprise": null, "capital": null, "date_changement_dirigeant": null, "nombre_etablissements": null}
	}`

	var payload criteriaPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	bundle := payload.toBundle()

	assert.True(t, bundle.Location.Present)
	assert.Equal(t, "Lyon", bundle.Location.Commune)
	assert.Empty(t, bundle.Location.PostalCode)

	assert.Equal(t, "Restauration", bundle.Activity.SectorLabel)

	assert.Equal(t, ">=10 AND <=249", bundle.Size.Expression)
	assert.Equal(t, "PME", bundle.Size.Acronym)

	assert.Equal(t, 100000.0, bundle.Financial.Turnover)

	assert.False(t, bundle.Legal.Present)
}
