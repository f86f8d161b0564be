// Copyright 2025 Sirenic Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/sirenic/firmatch/ai"
	"github.com/sirenic/firmatch/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// CriteriaExtractor implements ai.CriteriaExtractor using OpenAI-compatible
// chat APIs.
type CriteriaExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// criteriaPayload is the French wire format the extraction prompt asks the
// model to produce. Used only for JSON unmarshaling.
type criteriaPayload struct {
	Location struct {
		Present    bool    `json:"present"`
		PostalCode *string `json:"code_postal"`
		Commune    *string `json:"commune"`
		Department *string `json:"departement"`
		Region     *string `json:"region"`
	} `json:"localisation"`
	Activity struct {
		Present     bool    `json:"present"`
		SectorLabel *string `json:"libelle_secteur"`
		Description *string `json:"activite_entreprise"`
	} `json:"activite"`
	Size struct {
		Present    bool    `json:"present"`
		Expression *string `json:"tranche_effectif"`
		Acronym    *string `json:"acronyme"`
	} `json:"taille_entreprise"`
	Financial struct {
		Present       bool     `json:"present"`
		Turnover      *float64 `json:"ca_plus_recent"`
		NetProfit     *float64 `json:"resultat_net_plus_recent"`
		Profitability *float64 `json:"rentabilite_plus_recente"`
	} `json:"criteres_financiers"`
	Legal struct {
		Present            bool     `json:"present"`
		LegalCategory      *string  `json:"categorie_juridique"`
		Headquarters       *string  `json:"siege_entreprise"`
		CreationDate       *string  `json:"date_creation_entreprise"`
		Capital            *float64 `json:"capital"`
		OfficerChangeDate  *string  `json:"date_changement_dirigeant"`
		EstablishmentCount *int     `json:"nombre_etablissements"`
	} `json:"criteres_juridiques"`
}

// newCriteriaExtractor is an internal constructor that returns the concrete
// type. Used by Provider to manage the instance.
func newCriteriaExtractor(config *ai.Config) (*CriteriaExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &CriteriaExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewCriteriaExtractor creates a new criteria extractor using the provided
// configuration.
//
// Returns ai.CriteriaExtractor interface to enforce abstraction.
func NewCriteriaExtractor(config *ai.Config) (ai.CriteriaExtractor, error) {
	return newCriteriaExtractor(config)
}

// ExtractCriteria turns a conversation into a structured criteria bundle
// using an LLM with JSON-mode output.
func (e *CriteriaExtractor) ExtractCriteria(ctx context.Context, messages []core.Message) (core.CriteriaBundle, error) {
	content := make([]llms.MessageContent, 0, len(messages)+1)
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{llms.TextPart(extractionSystemPrompt)},
	})
	for _, msg := range messages {
		content = append(content, llms.MessageContent{
			Role:  chatRole(msg.Role),
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}

	// Try up to 3 times in case of malformed JSON.
	var payload criteriaPayload
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return core.CriteriaBundle{}, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return core.CriteriaBundle{}, ErrEmptyResponse
		}

		responseText := cleanJSONContent(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &payload); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
		return core.CriteriaBundle{}, lastErr
	}

	bundle := payload.toBundle()
	bundle.Normalize()
	return bundle, nil
}

// chatRole maps conversation roles onto langchaingo chat message types.
func chatRole(role core.Role) llms.ChatMessageType {
	switch role {
	case core.RoleAssistant:
		return llms.ChatMessageTypeAI
	case core.RoleSystem:
		return llms.ChatMessageTypeSystem
	default:
		return llms.ChatMessageTypeHuman
	}
}

// cleanJSONContent strips markdown code fences and any prose around the JSON
// object, keeping the span from the first opening brace to the last closing
// one.
func cleanJSONContent(content string) string {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.IndexAny(cleaned, "{[")
	end := strings.LastIndexAny(cleaned, "}]")
	if start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}
	return cleaned
}

// toBundle converts the French wire payload into a criteria bundle.
func (p *criteriaPayload) toBundle() core.CriteriaBundle {
	var b core.CriteriaBundle

	b.Location = core.LocationCriteria{
		Present:    p.Location.Present,
		PostalCode: deref(p.Location.PostalCode),
		Commune:    deref(p.Location.Commune),
		Department: deref(p.Location.Department),
		Region:     deref(p.Location.Region),
	}
	b.Activity = core.ActivityCriteria{
		Present:     p.Activity.Present,
		SectorLabel: deref(p.Activity.SectorLabel),
		Description: deref(p.Activity.Description),
	}
	b.Size = core.SizeCriteria{
		Present:    p.Size.Present,
		Expression: deref(p.Size.Expression),
		Acronym:    deref(p.Size.Acronym),
	}
	b.Financial = core.FinancialCriteria{
		Present:       p.Financial.Present,
		Turnover:      derefFloat(p.Financial.Turnover),
		NetProfit:     derefFloat(p.Financial.NetProfit),
		Profitability: derefFloat(p.Financial.Profitability),
	}
	b.Legal = core.LegalCriteria{
		Present:            p.Legal.Present,
		LegalCategory:      deref(p.Legal.LegalCategory),
		Headquarters:       deref(p.Legal.Headquarters),
		CreationDate:       deref(p.Legal.CreationDate),
		Capital:            derefFloat(p.Legal.Capital),
		OfficerChangeDate:  deref(p.Legal.OfficerChangeDate),
		EstablishmentCount: derefInt(p.Legal.EstablishmentCount),
	}

	return b
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
