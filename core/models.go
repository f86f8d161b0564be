package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Category identifies which reference list a canonical value belongs to.
type Category int

const (
	// CategoryCommune is the commune (city) reference list.
	CategoryCommune Category = iota + 1
	// CategoryDepartment is the departement reference list.
	CategoryDepartment
	// CategoryRegion is the region reference list.
	CategoryRegion
	// CategorySector is the sector-label reference list.
	CategorySector
	// CategoryActivity is the activity-label reference list.
	CategoryActivity
)

// String returns the lowercase name of the category, matching the wire
// field names used by the criteria bundle.
func (c Category) String() string {
	switch c {
	case CategoryCommune:
		return "commune"
	case CategoryDepartment:
		return "department"
	case CategoryRegion:
		return "region"
	case CategorySector:
		return "sector"
	case CategoryActivity:
		return "activity"
	default:
		return "unknown"
	}
}

// Role identifies the source of a conversation message.
type Role int

const (
	// RoleUser represents the human end user.
	RoleUser Role = iota + 1
	// RoleAssistant represents the assistant.
	RoleAssistant
	// RoleSystem represents system instructions.
	RoleSystem
)

// Message is a single conversation turn handed to the extraction collaborator.
type Message struct {
	Role    Role
	Content string
}

// LocationCriteria is the location section of a criteria bundle.
// Each sub-field may hold multiple comma-separated canonical values.
type LocationCriteria struct {
	Present    bool   `json:"present"`
	PostalCode string `json:"postal_code,omitempty"`
	Commune    string `json:"commune,omitempty"`
	Department string `json:"department,omitempty"`
	Region     string `json:"region,omitempty"`
}

// ActivityCriteria is the activity section of a criteria bundle.
// SectorLabel is a coarse sector name resolved against the sector list;
// Description is a free-text activity description resolved semantically.
type ActivityCriteria struct {
	Present     bool   `json:"present"`
	SectorLabel string `json:"sector_label,omitempty"`
	Description string `json:"description,omitempty"`
}

// SizeCriteria is the company-size section of a criteria bundle.
// Expression holds the raw size expression until the parser resolves it
// into canonical brackets; it is left untouched when parsing fails.
type SizeCriteria struct {
	Present    bool     `json:"present"`
	Brackets   []string `json:"brackets,omitempty"`
	Acronym    string   `json:"acronym,omitempty"`
	Expression string   `json:"expression,omitempty"`
}

// FinancialCriteria is the financial section of a criteria bundle.
// Amounts are in euros.
type FinancialCriteria struct {
	Present       bool    `json:"present"`
	Turnover      float64 `json:"turnover,omitempty"`
	NetProfit     float64 `json:"net_profit,omitempty"`
	Profitability float64 `json:"profitability,omitempty"`
}

// LegalCriteria is the legal section of a criteria bundle.
// Headquarters carries the extractor's raw "oui"/"non" answer; the API
// transform converts it to a boolean.
type LegalCriteria struct {
	Present            bool    `json:"present"`
	LegalCategory      string  `json:"legal_category,omitempty"`
	Headquarters       string  `json:"headquarters,omitempty"`
	CreationDate       string  `json:"creation_date,omitempty"`
	Capital            float64 `json:"capital,omitempty"`
	OfficerChangeDate  string  `json:"officer_change_date,omitempty"`
	EstablishmentCount int     `json:"establishment_count,omitempty"`
}

// CriteriaBundle is the normalized set of search criteria for one request.
// Invariant: a section with Present=false has every sub-field zero. The
// invariant is enforced by Normalize, not assumed.
type CriteriaBundle struct {
	Location  LocationCriteria  `json:"location"`
	Activity  ActivityCriteria  `json:"activity"`
	Size      SizeCriteria      `json:"size"`
	Financial FinancialCriteria `json:"financial_criteria"`
	Legal     LegalCriteria     `json:"legal_criteria"`
}

// Normalize enforces the presence invariant: every section with
// Present=false is reset to its zero value. Idempotent.
func (b *CriteriaBundle) Normalize() {
	if !b.Location.Present {
		b.Location = LocationCriteria{}
	}
	if !b.Activity.Present {
		b.Activity = ActivityCriteria{}
	}
	if !b.Size.Present {
		b.Size = SizeCriteria{}
	}
	if !b.Financial.Present {
		b.Financial = FinancialCriteria{}
	}
	if !b.Legal.Present {
		b.Legal = LegalCriteria{}
	}
}

// LocationCorrection records how a single location token was resolved.
// Created once per token and never mutated afterwards.
type LocationCorrection struct {
	OriginalValue    string
	MatchedValue     string
	OriginalCategory Category
	MatchedCategory  Category
	Score            float64
}

// WasCorrected reports whether the value or its category changed.
func (c *LocationCorrection) WasCorrected() bool {
	return c.OriginalValue != c.MatchedValue || c.OriginalCategory != c.MatchedCategory
}

// CategoryChanged reports whether the token moved to a different category.
func (c *LocationCorrection) CategoryChanged() bool {
	return c.OriginalCategory != c.MatchedCategory
}

// Matched reports whether the token resolved to a canonical value at all.
func (c *LocationCorrection) Matched() bool {
	return c.MatchedValue != ""
}

// ActivityMatch is one ranked result from the semantic activity search.
// Selected is an external decision layered on top of the ranked matches;
// the matcher itself never sets it.
type ActivityMatch struct {
	Label    string   `json:"label"`
	Codes    []string `json:"codes"`
	Score    float64  `json:"score"`
	Selected bool     `json:"selected"`
}

// ActivityEmbedding is a persisted embedding vector for one catalog
// activity label, together with its activity codes.
type ActivityEmbedding struct {
	Label     string
	Codes     []string
	Vector    []float32
	UpdatedAt time.Time
}

// IndexFingerprint identifies the catalog contents and embedding model an
// activity index was generated from. A stored index is valid only while
// its fingerprint matches the current catalog and model.
type IndexFingerprint struct {
	LabelsHash  uint64
	ModelID     string
	GeneratedAt time.Time
}

// Matches reports whether the fingerprint covers the given labels and model.
func (f *IndexFingerprint) Matches(labels []string, modelID string) bool {
	return f.ModelID == modelID && f.LabelsHash == HashLabels(labels)
}

// HashLabels generates a deterministic hash of an ordered label list using
// BLAKE2b. Identical lists produce identical hashes; order matters.
func HashLabels(labels []string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	for _, label := range labels {
		h.Write([]byte(label))
		h.Write([]byte{'\n'})
	}
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
