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


package companyapi

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sirenic/firmatch/core"
)

// CountRequest is the count API's wire payload. Every section carries its
// own present flag; absent sections are sent with present=false and no
// other fields.
type CountRequest struct {
	Location  LocationFilter  `json:"location"`
	Activity  ActivityFilter  `json:"activity"`
	Size      SizeFilter      `json:"company_size"`
	Financial FinancialFilter `json:"financial_criteria"`
	Legal     LegalFilter     `json:"legal_criteria"`
}

// LocationFilter narrows the search geographically. Each field holds the
// individual canonical values, one array entry per value.
type LocationFilter struct {
	Present    bool     `json:"present"`
	City       []string `json:"city,omitempty"`
	Region     []string `json:"region,omitempty"`
	Department []string `json:"departement,omitempty"`
	PostCode   []string `json:"post_code,omitempty"`
}

// ActivityFilter narrows the search by activity codes. OriginalRequest
// carries the human-readable description for the API's relevance scoring.
type ActivityFilter struct {
	Present         bool     `json:"present"`
	Codes           []string `json:"activity_codes_list"`
	OriginalRequest string   `json:"original_activity_request,omitempty"`
}

// SizeFilter narrows the search to canonical employee-count brackets.
type SizeFilter struct {
	Present        bool     `json:"present"`
	EmployeeRanges []string `json:"employees_number_range,omitempty"`
}

// FinancialFilter narrows the search by financial figures, in euros.
type FinancialFilter struct {
	Present   bool    `json:"present"`
	Turnover  float64 `json:"turnover,omitempty"`
	NetProfit float64 `json:"net_profit,omitempty"`
}

// LegalFilter narrows the search by legal attributes. Headquarters is a
// tri-state: nil means no preference.
type LegalFilter struct {
	Present             bool  `json:"present"`
	Headquarters        *bool `json:"headquarters,omitempty"`
	CapitalThresholdSup bool  `json:"capital_threshold_sup,omitempty"`
}

// BuildCountRequest converts a normalized criteria bundle and the resolved
// activity codes into the API wire shape. Comma-joined location values are
// split back into individual array entries.
func BuildCountRequest(bundle *core.CriteriaBundle, codes []string) *CountRequest {
	req := &CountRequest{}

	loc := bundle.Location
	req.Location.Present = loc.Present
	if loc.Present {
		req.Location.City = splitValues(loc.Commune)
		req.Location.Region = splitValues(loc.Region)
		req.Location.Department = splitValues(loc.Department)
		req.Location.PostCode = splitValues(loc.PostalCode)
	}

	act := bundle.Activity
	req.Activity.Present = act.Present
	if act.Present {
		switch {
		case len(codes) > 0:
			req.Activity.Codes = codes
		case looksLikeActivityCode(act.Description):
			req.Activity.Codes = []string{act.Description}
		default:
			req.Activity.Codes = []string{}
		}
		req.Activity.OriginalRequest = act.Description
	}

	req.Size.Present = bundle.Size.Present
	if bundle.Size.Present {
		req.Size.EmployeeRanges = bundle.Size.Brackets
	}

	fin := bundle.Financial
	req.Financial.Present = fin.Present
	if fin.Present {
		req.Financial.Turnover = fin.Turnover
		req.Financial.NetProfit = fin.NetProfit
	}

	legal := bundle.Legal
	req.Legal.Present = legal.Present
	if legal.Present {
		if legal.Headquarters != "" {
			hq := parseAffirmative(legal.Headquarters)
			req.Legal.Headquarters = &hq
		}
		if legal.Capital > 0 {
			req.Legal.CapitalThresholdSup = true
		}
	}

	return req
}

// splitValues converts a comma-joined canonical value into individual
// entries. Empty input yields nil.
func splitValues(value string) []string {
	if value == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}

// looksLikeActivityCode reports whether the description is already a
// 5-character activity code (4 digits + 1 letter, e.g. "6201Z").
func looksLikeActivityCode(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, r := range s[:4] {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return unicode.IsLetter(rune(s[4]))
}

// parseAffirmative interprets the extractor's raw yes/no answer.
func parseAffirmative(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oui", "yes", "true", "1":
		return true
	default:
		return false
	}
}

// Summary renders a human-readable recap of the request criteria for
// display to the end user.
func Summary(req *CountRequest) string {
	var parts []string

	if req.Activity.Present && req.Activity.OriginalRequest != "" {
		parts = append(parts, "Activite: "+req.Activity.OriginalRequest)
	}

	if req.Location.Present {
		var locParts []string
		if len(req.Location.City) > 0 {
			locParts = append(locParts, strings.Join(req.Location.City, ", "))
		}
		if len(req.Location.Region) > 0 {
			locParts = append(locParts, strings.Join(req.Location.Region, ", "))
		}
		if len(req.Location.Department) > 0 {
			locParts = append(locParts, "dept. "+strings.Join(req.Location.Department, ", "))
		}
		if len(locParts) > 0 {
			parts = append(parts, "Localisation: "+strings.Join(locParts, " - "))
		}
	}

	if req.Size.Present && len(req.Size.EmployeeRanges) > 0 {
		parts = append(parts, "Taille: "+strings.Join(req.Size.EmployeeRanges, ", "))
	}

	if req.Financial.Present && req.Financial.Turnover > 0 {
		parts = append(parts, fmt.Sprintf("CA min: %.0f EUR", req.Financial.Turnover))
	}

	if req.Legal.Present && req.Legal.Headquarters != nil && *req.Legal.Headquarters {
		parts = append(parts, "Sieges sociaux uniquement")
	}

	if len(parts) == 0 {
		return "Aucun critere specifie"
	}
	return strings.Join(parts, " | ")
}
