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


package core

import "fmt"

// ValidateBundle validates a CriteriaBundle according to domain rules.
//
// Validation rules:
//   - A section with Present=false must have every sub-field zero
//
// NOT validated (resolved by the matchers):
//   - Whether values are canonical catalog entries
//   - Whether size brackets are consistent with the acronym
func ValidateBundle(bundle *CriteriaBundle) error {
	if bundle == nil {
		return fmt.Errorf("%w: bundle is nil", ErrInvalidBundle)
	}

	if !bundle.Location.Present && bundle.Location != (LocationCriteria{}) {
		return fmt.Errorf("%w: %w: location", ErrInvalidBundle, ErrPresenceViolation)
	}
	if !bundle.Activity.Present && bundle.Activity != (ActivityCriteria{}) {
		return fmt.Errorf("%w: %w: activity", ErrInvalidBundle, ErrPresenceViolation)
	}
	if !bundle.Size.Present && !isZeroSize(&bundle.Size) {
		return fmt.Errorf("%w: %w: size", ErrInvalidBundle, ErrPresenceViolation)
	}
	if !bundle.Financial.Present && bundle.Financial != (FinancialCriteria{}) {
		return fmt.Errorf("%w: %w: financial_criteria", ErrInvalidBundle, ErrPresenceViolation)
	}
	if !bundle.Legal.Present && bundle.Legal != (LegalCriteria{}) {
		return fmt.Errorf("%w: %w: legal_criteria", ErrInvalidBundle, ErrPresenceViolation)
	}

	return nil
}

// isZeroSize reports whether the size section is empty. SizeCriteria is not
// comparable because of the bracket slice.
func isZeroSize(s *SizeCriteria) bool {
	return len(s.Brackets) == 0 && s.Acronym == "" && s.Expression == ""
}

// ValidateMessage validates a conversation Message.
func ValidateMessage(message *Message) error {
	if message == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}

	if err := ValidateRole(message.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	if message.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyContent)
	}

	return nil
}

// ValidateRole validates that a Role has a valid value.
func ValidateRole(role Role) error {
	if role != RoleUser && role != RoleAssistant && role != RoleSystem {
		return fmt.Errorf("%w: value %d", ErrInvalidRole, role)
	}
	return nil
}

// ValidateCategory validates that a Category has a valid value.
func ValidateCategory(category Category) error {
	if category < CategoryCommune || category > CategoryActivity {
		return fmt.Errorf("%w: value %d", ErrInvalidCategory, category)
	}
	return nil
}

// ValidateEmbedding validates an ActivityEmbedding before persistence.
func ValidateEmbedding(embedding *ActivityEmbedding) error {
	if embedding == nil {
		return fmt.Errorf("%w: embedding is nil", ErrInvalidEmbedding)
	}

	if embedding.Label == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEmbedding, ErrEmptyLabel)
	}

	return nil
}
