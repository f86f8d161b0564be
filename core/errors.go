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

import "errors"

// Domain validation errors
var (
	// ErrInvalidBundle indicates a CriteriaBundle failed validation.
	ErrInvalidBundle = errors.New("invalid criteria bundle")

	// ErrPresenceViolation indicates a section marked absent still carries values.
	ErrPresenceViolation = errors.New("section marked absent but has values")

	// ErrInvalidMessage indicates a Message failed validation.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidRole indicates an invalid Role value.
	ErrInvalidRole = errors.New("invalid message role")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidCategory indicates an invalid Category value.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidEmbedding indicates an ActivityEmbedding failed validation.
	ErrInvalidEmbedding = errors.New("invalid activity embedding")

	// ErrEmptyLabel indicates the embedding Label field is empty.
	ErrEmptyLabel = errors.New("label cannot be empty")
)
