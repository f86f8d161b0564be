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


package storage

import (
	"github.com/sirenic/firmatch/core"
)

// MarshalActivityEmbedding serializes an ActivityEmbedding to bytes.
func MarshalActivityEmbedding(embedding *core.ActivityEmbedding) []byte {
	buf := make([]byte, core.ActivityEmbeddingMUS.Size(*embedding))
	core.ActivityEmbeddingMUS.Marshal(*embedding, buf)
	return buf
}

// UnmarshalActivityEmbedding deserializes an ActivityEmbedding from bytes.
func UnmarshalActivityEmbedding(data []byte) (*core.ActivityEmbedding, error) {
	embedding, _, err := core.ActivityEmbeddingMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &embedding, nil
}

// MarshalIndexFingerprint serializes an IndexFingerprint to bytes.
func MarshalIndexFingerprint(fingerprint *core.IndexFingerprint) []byte {
	buf := make([]byte, core.IndexFingerprintMUS.Size(*fingerprint))
	core.IndexFingerprintMUS.Marshal(*fingerprint, buf)
	return buf
}

// UnmarshalIndexFingerprint deserializes an IndexFingerprint from bytes.
func UnmarshalIndexFingerprint(data []byte) (*core.IndexFingerprint, error) {
	fingerprint, _, err := core.IndexFingerprintMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &fingerprint, nil
}
