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


// Package storage defines the persistence interfaces for the activity
// embedding index and the binary serialization helpers shared by all
// backends.
//
// The interfaces are backend-agnostic; the storage/badger subpackage
// provides the BadgerDB implementation used in production and an in-memory
// mode for tests.
//
// Serialization uses the mus-format binary codec. The concrete serializers
// (core.ActivityEmbeddingMUS, core.IndexFingerprintMUS) are generated into
// the core package by cmd/musgen via go generate.
package storage
