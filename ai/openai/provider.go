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
	"log/slog"

	"github.com/sirenic/firmatch/ai"
)

// Provider bundles the embedder and the criteria extractor behind a
// single ai.Provider so callers wire one configuration instead of two.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	extractor *CriteriaExtractor
	logger    *slog.Logger
}

// NewProvider validates the configuration and constructs both services.
// Callers receive the ai.Provider interface, never the concrete type.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	extractor, err := newCriteriaExtractor(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		extractor: extractor,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder { return p.embedder }

// CriteriaExtractor returns the criteria extraction service.
func (p *Provider) CriteriaExtractor() ai.CriteriaExtractor { return p.extractor }

// Close is a no-op today; the HTTP clients hold no pooled resources that
// outlive their requests.
func (p *Provider) Close() error {
	p.logger.Debug("closing provider")
	return nil
}
