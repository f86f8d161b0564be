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
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirenic/firmatch/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-key",
		WithClientLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("", "key")
	assert.ErrorIs(t, err, ErrBaseURLRequired)
}

func TestCountCompanies(t *testing.T) {
	ctx := context.Background()

	t.Run("success with count_legal", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/count_bot_v1", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req CountRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.True(t, req.Location.Present)
			assert.Equal(t, []string{"Lyon"}, req.Location.City)

			json.NewEncoder(w).Encode(map[string]any{"count_legal": 42, "count": 99})
		})

		result, err := client.CountCompanies(ctx, &CountRequest{
			Location: LocationFilter{Present: true, City: []string{"Lyon"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 42, result.Count)
	})

	t.Run("falls back to count field", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"count": 17})
		})

		result, err := client.CountCompanies(ctx, &CountRequest{})
		require.NoError(t, err)
		assert.Equal(t, 17, result.Count)
	})

	t.Run("unauthorized", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.CountCompanies(ctx, &CountRequest{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindUnauthorized, apiErr.Kind)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})

	t.Run("bad request carries server message", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "unknown field foo"})
		})

		_, err := client.CountCompanies(ctx, &CountRequest{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindBadRequest, apiErr.Kind)
		assert.Contains(t, apiErr.Message, "unknown field foo")
	})

	t.Run("criteria conflict", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(456)
		})

		_, err := client.CountCompanies(ctx, &CountRequest{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindCriteriaConflict, apiErr.Kind)
	})

	t.Run("unexpected status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, "upstream unavailable")
		})

		_, err := client.CountCompanies(ctx, &CountRequest{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindUnexpected, apiErr.Kind)
		assert.Contains(t, apiErr.Message, "upstream unavailable")
	})

	t.Run("transport failure", func(t *testing.T) {
		client, err := NewClient("http://127.0.0.1:1", "key",
			WithTimeout(200*time.Millisecond),
			WithClientLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		require.NoError(t, err)

		_, err = client.CountCompanies(ctx, &CountRequest{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindTransport, apiErr.Kind)
		assert.Error(t, errors.Unwrap(apiErr))
	})

	t.Run("malformed response body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "not json")
		})

		_, err := client.CountCompanies(ctx, &CountRequest{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindUnexpected, apiErr.Kind)
	})

	t.Run("context cancellation", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		})

		cancelled, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		_, err := client.CountCompanies(cancelled, &CountRequest{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindTransport, apiErr.Kind)
	})
}

func TestHealthCheck(t *testing.T) {
	t.Run("responding API", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		assert.True(t, client.HealthCheck(context.Background()))
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		assert.False(t, client.HealthCheck(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		client, err := NewClient("http://127.0.0.1:1", "",
			WithTimeout(200*time.Millisecond),
			WithClientLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		require.NoError(t, err)
		assert.False(t, client.HealthCheck(context.Background()))
	})
}

func TestBuildCountRequest(t *testing.T) {
	t.Run("full bundle", func(t *testing.T) {
		bundle := &core.CriteriaBundle{
			Location: core.LocationCriteria{
				Present:    true,
				Commune:    "Lyon, Villeurbanne",
				Department: "Rhône",
				PostalCode: "69001",
			},
			Activity: core.ActivityCriteria{Present: true, Description: "boulangerie artisanale"},
			Size:     core.SizeCriteria{Present: true, Brackets: []string{"10 to 19 employees", "20 to 49 employees"}},
			Financial: core.FinancialCriteria{
				Present:   true,
				Turnover:  1_000_000,
				NetProfit: 50_000,
			},
			Legal: core.LegalCriteria{Present: true, Headquarters: "oui", Capital: 10_000},
		}

		req := BuildCountRequest(bundle, []string{"1071C", "1071D"})

		assert.Equal(t, []string{"Lyon", "Villeurbanne"}, req.Location.City)
		assert.Equal(t, []string{"Rhône"}, req.Location.Department)
		assert.Equal(t, []string{"69001"}, req.Location.PostCode)
		assert.Empty(t, req.Location.Region)

		assert.Equal(t, []string{"1071C", "1071D"}, req.Activity.Codes)
		assert.Equal(t, "boulangerie artisanale", req.Activity.OriginalRequest)

		assert.Equal(t, []string{"10 to 19 employees", "20 to 49 employees"}, req.Size.EmployeeRanges)
		assert.Equal(t, 1_000_000.0, req.Financial.Turnover)
		assert.Equal(t, 50_000.0, req.Financial.NetProfit)

		require.NotNil(t, req.Legal.Headquarters)
		assert.True(t, *req.Legal.Headquarters)
		assert.True(t, req.Legal.CapitalThresholdSup)
	})

	t.Run("absent sections stay empty", func(t *testing.T) {
		req := BuildCountRequest(&core.CriteriaBundle{}, nil)
		assert.False(t, req.Location.Present)
		assert.False(t, req.Activity.Present)
		assert.False(t, req.Size.Present)
		assert.False(t, req.Financial.Present)
		assert.False(t, req.Legal.Present)
		assert.Nil(t, req.Legal.Headquarters)
	})

	t.Run("description that is already a code", func(t *testing.T) {
		bundle := &core.CriteriaBundle{
			Activity: core.ActivityCriteria{Present: true, Description: "6201Z"},
		}
		req := BuildCountRequest(bundle, nil)
		assert.Equal(t, []string{"6201Z"}, req.Activity.Codes)
	})

	t.Run("no codes and plain description", func(t *testing.T) {
		bundle := &core.CriteriaBundle{
			Activity: core.ActivityCriteria{Present: true, Description: "transport"},
		}
		req := BuildCountRequest(bundle, nil)
		assert.Equal(t, []string{}, req.Activity.Codes)
	})

	t.Run("non affirmative headquarters", func(t *testing.T) {
		bundle := &core.CriteriaBundle{
			Legal: core.LegalCriteria{Present: true, Headquarters: "non"},
		}
		req := BuildCountRequest(bundle, nil)
		require.NotNil(t, req.Legal.Headquarters)
		assert.False(t, *req.Legal.Headquarters)
	})
}

func TestSummary(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		assert.Equal(t, "Aucun critere specifie", Summary(&CountRequest{}))
	})

	t.Run("full request", func(t *testing.T) {
		hq := true
		summary := Summary(&CountRequest{
			Location: LocationFilter{Present: true, City: []string{"Lyon"}, Department: []string{"Rhône"}},
			Activity: ActivityFilter{Present: true, OriginalRequest: "boulangerie"},
			Size:     SizeFilter{Present: true, EmployeeRanges: []string{"10 to 19 employees"}},
			Financial: FinancialFilter{
				Present:  true,
				Turnover: 1_000_000,
			},
			Legal: LegalFilter{Present: true, Headquarters: &hq},
		})
		assert.Contains(t, summary, "Activite: boulangerie")
		assert.Contains(t, summary, "Localisation: Lyon - dept. Rhône")
		assert.Contains(t, summary, "Taille: 10 to 19 employees")
		assert.Contains(t, summary, "CA min: 1000000 EUR")
		assert.Contains(t, summary, "Sieges sociaux uniquement")
	})
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "unauthorized", KindUnauthorized.String())
	assert.Equal(t, "bad_request", KindBadRequest.String())
	assert.Equal(t, "criteria_conflict", KindCriteriaConflict.String())
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "unexpected", KindUnexpected.String())
}
