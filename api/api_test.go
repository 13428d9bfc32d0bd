/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/atelier/database"
	"github.com/tomoncle/atelier/model"
	"github.com/tomoncle/atelier/repository"
	"github.com/tomoncle/atelier/repository/memory"
	"github.com/tomoncle/atelier/repository/repotest"
	"github.com/tomoncle/atelier/service"
	"github.com/tomoncle/atelier/types"
)

type stubHealth struct {
	status database.HealthStatus
}

func (s *stubHealth) HealthCheck(context.Context) *database.HealthStatus {
	return &s.status
}

func newTestServer(t *testing.T, health HealthChecker) *Server {
	t.Helper()
	clock := repository.NewClock()
	cards := memory.NewCardRepository(memory.WithClock(clock))
	customers := memory.NewCustomerRepository(memory.WithClock(clock))
	v := service.NewValidator()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewServer(Options{
		Cards:     service.NewCardService(cards, customers, v),
		Customers: service.NewCustomerService(customers, cards, v),
		Backend:   "memory",
		Health:    health,
		Logger:    logger,
	})
}

func do(t *testing.T, s *Server, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Error
}

func createCard(t *testing.T, s *Server, name string) model.Card {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/cards", repotest.CardInput(name))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[model.Card](t, rec)
}

func TestCardLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	card := createCard(t, s, "Salamander Ash")
	assert.NotEmpty(t, card.ID)
	assert.Equal(t, "Salamander Ash", card.Name)

	rec := do(t, s, http.MethodGet, "/api/cards/"+card.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, card.ID, decodeData[model.Card](t, rec).ID)

	rec = do(t, s, http.MethodPut, "/api/cards/"+card.ID, map[string]interface{}{
		"energyCost": 7,
		"imageUrl":   nil,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeData[model.Card](t, rec)
	assert.Equal(t, 7, updated.EnergyCost)
	assert.Nil(t, updated.ImageURL)
	assert.Equal(t, card.Name, updated.Name)

	rec = do(t, s, http.MethodDelete, "/api/cards/"+card.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/cards/"+card.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, types.CodeNotFound, decodeError(t, rec).Code)
}

func TestCardListPaginatesAndFilters(t *testing.T) {
	s := newTestServer(t, nil)
	for _, name := range []string{"Iron Dust", "Iron Filings", "Copper Wire"} {
		createCard(t, s, name)
	}

	rec := do(t, s, http.MethodGet, "/api/cards?page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeData[types.Pagination[model.Card]](t, rec)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)

	rec = do(t, s, http.MethodGet, "/api/cards?search=Iron&cardType=MATERIAL", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decodeData[types.Pagination[model.Card]](t, rec)
	assert.Equal(t, 2, page.Total)
}

func TestCardListRejectsBadQuery(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/cards?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, types.CodeValidation, decodeError(t, rec).Code)

	rec = do(t, s, http.MethodGet, "/api/cards?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/cards?cardType=POTION", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCardCreateValidationDetails(t *testing.T) {
	s := newTestServer(t, nil)
	in := repotest.CardInput("")
	in.EnergyCost = 42

	rec := do(t, s, http.MethodPost, "/api/cards", in)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, types.CodeValidation, body.Code)
	assert.NotNil(t, body.Details)
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/cards", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, types.CodeValidation, decodeError(t, rec).Code)
}

func TestDuplicateCardConflicts(t *testing.T) {
	s := newTestServer(t, nil)
	createCard(t, s, "Moonstone")

	rec := do(t, s, http.MethodPost, "/api/cards", repotest.CardInput("Moonstone"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, types.CodeDuplicate, decodeError(t, rec).Code)
}

func TestCardDeleteBlockedByDependents(t *testing.T) {
	s := newTestServer(t, nil)
	card := createCard(t, s, "Philosopher Salt")

	rec := do(t, s, http.MethodPost, "/api/customers", repotest.CustomerInput("Alchemist Guild", card.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodDelete, "/api/cards/"+card.ID, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, types.CodeDependency, body.Code)

	raw, err := json.Marshal(body.Details)
	require.NoError(t, err)
	var deps []types.Dependency
	require.NoError(t, json.Unmarshal(raw, &deps))
	require.Len(t, deps, 1)
	assert.Equal(t, "Alchemist Guild", deps[0].ResourceName)
}

func TestCustomerLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	card := createCard(t, s, "Dragon Scale")

	rec := do(t, s, http.MethodPost, "/api/customers", repotest.CustomerInput("Knight Order", card.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	customer := decodeData[model.Customer](t, rec)
	assert.Equal(t, []string{card.ID}, customer.RewardCardIDs())

	rec = do(t, s, http.MethodGet, "/api/customers?difficulty=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeData[types.Pagination[model.Customer]](t, rec).Total)

	rec = do(t, s, http.MethodPut, "/api/customers/"+customer.ID, map[string]interface{}{"difficulty": 4})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 4, decodeData[model.Customer](t, rec).Difficulty)

	rec = do(t, s, http.MethodDelete, "/api/customers/"+customer.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/customers/"+customer.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerRejectsUnknownRewardCard(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/api/customers",
		repotest.CustomerInput("Wandering Bard", "44444444-4444-4444-4444-444444444444"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/api/potions", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, types.CodeNotFound, decodeError(t, rec).Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "memory", resp.Backend)
	assert.Nil(t, resp.Database)

	down := &stubHealth{status: database.HealthStatus{LastError: "connection refused"}}
	s = newTestServer(t, down)
	rec = do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	do(t, s, http.MethodGet, "/api/cards", nil)
	do(t, s, http.MethodGet, "/api/cards/44444444-4444-4444-4444-444444444444", nil)

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `atelier_http_requests_total{method="GET",route="/api/cards",status="200"} 1`)
	assert.Contains(t, body, `atelier_http_requests_total{method="GET",route="/api/cards/:id",status="404"} 1`)
	assert.Contains(t, body, "atelier_http_request_duration_seconds")
}

func TestInternalErrorsHideMessage(t *testing.T) {
	status, body := errorBody(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, types.CodeInternal, body.Code)
	assert.NotContains(t, body.Message, assert.AnError.Error())

	status, body = errorBody(types.ConfigurationError("missing dsn"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, types.CodeInternal, body.Code)
}
