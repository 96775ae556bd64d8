package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"github.com/Mloh16/food-oasis/internal/stakeholder"
	"github.com/Mloh16/food-oasis/internal/stakeholder/models"
	"github.com/Mloh16/food-oasis/pkg/requestcontext"
)

type HandlerSuite struct {
	suite.Suite
	router *chi.Mux
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

// fakeAuth stands in for the JWT middleware and injects a fixed login id.
func fakeAuth(loginID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithLoginID(r.Context(), loginID)))
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, _, mem := stakeholder.NewMemory(logger)
	mem.SeedCategory(1, "Food Pantry")
	mem.SeedLogin(7, "Ada Verifier")

	s.router = chi.NewRouter()
	h.Register(s.router, fakeAuth(7), passthrough)
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) createStakeholder(name string) int64 {
	rec := s.do(http.MethodPost, "/api/stakeholders", map[string]any{
		"name":       name,
		"city":       "Los Angeles",
		"categories": []map[string]any{{"id": 1}},
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID int64 `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.ID
}

func (s *HandlerSuite) TestCreateAndGet() {
	id := s.createStakeholder("Downtown Pantry")

	rec := s.do(http.MethodGet, fmt.Sprintf("/api/stakeholders/%d", id), nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var got models.StakeholderVersion
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Equal("Downtown Pantry", got.Name)
	s.Equal("Ada Verifier", got.CreatedUser)
	s.Nil(got.Distance)
}

func (s *HandlerSuite) TestValidationErrors() {
	s.Run("create without a name is a 400", func() {
		rec := s.do(http.MethodPost, "/api/stakeholders", map[string]any{"city": "LA"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("non-numeric id is a 400", func() {
		rec := s.do(http.MethodGet, "/api/stakeholders/abc", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown id is a 404", func() {
		rec := s.do(http.MethodGet, "/api/stakeholders/9999", nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("latitude without longitude is a 400", func() {
		rec := s.do(http.MethodGet, "/api/stakeholders?latitude=34.05", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestSearchQueryDecoding() {
	s.createStakeholder("O'Brien Food Bank")
	id := s.createStakeholder("Westside Pantry")
	rec := s.do(http.MethodPut, fmt.Sprintf("/api/stakeholders/%d/assign", id),
		map[string]any{"assignedLoginId": 7})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	decode := func(rec *httptest.ResponseRecorder) []models.StakeholderVersion {
		var results []models.StakeholderVersion
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &results))
		return results
	}

	s.Run("name with a quote survives URL decoding and matches", func() {
		rec := s.do(http.MethodGet, "/api/stakeholders?name=O%27Brien", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		results := decode(rec)
		s.Require().Len(results, 1)
		s.Equal("O'Brien Food Bank", results[0].Name)
	})

	s.Run("isAssigned=false excludes assigned records", func() {
		rec := s.do(http.MethodGet, "/api/stakeholders?isAssigned=false", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		results := decode(rec)
		s.Require().Len(results, 1)
		s.Equal("O'Brien Food Bank", results[0].Name)
	})

	s.Run("isAssigned=either matches the original API and means any", func() {
		rec := s.do(http.MethodGet, "/api/stakeholders?isAssigned=either", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Len(decode(rec), 2)
	})

	s.Run("categoryIds decode as a comma-separated list", func() {
		rec := s.do(http.MethodGet, "/api/stakeholders?categoryIds=1,2", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Len(decode(rec), 2)
	})
}

func (s *HandlerSuite) TestWorkflowRoutes() {
	id := s.createStakeholder("Workflow Pantry")

	rec := s.do(http.MethodPut, fmt.Sprintf("/api/stakeholders/%d/assign", id),
		map[string]any{"assignedLoginId": 7})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPut, fmt.Sprintf("/api/stakeholders/%d/needs-verification", id),
		map[string]any{"message": "recheck hours"})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/stakeholders/%d", id), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var got models.StakeholderVersion
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Nil(got.AssignedLoginID)
	s.Equal(models.StatusUnverified, got.VerificationStatusID)
	s.Equal("recheck hours", got.ReviewNotes)

	rec = s.do(http.MethodPut, fmt.Sprintf("/api/stakeholders/%d/verify", id),
		map[string]any{"setVerified": true})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/stakeholders/%d", id), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().NotNil(got.VerifiedLoginID)
	s.Equal(int64(7), *got.VerifiedLoginID)
	s.NotNil(got.VerifiedDate)
	// Verifying does not move the record through the workflow.
	s.Equal(models.StatusUnverified, got.VerificationStatusID)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/stakeholders/%d/reviews", id), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var entries []json.RawMessage
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &entries))
	s.Len(entries, 3)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/stakeholders/%d", id), nil)
	s.Require().Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/stakeholders/%d", id), nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestCategories() {
	rec := s.do(http.MethodGet, "/api/categories", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var categories []models.Category
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &categories))
	s.Require().Len(categories, 1)
	s.Equal("Food Pantry", categories[0].Name)
}
