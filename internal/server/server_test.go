package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/server/middleware"
	"github.com/jonathan/talent-match/internal/server/ratelimit"
	"github.com/jonathan/talent-match/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const vacancyJSON = `{
  "id": "vac_data_001",
  "title": "Data Analyst",
  "required_skills": ["python", "sql"],
  "min_experience_years": 2,
  "max_experience_years": 5,
  "salary_range": {"min": 4000, "max": 8000},
  "location": "sao paulo",
  "modality": "hybrid",
  "category": "data"
}`

const candidatesJSON = `[
  {"id": "cand_b", "skills": ["python"], "experience_years": 1, "desired_salary": {"min": 9000},
   "location": "rio de janeiro", "modality": "remote", "availability": "30 days"},
  {"id": "cand_a", "skills": ["Python", "SQL", "React"], "experience_years": 3, "desired_salary": {"min": 5000},
   "location": "São Paulo", "modality": "hybrid", "availability": "immediate"}
]`

const talentPoolJSON = `[
  {"id": "reg_03", "skills": ["python", "sql"], "experience_years": 3, "area_of_interest": "Data", "availability": "immediate"},
  {"id": "reg_01", "skills": ["python", "sql"], "experience_years": 3, "area_of_interest": "Marketing", "availability": "immediate"},
  {"id": "reg_02", "skills": ["python", "sql"], "experience_years": 3, "availability": "immediate"},
  {"id": "reg_04", "skills": ["sql"], "experience_years": 1, "area_of_interest": " data ", "availability": "45 days"},
  {"id": "reg_05", "skills": ["python"], "area_of_interest": "   "}
]`

// fakeStore is an in-memory Store
type fakeStore struct {
	vacancies  map[uuid.UUID]*db.Vacancy
	applicants map[uuid.UUID][]db.Candidate
	pool       []db.Candidate
	runs       []db.RankingRunInput
	runID      uuid.UUID
}

func (f *fakeStore) GetVacancy(_ context.Context, id uuid.UUID) (*db.Vacancy, error) {
	return f.vacancies[id], nil
}

func (f *fakeStore) ListApplicants(_ context.Context, vacancyID uuid.UUID) ([]db.Candidate, error) {
	return f.applicants[vacancyID], nil
}

func (f *fakeStore) ListTalentPool(_ context.Context) ([]db.Candidate, error) {
	return f.pool, nil
}

func (f *fakeStore) RecordRankingRun(_ context.Context, input *db.RankingRunInput) (uuid.UUID, error) {
	f.runs = append(f.runs, *input)
	return f.runID, nil
}

func newFakeStore() (*fakeStore, uuid.UUID) {
	vacancyID := uuid.New()
	maxYears := 5
	salaryMin, salaryMax := 4000.0, 8000.0

	store := &fakeStore{
		vacancies: map[uuid.UUID]*db.Vacancy{
			vacancyID: {
				ID:                 vacancyID,
				Title:              "Data Analyst",
				RequiredSkills:     []string{"python", "sql"},
				MinExperienceYears: 2,
				MaxExperienceYears: &maxYears,
				SalaryMin:          &salaryMin,
				SalaryMax:          &salaryMax,
				Location:           "sao paulo",
				Modality:           "hybrid",
				Category:           "data",
			},
		},
		applicants: map[uuid.UUID][]db.Candidate{},
		runID:      uuid.New(),
	}

	strong := db.Candidate{ID: uuid.New(), Skills: []string{"python", "sql"}, ExperienceYears: 3,
		Location: "São Paulo", Modality: "hybrid", Availability: "immediate", AreaOfInterest: "data"}
	weak := db.Candidate{ID: uuid.New(), Skills: []string{"excel"}, ExperienceYears: 0,
		Location: "recife", Modality: "on_site", Availability: "not_available"}
	unmatched := db.Candidate{ID: uuid.New(), Skills: []string{"python"}, InTalentBank: true}

	store.applicants[vacancyID] = []db.Candidate{weak, strong}
	store.pool = []db.Candidate{strong, unmatched}
	return store, vacancyID
}

func newTestServer(t *testing.T, cfg Config, store Store) http.Handler {
	t.Helper()
	srv, err := New(cfg, store, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNew_InvalidSettings(t *testing.T) {
	_, err := New(Config{Settings: config.Config{MinScore: 2}}, nil, nil)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, Config{}, nil)

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disabled", body["database"])
}

// pingStore is a fakeStore that reports reachability
type pingStore struct {
	*fakeStore
	err error
}

func (p *pingStore) Ping(_ context.Context) error {
	return p.err
}

func TestHealth_Database(t *testing.T) {
	store, _ := newFakeStore()

	rec := do(t, newTestServer(t, Config{}, store), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "configured", decode[map[string]string](t, rec)["database"])

	rec = do(t, newTestServer(t, Config{}, &pingStore{fakeStore: store}), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "connected", decode[map[string]string](t, rec)["database"])

	rec = do(t, newTestServer(t, Config{}, &pingStore{fakeStore: store, err: errors.New("connection refused")}),
		http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unreachable", body["database"])
}

func TestRank(t *testing.T) {
	h := newTestServer(t, Config{}, nil)

	rec := do(t, h, http.MethodPost, "/v1/rank",
		`{"vacancy": `+vacancyJSON+`, "candidates": `+candidatesJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	results := decode[types.RankingResults](t, rec)
	assert.Equal(t, "vac_data_001", results.VacancyID)
	require.Len(t, results.Ranked, 2)
	assert.Equal(t, "cand_a", results.Ranked[0].CandidateID)
	assert.Equal(t, 1, results.Ranked[0].Rank)
	assert.Equal(t, "cand_b", results.Ranked[1].CandidateID)
	assert.Equal(t, 2, results.Ranked[1].Rank)
	assert.Greater(t, results.Ranked[0].OverallScore, results.Ranked[1].OverallScore)
	assert.Len(t, results.Ranked[0].Dimensions, 5)
}

func TestRank_MinScoreAndLimit(t *testing.T) {
	h := newTestServer(t, Config{}, nil)

	rec := do(t, h, http.MethodPost, "/v1/rank",
		`{"vacancy": `+vacancyJSON+`, "candidates": `+candidatesJSON+`, "min_score": 0.7}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	results := decode[types.RankingResults](t, rec)
	require.Len(t, results.Ranked, 1)
	assert.Equal(t, "cand_a", results.Ranked[0].CandidateID)

	rec = do(t, h, http.MethodPost, "/v1/rank",
		`{"vacancy": `+vacancyJSON+`, "candidates": `+candidatesJSON+`, "limit": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	results = decode[types.RankingResults](t, rec)
	assert.Len(t, results.Ranked, 1)
}

func TestRank_EmptyCandidates(t *testing.T) {
	h := newTestServer(t, Config{}, nil)

	rec := do(t, h, http.MethodPost, "/v1/rank", `{"vacancy": `+vacancyJSON+`, "candidates": []}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"vacancy_id": "vac_data_001", "ranked": []}`, rec.Body.String())
}

func TestRank_NegativeSalaryIsNormalized(t *testing.T) {
	h := newTestServer(t, Config{}, nil)

	candidates := `[
	  {"id": "good", "skills": ["python", "sql"], "experience_years": 3, "desired_salary": {"min": 5000}},
	  {"id": "bad", "skills": ["python", "sql"], "experience_years": 3, "desired_salary": {"min": -1}}
	]`
	rec := do(t, h, http.MethodPost, "/v1/rank", `{"vacancy": `+vacancyJSON+`, "candidates": `+candidates+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	results := decode[types.RankingResults](t, rec)
	require.Len(t, results.Ranked, 2)

	var bad *types.CompatibilityResult
	for i := range results.Ranked {
		if results.Ranked[i].CandidateID == "bad" {
			bad = &results.Ranked[i]
		}
	}
	require.NotNil(t, bad)
	salary, ok := bad.Dimension(types.DimensionSalary)
	require.True(t, ok)
	assert.Equal(t, 1.0, salary.Raw)
	assert.Contains(t, salary.Note, "negative salary minimum clamped to 0")
}

func TestMatchPool_NegativeSalaryIsNormalized(t *testing.T) {
	h := newTestServer(t, Config{}, nil)

	pool := `[{"id": "reg_bad", "area_of_interest": "data", "desired_salary": {"min": -100}}]`
	rec := do(t, h, http.MethodPost, "/v1/match-pool", `{"vacancy": `+vacancyJSON+`, "talent_pool": `+pool+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	match := decode[types.TalentPoolMatch](t, rec)
	require.Len(t, match.Matches, 1)
	assert.Equal(t, "reg_bad", match.Matches[0].CandidateID)
}

func TestRank_BadRequests(t *testing.T) {
	h := newTestServer(t, Config{}, nil)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "malformed JSON", body: `{"vacancy": `, message: "invalid JSON"},
		{name: "missing vacancy", body: `{"candidates": []}`, message: "vacancy is required"},
		{name: "vacancy without id", body: `{"vacancy": {"title": "x"}, "candidates": []}`, message: "vacancy"},
		{name: "candidate without id", body: `{"vacancy": ` + vacancyJSON + `, "candidates": [{"name": "x"}]}`, message: "candidates[0]"},
		{
			name:    "weights not summing to one",
			body:    `{"vacancy": ` + vacancyJSON + `, "candidates": [], "weights": {"skills": 0.5, "experience": 0.2}}`,
			message: "sum to 1.0",
		},
		{
			name:    "unknown dimension",
			body:    `{"vacancy": ` + vacancyJSON + `, "candidates": [], "weights": {"skills": 0.5, "culture": 0.5}}`,
			message: "unknown dimension",
		},
		{name: "min score out of range", body: `{"vacancy": ` + vacancyJSON + `, "candidates": [], "min_score": 1.5}`, message: "min_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/rank", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode[map[string]string](t, rec)
			assert.Contains(t, body["error"], tt.message)
		})
	}
}

func TestMatchPool(t *testing.T) {
	h := newTestServer(t, Config{}, nil)

	rec := do(t, h, http.MethodPost, "/v1/match-pool",
		`{"vacancy": `+vacancyJSON+`, "talent_pool": `+talentPoolJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	match := decode[types.TalentPoolMatch](t, rec)
	assert.Equal(t, "vac_data_001", match.VacancyID)
	assert.Equal(t, 2, match.Skipped)
	assert.Equal(t, []string{"reg_02", "reg_05"}, match.SkippedIDs)
	require.Len(t, match.Matches, 3)
	assert.Equal(t, "reg_03", match.Matches[0].CandidateID)
	assert.Len(t, match.Matches[0].Dimensions, 4)
}

func TestMatchPool_RankingWeightsRejected(t *testing.T) {
	h := newTestServer(t, Config{}, nil)

	weights, err := json.Marshal(ranking.DefaultWeights())
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/v1/match-pool",
		`{"vacancy": `+vacancyJSON+`, "talent_pool": [], "weights": `+string(weights)+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIKeyRequired(t *testing.T) {
	h := newTestServer(t, Config{APIKeys: []middleware.APIKey{{Client: "recruiting", Token: "s3cret"}}}, nil)
	body := `{"vacancy": ` + vacancyJSON + `, "candidates": []}`

	rec := do(t, h, http.MethodPost, "/v1/rank", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/rank", body, "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/rank", body, "Authorization", "Bearer s3cret")
	assert.Equal(t, http.StatusOK, rec.Code)

	// health stays public
	rec = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStoredEndpoints_NoDatabase(t *testing.T) {
	h := newTestServer(t, Config{}, nil)

	rec := do(t, h, http.MethodPost, "/v1/vacancies/"+uuid.NewString()+"/rank", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/vacancies/"+uuid.NewString()+"/match-pool", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRankVacancy(t *testing.T) {
	store, vacancyID := newFakeStore()
	h := newTestServer(t, Config{}, store)

	rec := do(t, h, http.MethodPost, "/v1/vacancies/"+vacancyID.String()+"/rank", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, rec.Header().Get(RunIDHeader))
	assert.Empty(t, store.runs)

	results := decode[types.RankingResults](t, rec)
	assert.Equal(t, vacancyID.String(), results.VacancyID)
	require.Len(t, results.Ranked, 2)
	assert.Equal(t, store.applicants[vacancyID][1].ID.String(), results.Ranked[0].CandidateID)
}

func TestRankVacancy_Record(t *testing.T) {
	store, vacancyID := newFakeStore()
	h := newTestServer(t, Config{}, store)

	rec := do(t, h, http.MethodPost, "/v1/vacancies/"+vacancyID.String()+"/rank", `{"record": true, "limit": 1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, store.runID.String(), rec.Header().Get(RunIDHeader))

	require.Len(t, store.runs, 1)
	run := store.runs[0]
	assert.Equal(t, vacancyID, run.VacancyID)
	assert.Equal(t, db.RunKindApplicants, run.Kind)
	assert.Equal(t, 2, run.CandidateCount)
	assert.Len(t, run.Results, 1)
}

func TestRankVacancy_Errors(t *testing.T) {
	store, _ := newFakeStore()
	h := newTestServer(t, Config{}, store)

	rec := do(t, h, http.MethodPost, "/v1/vacancies/not-a-uuid/rank", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/vacancies/"+uuid.NewString()+"/rank", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "vacancy not found")
}

func TestMatchPoolVacancy_Record(t *testing.T) {
	store, vacancyID := newFakeStore()
	h := newTestServer(t, Config{}, store)

	rec := do(t, h, http.MethodPost, "/v1/vacancies/"+vacancyID.String()+"/match-pool", `{"record": true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	match := decode[types.TalentPoolMatch](t, rec)
	assert.Len(t, match.Matches, 1)
	assert.Equal(t, 1, match.Skipped)
	assert.Equal(t, []string{store.pool[1].ID.String()}, match.SkippedIDs)

	require.Len(t, store.runs, 1)
	assert.Equal(t, db.RunKindTalentPool, store.runs[0].Kind)
	assert.Equal(t, 2, store.runs[0].CandidateCount)
	assert.Equal(t, 1, store.runs[0].Skipped)
	assert.Equal(t, store.runID.String(), rec.Header().Get(RunIDHeader))
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, Config{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Minute,
	}}, nil)

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "rate_limit_exceeded", body["error"])
	assert.EqualValues(t, 2, body["limit"])
}

func TestRateLimit_Blocklist(t *testing.T) {
	h := newTestServer(t, Config{RateLimit: &ratelimit.Config{
		Enabled:   true,
		Blocklist: map[string]bool{"192.0.2.1": true},
	}}, nil)

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimit_ResponsesCarryCORSHeaders(t *testing.T) {
	h := newTestServer(t, Config{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
	}}, nil)
	origin := []string{"Origin", "https://recruiting.example.com"}

	rec := do(t, h, http.MethodGet, "/health", "", origin...)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/health", "", origin...)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	preflight := do(t, h, http.MethodOptions, "/v1/rank", "",
		"Origin", "https://recruiting.example.com",
		"Access-Control-Request-Method", "POST",
	)
	assert.NotEqual(t, http.StatusTooManyRequests, preflight.Code)
	assert.Equal(t, "*", preflight.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, Config{}, nil)

	rec := do(t, h, http.MethodOptions, "/v1/rank", "",
		"Origin", "https://recruiting.example.com",
		"Access-Control-Request-Method", "POST",
	)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
