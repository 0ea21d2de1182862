package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samadhan/internal/audit"
	"samadhan/internal/catalog"
	"samadhan/internal/eligibility"
	"samadhan/internal/family"
	familymetrics "samadhan/internal/family/metrics"
	"samadhan/internal/jwttoken"
	"samadhan/internal/member"
	"samadhan/internal/platform/logger"
	"samadhan/internal/platform/metrics"
	"samadhan/internal/registration"
	regmetrics "samadhan/internal/registration/metrics"
	id "samadhan/pkg/domain"
	"samadhan/pkg/platform/tx"
)

// Prometheus collectors register once per process.
var (
	testPlatformMetrics = metrics.New()
	testRegMetrics      = regmetrics.New()
	testFamilyMetrics   = familymetrics.New()
)

type env struct {
	router  http.Handler
	token   string
	members *member.InMemoryStore
	audits  *audit.InMemoryStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := logger.New()

	catalogStore := catalog.NewInMemoryStore()
	catalogStore.Seed(
		[]catalog.Question{
			{ID: "q-age", ConceptName: "Age", ConceptType: catalog.ConceptNumber},
		},
		nil,
	)

	rules := eligibility.NewInMemoryStore()
	rules.Seed(
		[]eligibility.Scheme{
			{ID: "s-pension", ProgramID: "prog-wardha", Name: "Old Age Pension",
				Description: eligibility.LocalizedText{
					eligibility.DefaultLanguage: "Monthly pension for citizens over 60",
					"hi":                        "60 वर्ष से अधिक नागरिकों के लिए मासिक पेंशन",
				},
				Criteria: []eligibility.Criterion{{
					QuestionID: "q-age",
					Numeric:    &eligibility.NumericCriterion{Operation: eligibility.OpGreaterOrEqual, Bounds: []string{"60"}},
				}}},
		},
		nil,
	)

	members := member.NewInMemoryStore()
	families := family.NewInMemoryStore()
	audits := audit.NewInMemoryStore()
	publisher := audit.NewStorePublisher(audits, log)
	runner := tx.NewLockRunner()

	memberService := member.NewService(members, publisher, testPlatformMetrics, log)
	familyService := family.NewService(families, members, runner, publisher, testFamilyMetrics, log)
	reconciler := family.NewReconciler(families, members, runner, publisher, testFamilyMetrics, log)

	sessions := registration.NewInMemorySessionStore()
	registrationService := registration.NewService(sessions, catalog.NewService(catalogStore),
		rules, memberService, familyService, testRegMetrics, log, time.Hour)

	tokens := jwttoken.NewService("test-key", "samadhan", "samadhan-agents")
	token, err := tokens.GenerateAccessToken("agent-7", time.Hour)
	require.NoError(t, err)

	handler := NewHandler(registrationService, memberService, familyService,
		catalog.NewService(catalogStore), rules, audits, reconciler, nil, log)
	router := NewRouter(handler, jwttoken.NewMiddlewareAdapter(tokens),
		testPlatformMetrics, 30*time.Second, log)

	return &env{router: router, token: token, members: members, audits: audits}
}

func (e *env) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

func TestAuthRequired(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schemes?programId=prog-wardha", nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthzIsOpen(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegistrationFlowOverHTTP(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/sessions", map[string]any{
		"programId":      "prog-wardha",
		"name":           "Asha Devi",
		"aadharLastFour": "4321",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var session struct {
		ID string `json:"id"`
	}
	decode(t, rec, &session)
	require.NotEmpty(t, session.ID)

	rec = e.do(t, http.MethodPut, "/api/v1/sessions/"+session.ID+"/answers", map[string]any{
		"answers": map[string][]string{"q-age": {"65"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/v1/sessions/"+session.ID+"/eligibility", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var evaluation struct {
		EligibleSchemes []eligibility.Match `json:"eligibleSchemes"`
	}
	decode(t, rec, &evaluation)
	require.Len(t, evaluation.EligibleSchemes, 1)
	assert.Equal(t, "s-pension", evaluation.EligibleSchemes[0].ID)

	rec = e.do(t, http.MethodPost, "/api/v1/sessions/"+session.ID+"/register", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var registered struct {
		Outcome string `json:"outcome"`
		Member  struct {
			ID           string `json:"id"`
			RegisteredBy string `json:"registeredBy"`
		} `json:"member"`
	}
	decode(t, rec, &registered)
	assert.Equal(t, "created", registered.Outcome)
	assert.Equal(t, "agent-7", registered.Member.RegisteredBy)
	assert.Equal(t, 1, e.members.Count())

	// The audit trail is queryable per member.
	rec = e.do(t, http.MethodGet, "/api/v1/members/"+registered.Member.ID+"/audit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var trail struct {
		Events []struct {
			Action string `json:"action"`
		} `json:"events"`
	}
	decode(t, rec, &trail)
	require.Len(t, trail.Events, 1)
	assert.Equal(t, "member_created", trail.Events[0].Action)
}

func TestDuplicateRegistrationSurfacesConflict(t *testing.T) {
	e := newEnv(t)

	register := func(decision string) *httptest.ResponseRecorder {
		rec := e.do(t, http.MethodPost, "/api/v1/sessions", map[string]any{
			"programId":      "prog-wardha",
			"name":           "Asha Devi",
			"aadharLastFour": "4321",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		var session struct {
			ID string `json:"id"`
		}
		decode(t, rec, &session)

		var payload any
		if decision != "" {
			payload = map[string]string{"onDuplicate": decision}
		}
		return e.do(t, http.MethodPost, "/api/v1/sessions/"+session.ID+"/register", payload)
	}

	rec := register("")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = register("")
	assert.Equal(t, http.StatusConflict, rec.Code)
	var conflicted struct {
		Outcome string `json:"outcome"`
	}
	decode(t, rec, &conflicted)
	assert.Equal(t, "duplicate", conflicted.Outcome)

	rec = register("merge")
	assert.Equal(t, http.StatusOK, rec.Code)
	var merged struct {
		Outcome string `json:"outcome"`
	}
	decode(t, rec, &merged)
	assert.Equal(t, "merged", merged.Outcome)
	assert.Equal(t, 1, e.members.Count())
}

func TestLocalizedSchemeListing(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/api/v1/schemes?programId=prog-wardha&lang=hi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var localized struct {
		Schemes []schemeResponse `json:"schemes"`
	}
	decode(t, rec, &localized)
	require.Len(t, localized.Schemes, 1)
	assert.Equal(t, "60 वर्ष से अधिक नागरिकों के लिए मासिक पेंशन", localized.Schemes[0].Description)

	// Absent variant falls back to the base language.
	rec = e.do(t, http.MethodGet, "/api/v1/schemes?programId=prog-wardha&lang=mr", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fallback struct {
		Schemes []schemeResponse `json:"schemes"`
	}
	decode(t, rec, &fallback)
	require.Len(t, fallback.Schemes, 1)
	assert.Equal(t, "Monthly pension for citizens over 60", fallback.Schemes[0].Description)
}

func TestFamilyEndpoints(t *testing.T) {
	e := newEnv(t)

	// Seed two members directly.
	a := member.Member{ID: id.NewMemberID(), Name: "Asha Devi", NormalizedName: "asha devi",
		AadharLastFour: "4321", PhoneNumber: "9000000001", ProgramID: "prog-wardha"}
	b := member.Member{ID: id.NewMemberID(), Name: "Ram Devi", NormalizedName: "ram devi",
		AadharLastFour: "8765", PhoneNumber: "9000000002", ProgramID: "prog-wardha"}
	require.NoError(t, e.members.Create(context.Background(), a))
	require.NoError(t, e.members.Create(context.Background(), b))

	rec := e.do(t, http.MethodPost, "/api/v1/families", map[string]any{
		"familyName": "Devi Household",
		"programId":  "prog-wardha",
		"memberIds":  []string{a.ID.String()},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created familyResponse
	decode(t, rec, &created)
	assert.Equal(t, []string{"Asha Devi"}, created.MemberNames)

	rec = e.do(t, http.MethodPost, "/api/v1/families/"+created.ID+"/members", map[string]any{
		"memberId": b.ID.String(),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var attached familyResponse
	decode(t, rec, &attached)
	assert.Equal(t, []string{"Asha Devi", "Ram Devi"}, attached.MemberNames)
	assert.Equal(t, []string{"4321", "8765"}, attached.MemberAadharList)

	rec = e.do(t, http.MethodPut, "/api/v1/families/"+created.ID+"/members", map[string]any{
		"memberIds": []string{b.ID.String()},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated familyResponse
	decode(t, rec, &updated)
	assert.Equal(t, []string{"Ram Devi"}, updated.MemberNames)

	rec = e.do(t, http.MethodGet, "/api/v1/families?programId=prog-wardha&q=ram", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Families []familyResponse `json:"families"`
	}
	decode(t, rec, &listed)
	require.Len(t, listed.Families, 1)
	assert.Equal(t, created.ID, listed.Families[0].ID)
}

func TestReconcileEndpoint(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/admin/reconcile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		Repaired int `json:"repaired"`
	}
	decode(t, rec, &result)
	assert.Zero(t, result.Repaired)
}
