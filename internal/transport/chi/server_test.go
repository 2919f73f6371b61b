package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/serbsearch/internal/db/sqlite"
	"github.com/kailas-cloud/serbsearch/internal/domain"
	dompost "github.com/kailas-cloud/serbsearch/internal/domain/post"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/clause"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/term"
	postrepo "github.com/kailas-cloud/serbsearch/internal/repository/post"
	healthuc "github.com/kailas-cloud/serbsearch/internal/usecase/health"
	postuc "github.com/kailas-cloud/serbsearch/internal/usecase/post"
	"github.com/kailas-cloud/serbsearch/internal/usecase/rewrite"
	searchuc "github.com/kailas-cloud/serbsearch/internal/usecase/search"
)

const testKey = "secret"

type testEnv struct {
	handler http.Handler
	repo    *postrepo.Repo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.Open(ctx, sqlite.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	repo := postrepo.New(store)
	expander := domain.NewGeneratorExpander(nil)
	server := NewServer(
		searchuc.New(repo, rewrite.New(expander, term.DefaultStopwords()), clause.Columns{}),
		postuc.New(repo),
		expander,
		healthuc.New(store, nil),
		Limits{Default: 10, Max: 50},
		zap.NewNop(),
	)

	r := gochi.NewRouter()
	r.Use(BearerAuthMiddleware([]string{testKey}))
	return &testEnv{handler: HandlerWithOptions(server, ChiServerOptions{BaseRouter: r}), repo: repo}
}

func (e *testEnv) seed(t *testing.T) map[string]int64 {
	t.Helper()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ids := make(map[string]int64)
	for i, p := range []struct{ title, content, password string }{
		{"Mačka na krovu", "", ""},
		{"Pas", "stara macka spava", ""},
		{"Grad", "црна мачка", ""},
		{"Tajna", "mačka u kutiji", "lozinka"},
		{"Drvo", "zeleno lišće", ""},
	} {
		post, err := dompost.New(p.title, p.content, p.password, base.Add(time.Duration(i)*time.Hour))
		if err != nil {
			t.Fatalf("post.New: %v", err)
		}
		created, err := e.repo.Create(context.Background(), post)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids[p.title] = created.ID()
	}
	return ids
}

func (e *testEnv) do(t *testing.T, method, target, key, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func titles(items []PostResponse) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	slices.Sort(out)
	return out
}

func TestSearch_Anonymous(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	rr := env.do(t, "GET", "/search?s=ma%C4%8Dka", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decode[SearchResponse](t, rr)

	if resp.Query != "mačka" {
		t.Errorf("query = %q, want the original text", resp.Query)
	}
	if !strings.Contains(resp.Expanded, "macka") || !strings.Contains(resp.Expanded, "мачка") {
		t.Errorf("expanded = %q, want both scripts", resp.Expanded)
	}
	want := []string{"Grad", "Mačka na krovu", "Pas"}
	if got := titles(resp.Items); !slices.Equal(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
	if resp.Total != 3 || resp.Limit != 10 || resp.Offset != 0 {
		t.Errorf("total/limit/offset = %d/%d/%d", resp.Total, resp.Limit, resp.Offset)
	}
}

func TestSearch_AuthenticatedSeesProtected(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	rr := env.do(t, "GET", "/search?s=ma%C4%8Dka", testKey, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decode[SearchResponse](t, rr)

	if resp.Total != 4 {
		t.Errorf("total = %d, want 4", resp.Total)
	}
	for _, it := range resp.Items {
		if it.Title == "Tajna" && (it.Content == nil || !it.Protected) {
			t.Errorf("authenticated caller must see protected content: %+v", it)
		}
	}
}

func TestSearch_CyrillicQuery(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	rr := env.do(t, "GET", "/search?s=%D0%BC%D0%B0%D1%87%D0%BA%D0%B0", "", "") // мачка
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decode[SearchResponse](t, rr)
	want := []string{"Grad", "Mačka na krovu", "Pas"}
	if got := titles(resp.Items); !slices.Equal(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
}

func TestSearch_Pagination(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	rr := env.do(t, "GET", "/search?s=ma%C4%8Dka&limit=2&offset=2", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decode[SearchResponse](t, rr)
	if resp.Total != 3 || len(resp.Items) != 1 || resp.Limit != 2 || resp.Offset != 2 {
		t.Errorf("unexpected page: total=%d items=%d limit=%d offset=%d",
			resp.Total, len(resp.Items), resp.Limit, resp.Offset)
	}
}

func TestSearch_LimitClamped(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/search?s=pas&limit=1000", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if resp := decode[SearchResponse](t, rr); resp.Limit != 50 {
		t.Errorf("limit = %d, want 50", resp.Limit)
	}
}

func TestSearch_BadParams(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		target string
		code   ErrorResponseCode
	}{
		{"missing query", "/search", ErrorResponseCodeBadRequest},
		{"non-numeric limit", "/search?s=pas&limit=abc", ErrorResponseCodeBadRequest},
		{"non-boolean exact", "/search?s=pas&exact=maybe", ErrorResponseCodeBadRequest},
		{"zero limit", "/search?s=pas&limit=0", ErrorResponseCodeValidationFailed},
		{"negative offset", "/search?s=pas&offset=-1", ErrorResponseCodeValidationFailed},
		{"blank query", "/search?s=%20%20", ErrorResponseCodeValidationFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(t, "GET", tc.target, "", "")
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if resp := decode[ErrorResponse](t, rr); resp.Code != tc.code {
				t.Errorf("code = %s, want %s", resp.Code, tc.code)
			}
		})
	}
}

func TestGetVariants(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/variants/ma%C4%8Dka", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decode[VariantsResponse](t, rr)
	if resp.Word != "mačka" || resp.Script != "latin" {
		t.Errorf("unexpected word/script: %q/%q", resp.Word, resp.Script)
	}
	if len(resp.Variants) == 0 || resp.Variants[0] != "mačka" {
		t.Fatalf("variants must start with the word: %v", resp.Variants)
	}
	for _, want := range []string{"macka", "мачка", "mačke", "mačkom"} {
		if !slices.Contains(resp.Variants, want) {
			t.Errorf("variants missing %q: %v", want, resp.Variants)
		}
	}
}

func TestGetVariants_Cyrillic(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/variants/%D0%BF%D0%B0%D1%81", "", "") // пас
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[VariantsResponse](t, rr)
	if resp.Script != "cyrillic" || !slices.Contains(resp.Variants, "pas") {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGetVariants_Blank(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/variants/%20", "", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/posts", testKey, `{"title":"Novi post","content":"tekst","password":"x"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	resp := decode[PostResponse](t, rr)
	if resp.ID <= 0 || resp.Title != "Novi post" || !resp.Protected {
		t.Errorf("unexpected post: %+v", resp)
	}
	if resp.Content == nil || *resp.Content != "tekst" {
		t.Errorf("author must see content: %+v", resp.Content)
	}
	if loc := rr.Header().Get("Location"); !strings.HasPrefix(loc, "/posts/") {
		t.Errorf("Location = %q", loc)
	}
}

func TestCreatePost_Anonymous401(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/posts", "", `{"title":"Novi post"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if resp := decode[ErrorResponse](t, rr); resp.Code != ErrorResponseCodeUnauthorized {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestCreatePost_InvalidKey401(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/posts", "wrong", `{"title":"Novi post"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestCreatePost_Validation(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/posts", testKey, `{"title":"   "}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	resp := decode[ErrorResponse](t, rr)
	if resp.Code != ErrorResponseCodeValidationFailed || resp.Message != "invalid post: title is required" {
		t.Errorf("unexpected error: %+v", resp)
	}

	rr = env.do(t, "POST", "/posts", testKey, `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", rr.Code)
	}
}

func TestGetPost(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seed(t)

	rr := env.do(t, "GET", "/posts/"+itoa(ids["Pas"]), "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[PostResponse](t, rr)
	if resp.Title != "Pas" || resp.Content == nil || *resp.Content != "stara macka spava" {
		t.Errorf("unexpected post: %+v", resp)
	}
}

func TestGetPost_ProtectedContentHidden(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seed(t)
	target := "/posts/" + itoa(ids["Tajna"])

	anon := decode[PostResponse](t, env.do(t, "GET", target, "", ""))
	if !anon.Protected || anon.Content != nil {
		t.Errorf("anonymous caller must not see protected content: %+v", anon)
	}

	auth := decode[PostResponse](t, env.do(t, "GET", target, testKey, ""))
	if auth.Content == nil || *auth.Content != "mačka u kutiji" {
		t.Errorf("authenticated caller must see content: %+v", auth)
	}
}

func TestGetPost_Errors(t *testing.T) {
	env := newTestEnv(t)

	if rr := env.do(t, "GET", "/posts/abc", "", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: status = %d, want 400", rr.Code)
	}

	rr := env.do(t, "GET", "/posts/999", "", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing post: status = %d, want 404", rr.Code)
	}
	if resp := decode[ErrorResponse](t, rr); resp.Code != ErrorResponseCodePostNotFound {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/health", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[HealthResponse](t, rr)
	if resp.Status != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("unexpected health: %+v", resp)
	}
}

func TestSafeDomainMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrPostNotFound, "post not found"},
		{fmt.Errorf("get post 1: %w", domain.ErrPostNotFound), "post not found"},
		{
			fmt.Errorf("search: %w", fmt.Errorf("%w: %w", domain.ErrInvalidQuery, errors.New("offset must be non-negative"))),
			"invalid query: offset must be non-negative",
		},
		{errors.New("dial tcp: connection refused"), "internal error"},
	}

	for _, tc := range tests {
		if got := safeDomainMessage(tc.err); got != tc.want {
			t.Errorf("safeDomainMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
