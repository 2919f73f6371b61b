package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/serbsearch/internal/domain"
	dompost "github.com/kailas-cloud/serbsearch/internal/domain/post"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/request"
	"github.com/kailas-cloud/serbsearch/internal/domain/variant"
	healthuc "github.com/kailas-cloud/serbsearch/internal/usecase/health"
	postuc "github.com/kailas-cloud/serbsearch/internal/usecase/post"
	searchuc "github.com/kailas-cloud/serbsearch/internal/usecase/search"
)

// maxBodyBytes bounds a POST /posts body: the content limit plus room for JSON.
const maxBodyBytes = dompost.MaxContentSize + 64<<10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Limits are the page size bounds of GET /search.
type Limits struct {
	Default int
	Max     int
}

// Server implements ServerInterface.
type Server struct {
	search        *searchuc.Service
	posts         *postuc.Service
	expander      domain.Expander
	health        *healthuc.Service
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	posts *postuc.Service,
	expander domain.Expander,
	health *healthuc.Service,
	limits Limits,
	logger *zap.Logger,
) *Server {
	if limits.Default <= 0 {
		limits.Default = request.DefaultLimit
	}
	if limits.Max <= 0 || limits.Max > request.MaxLimit {
		limits.Max = request.MaxLimit
	}
	s := &Server{
		search:   search,
		posts:    posts,
		expander: expander,
		health:   health,
		limits:   limits,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidPost, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrPostNotFound, http.StatusNotFound, ErrorResponseCodePostNotFound),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, ErrorResponseCodeUnauthorized),
	}
	return s
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request, params SearchParams) {
	limit := s.limits.Default
	if params.Limit != nil {
		if *params.Limit <= 0 {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "limit must be positive")
			return
		}
		limit = min(*params.Limit, s.limits.Max)
	}

	req, err := request.New(
		params.S,
		derefBool(params.Sentence),
		derefBool(params.Exact),
		Authenticated(r.Context()),
		limit,
		derefInt(params.Offset),
	)
	if err != nil {
		s.handleDomainError(w, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err))
		return
	}

	page, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	posts := page.Posts()
	items := make([]PostResponse, len(posts))
	for i := range posts {
		items[i] = postToResponse(&posts[i], req.Authenticated())
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:    page.Original(),
		Expanded: page.Expanded(),
		Terms:    page.Terms(),
		Total:    page.Total(),
		Limit:    req.Limit(),
		Offset:   req.Offset(),
		Items:    items,
	})
}

// GetVariants handles GET /variants/{word}.
func (s *Server) GetVariants(w http.ResponseWriter, r *http.Request, word string) {
	word = strings.TrimSpace(word)
	if word == "" {
		s.handleDomainError(w, domain.ErrEmptyQuery)
		return
	}
	if len(word) > request.MaxQueryLength {
		s.handleDomainError(w, fmt.Errorf("%w: word too long", domain.ErrInvalidQuery))
		return
	}

	vs, err := s.expander.Expand(r.Context(), word)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, VariantsResponse{
		Word:     word,
		Script:   string(variant.DetectScript(word)),
		Variants: vs,
	})
}

// CreatePost handles POST /posts. Requires a valid API key.
func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	if !Authenticated(r.Context()) {
		s.handleDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := s.posts.Create(r.Context(), req.Title, req.Content, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/posts/%d", p.ID()))
	writeJSON(w, http.StatusCreated, postToResponse(&p, true))
}

// GetPost handles GET /posts/{id}. Protected content is hidden from anonymous callers.
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request, id PostID) {
	p, err := s.posts.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postToResponse(&p, Authenticated(r.Context())))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// validationSentinels carry client-facing detail in their wrapped message.
var validationSentinels = []error{
	domain.ErrInvalidQuery,
	domain.ErrInvalidPost,
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, s := range validationSentinels {
		if errors.Is(err, s) {
			return validationMessage(err, s)
		}
	}
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrPostNotFound,
		domain.ErrUnauthorized,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// validationMessage trims wrapping context in front of the sentinel.
func validationMessage(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		return msg[i:]
	}
	return sentinel.Error()
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func postToResponse(p *dompost.Post, authenticated bool) PostResponse {
	resp := PostResponse{
		ID:          p.ID(),
		Title:       p.Title(),
		Protected:   p.Protected(),
		PublishedAt: p.PublishedAt(),
	}
	if !p.Protected() || authenticated {
		c := p.Content()
		resp.Content = &c
	}
	return resp
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefBool(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}
