package chi

import (
	"fmt"
	"net/http"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// ErrorResponseCode values.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodePostNotFound     ErrorResponseCode = "post_not_found"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// PostID is the path parameter of /posts/{id}.
type PostID = int64

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	S        string `form:"s" json:"s"`
	Sentence *bool  `form:"sentence,omitempty" json:"sentence,omitempty"`
	Exact    *bool  `form:"exact,omitempty" json:"exact,omitempty"`
	Limit    *int   `form:"limit,omitempty" json:"limit,omitempty"`
	Offset   *int   `form:"offset,omitempty" json:"offset,omitempty"`
}

// CreatePostRequest is the body of POST /posts.
type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Password string `json:"password,omitempty"`
}

// PostResponse is a post as returned to clients.
type PostResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     *string   `json:"content,omitempty"`
	Protected   bool      `json:"protected"`
	PublishedAt time.Time `json:"published_at"`
}

// SearchResponse is one page of search hits.
type SearchResponse struct {
	Query    string         `json:"query"`
	Expanded string         `json:"expanded"`
	Terms    []string       `json:"terms"`
	Total    int            `json:"total"`
	Limit    int            `json:"limit"`
	Offset   int            `json:"offset"`
	Items    []PostResponse `json:"items"`
}

// VariantsResponse lists the variants of one word.
type VariantsResponse struct {
	Word     string   `json:"word"`
	Script   string   `json:"script"`
	Variants []string `json:"variants"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /search)
	Search(w http.ResponseWriter, r *http.Request, params SearchParams)
	// (GET /variants/{word})
	GetVariants(w http.ResponseWriter, r *http.Request, word string)
	// (POST /posts)
	CreatePost(w http.ResponseWriter, r *http.Request)
	// (GET /posts/{id})
	GetPost(w http.ResponseWriter, r *http.Request, id PostID)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ServerInterfaceWrapper binds request parameters before calling the handlers.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Search binds the query parameters of GET /search.
func (siw *ServerInterfaceWrapper) Search(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, true, "s", q, &params.S); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "s", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "sentence", q, &params.Sentence); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "sentence", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "exact", q, &params.Exact); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "exact", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &params.Limit); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", q, &params.Offset); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "offset", Err: err})
		return
	}

	siw.Handler.Search(w, r, params)
}

// GetVariants binds the word path parameter.
func (siw *ServerInterfaceWrapper) GetVariants(w http.ResponseWriter, r *http.Request) {
	var word string
	err := runtime.BindStyledParameterWithOptions("simple", "word", gochi.URLParam(r, "word"), &word,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "word", Err: err})
		return
	}

	siw.Handler.GetVariants(w, r, word)
}

// CreatePost forwards POST /posts.
func (siw *ServerInterfaceWrapper) CreatePost(w http.ResponseWriter, r *http.Request) {
	siw.Handler.CreatePost(w, r)
}

// GetPost binds the id path parameter.
func (siw *ServerInterfaceWrapper) GetPost(w http.ResponseWriter, r *http.Request) {
	var id PostID
	err := runtime.BindStyledParameterWithOptions("simple", "id", gochi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return
	}

	siw.Handler.GetPost(w, r, id)
}

// HealthCheck forwards GET /health.
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.Handler.HealthCheck(w, r)
}

// Metrics forwards GET /metrics.
func (siw *ServerInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.Handler.Metrics(w, r)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseRouter       gochi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions mounts si on a chi router.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = gochi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = BadRequestHandler
	}
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Group(func(r gochi.Router) {
		r.Get("/search", wrapper.Search)
		r.Get("/variants/{word}", wrapper.GetVariants)
		r.Post("/posts", wrapper.CreatePost)
		r.Get("/posts/{id}", wrapper.GetPost)
		r.Get("/health", wrapper.HealthCheck)
		r.Get("/metrics", wrapper.Metrics)
	})

	return r
}

// BadRequestHandler replies 400 for parameters that failed to bind.
func BadRequestHandler(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
}
