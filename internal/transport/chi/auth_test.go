package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// authProbe replies with the authenticated flag it saw.
func authProbe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Authenticated", strconv.FormatBool(Authenticated(r.Context())))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_MissingHeader_Anonymous(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(authProbe())

	req := httptest.NewRequest("GET", "/search?s=pas", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("missing header: got %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Header().Get("X-Authenticated") != "false" {
		t.Error("request without a key must be anonymous")
	}
}

func TestAuthMiddleware_EmptyKeys_Anonymous(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"", ""})(authProbe())

	req := httptest.NewRequest("GET", "/search?s=pas", http.NoBody)
	req.Header.Set("Authorization", "Bearer ")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("empty key must never authenticate: got %d", rr.Code)
	}
}

func TestAuthMiddleware_BasicScheme_401(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(authProbe())

	req := httptest.NewRequest("GET", "/search?s=pas", http.NoBody)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("basic scheme: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_InvalidToken_401(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(authProbe())

	req := httptest.NewRequest("GET", "/search?s=pas", http.NoBody)
	req.Header.Set("Authorization", "Bearer wrong-key")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("invalid token: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != ErrorResponseCodeUnauthorized {
		t.Errorf("error code: got %s, want %s", errResp.Code, ErrorResponseCodeUnauthorized)
	}
}

func TestAuthMiddleware_ValidToken_Authenticated(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(authProbe())

	req := httptest.NewRequest("GET", "/search?s=pas", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("valid token: got %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Header().Get("X-Authenticated") != "true" {
		t.Error("valid key must authenticate the request")
	}
}

func TestAuthMiddleware_MultipleKeys(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"key1", "key2"})(authProbe())

	for _, key := range []string{"key1", "key2"} {
		req := httptest.NewRequest("GET", "/search?s=pas", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+key)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("key %s: got %d, want %d", key, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(authProbe())

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest("GET", path, http.NoBody)
		req.Header.Set("Authorization", "Bearer wrong-key")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("exempt path %s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}
