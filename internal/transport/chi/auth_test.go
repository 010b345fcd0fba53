package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func ownerEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(OwnerFromContext(r.Context())))
	})
}

func TestAuthMiddleware_OwnerHeaderWithoutKeys(t *testing.T) {
	handler := OwnerAuthMiddleware(nil)(ownerEcho())

	req := httptest.NewRequest(http.MethodGet, "/v1/books/search", http.NoBody)
	req.Header.Set(OwnerHeader, "alice")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != "alice" {
		t.Errorf("owner = %q, want alice", rr.Body.String())
	}
}

func TestAuthMiddleware_MissingOwnerHeader_401(t *testing.T) {
	handler := OwnerAuthMiddleware(nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/books/search", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	handler := OwnerAuthMiddleware(map[string]string{"secret": "alice"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/books/search", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing header: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != CodeUnauthorized {
		t.Errorf("code = %q, want %q", errResp.Code, CodeUnauthorized)
	}
}

func TestAuthMiddleware_BearerSelectsOwner(t *testing.T) {
	handler := OwnerAuthMiddleware(map[string]string{"k1": "alice", "k2": "bob"})(ownerEcho())

	req := httptest.NewRequest(http.MethodGet, "/v1/books/search", http.NoBody)
	req.Header.Set("Authorization", "Bearer k2")
	req.Header.Set(OwnerHeader, "alice")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != "bob" {
		t.Errorf("owner = %q, want bob (header must be ignored when keys are set)", rr.Body.String())
	}
}

func TestAuthMiddleware_WrongScheme_401(t *testing.T) {
	handler := OwnerAuthMiddleware(map[string]string{"secret": "alice"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/books/search", http.NoBody)
	req.Header.Set("Authorization", "Basic secret")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong scheme: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_InvalidKey_401(t *testing.T) {
	handler := OwnerAuthMiddleware(map[string]string{"secret": "alice"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/books/search", http.NoBody)
	req.Header.Set("Authorization", "Bearer wrong")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("invalid key: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	handler := OwnerAuthMiddleware(map[string]string{"secret": "alice"})(okHandler())

	for _, path := range []string{"/health", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Errorf("exempt %s: got %d, want %d", path, rr.Code, http.StatusOK)
			}
		})
	}
}
