package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultMiddlewareStack(t *testing.T) {
	chain := func(h http.Handler) http.Handler {
		for _, mw := range DefaultMiddlewareStack() {
			h = mw(h)
		}
		return h
	}

	t.Run("requests pass through the stack", func(t *testing.T) {
		handler := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 through the default stack, got %d", rec.Code)
		}
	})

	t.Run("panics are recovered", func(t *testing.T) {
		handler := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("panic escaped the default stack: %v", r)
				}
			}()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		}()

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500 after recovery, got %d", rec.Code)
		}
	})
}
