package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	middleware := SecurityHeadersMiddleware()

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/session/alice/state", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	expectedHeaders := map[string]string{
		HeaderContentTypeOptions: HeaderValueNoSniff,
		HeaderFrameOptions:       HeaderValueSameOrigin,
		HeaderXSSProtection:      HeaderValueXSSBlock,
		HeaderReferrerPolicy:     HeaderValueReferrerStrictOrigin,
	}

	for header, expected := range expectedHeaders {
		t.Run(header, func(t *testing.T) {
			if got := rec.Header().Get(header); got != expected {
				t.Errorf("expected header %s to be %q, got %q", header, expected, got)
			}
		})
	}
}
