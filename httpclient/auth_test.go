package httpclient

import (
	"net/http"
	"testing"
)

func TestAPIKeyAuthHeader(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	APIKeyAuthHeader("secret", "X-Hume-Api-Key").apply(req)
	if got := req.Header.Get("X-Hume-Api-Key"); got != "secret" {
		t.Errorf("X-Hume-Api-Key = %q", got)
	}
}

func TestAPIKeyAuth_DefaultHeader(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	(&AuthConfig{Type: AuthAPIKey, Key: "k"}).apply(req)
	if got := req.Header.Get("X-API-Key"); got != "k" {
		t.Errorf("X-API-Key = %q", got)
	}
}

func TestNilAuth(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	var a *AuthConfig
	a.apply(req)
	if len(req.Header) != 0 {
		t.Errorf("expected no headers, got %v", req.Header)
	}
}

func TestAPIKeyAuth_EmptyKeyOmitted(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	APIKeyAuthHeader("", "X-Hume-Api-Key").apply(req)
	if _, ok := req.Header["X-Hume-Api-Key"]; ok {
		t.Error("expected no header for an empty key")
	}
}
