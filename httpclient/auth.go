package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthAPIKey sends a key in a named header.
	AuthAPIKey
)

const defaultAPIKeyHeader = "X-API-Key"

// AuthConfig configures request authentication.
type AuthConfig struct {
	Type AuthType
	Key  string
	// Header names the API key header. Defaults to X-API-Key.
	Header string
}

// APIKeyAuthHeader sends key in the named header.
func APIKeyAuthHeader(key, header string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, Header: header}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	if a.Type != AuthAPIKey || a.Key == "" {
		return
	}
	name := a.Header
	if name == "" {
		name = defaultAPIKeyHeader
	}
	req.Header.Set(name, a.Key)
}
