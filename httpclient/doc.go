// Package httpclient is the outbound HTTP transport shared by the upstream
// adapters (prosody provider, speech service, speech synthesis).
//
// The Client resolves request paths against a base URL, applies default
// headers and authentication, encodes JSON or multipart bodies, and turns
// non-2xx responses into a classified *Error that keeps the response body
// so callers can surface the upstream's own error text.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.hume.ai",
//	    Timeout: 60 * time.Second,
//	    Auth:    httpclient.APIKeyAuthHeader(key, "X-Hume-Api-Key"),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/v0/batch/jobs/" + id,
//	})
//
// Streaming responses (newline-delimited JSON) are read through DoStream and
// StreamResponse.Lines.
package httpclient
