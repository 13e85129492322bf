package speechservice

import (
	"context"
	"net/http"

	"github.com/kbukum/voicelens/httpclient"
)

// Transport carries requests to the speech service. Implementations return
// the response body on 2xx and an error otherwise; a *httpclient.Error keeps
// the status and body so the client can extract the upstream message.
type Transport interface {
	Post(ctx context.Context, path string, body *httpclient.MultipartBody) ([]byte, error)
	Get(ctx context.Context, path string) ([]byte, error)
}

// HTTPTransport is the default Transport built on httpclient.
type HTTPTransport struct {
	client *httpclient.Client
}

// NewHTTPTransport creates a transport for the service at baseURL.
func NewHTTPTransport(cfg httpclient.Config) (*HTTPTransport, error) {
	c, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &HTTPTransport{client: c}, nil
}

// Post sends a multipart body.
func (t *HTTPTransport) Post(ctx context.Context, path string, body *httpclient.MultipartBody) ([]byte, error) {
	resp, err := t.client.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Get issues a GET request.
func (t *HTTPTransport) Get(ctx context.Context, path string) ([]byte, error) {
	resp, err := t.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
