package transport

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// CredentialFunc returns the Authorization header value for req, or an empty
// string when the request should go out without credentials.
type CredentialFunc func(req *http.Request) string

// StaticCredential always returns value.
func StaticCredential(value string) CredentialFunc {
	return func(*http.Request) string { return value }
}

// AuthTransport adds an Authorization header to requests that do not carry
// one yet. Requests that already set the header are passed through untouched.
type AuthTransport struct {
	Base       http.RoundTripper
	Credential CredentialFunc
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") == "" && t.Credential != nil {
		if credential := t.Credential(req); credential != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", credential)
		}
	}
	return base(t.Base).RoundTrip(req)
}

// LoggingTransport logs every exchange at trace level.
type LoggingTransport struct {
	Base http.RoundTripper
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !log.IsLevelEnabled(log.TraceLevel) {
		return base(t.Base).RoundTrip(req)
	}

	started := time.Now()
	log.WithFields(log.Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"headers": redact(req.Header),
	}).Trace("--> HTTP request")

	resp, err := base(t.Base).RoundTrip(req)
	if err != nil {
		log.WithFields(log.Fields{
			"method":  req.Method,
			"url":     req.URL.String(),
			"elapsed": time.Since(started),
		}).Tracef("<-- HTTP failed: %v", err)
		return nil, err
	}

	log.WithFields(log.Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"status":  resp.StatusCode,
		"elapsed": time.Since(started),
	}).Trace("<-- HTTP response")
	return resp, nil
}

// NewHTTPClient returns a client with a finite timeout that logs its traffic
// and hands redirects back to the caller instead of following them.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &LoggingTransport{},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// WithCredential returns a copy of client whose requests carry credential
// unless they already set an Authorization header.
func WithCredential(client *http.Client, credential CredentialFunc) *http.Client {
	c := *client
	c.Transport = &AuthTransport{Base: client.Transport, Credential: credential}
	return &c
}

func base(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}

func redact(h http.Header) http.Header {
	c := h.Clone()
	if c.Get("Authorization") != "" {
		c.Set("Authorization", "REDACTED")
	}
	return c
}
