package caldav

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	maxProbeBody      = 50_000
	maxDiagnosticBody = 500
)

const propfindBody = `<?xml version="1.0" encoding="utf-8" ?>
<d:propfind xmlns:d="DAV:" xmlns:cal="urn:ietf:params:xml:ns:caldav">
  <d:prop>
    <d:resourcetype />
  </d:prop>
</d:propfind>`

// HTTPClient is the subset of *http.Client used here. The client must not
// follow redirects on its own; the prober handles them.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Prober checks that a URL points to a reachable CalDAV calendar collection
// that accepts the given credentials.
type Prober struct {
	client     HTTPClient
	classifier Classifier
}

func NewProber(client HTTPClient, classifier Classifier) *Prober {
	if classifier == nil {
		classifier = RegexClassifier{}
	}
	return &Prober{
		client:     client,
		classifier: classifier,
	}
}

// Probe sends a Depth 0 PROPFIND to the collection URL. A single redirect is
// followed, with the Authorization header attached again. It returns true on
// success; every other outcome is an *Error.
func (p *Prober) Probe(ctx context.Context, settings Settings) (bool, error) {
	if err := settings.Validate(); err != nil {
		return false, err
	}

	credential := BasicAuth(settings.Username, settings.Password)
	target := NormalizeURL(settings.URL)

	resp, err := p.propfind(ctx, target, credential)
	if err != nil {
		return false, err
	}

	if isRedirect(resp.StatusCode) {
		location := strings.TrimSpace(resp.Header.Get("Location"))
		if redirectURL, ok := resolveRedirect(target, location); ok {
			discard(resp)
			log.Debugf("CalDAV probe redirected from %s to %s (HTTP %d)", target, redirectURL, resp.StatusCode)

			redirected, err := p.propfind(ctx, redirectURL, credential)
			if err != nil {
				return false, err
			}
			defer redirected.Body.Close()
			return p.interpret(redirected, true)
		}
	}

	defer resp.Body.Close()
	return p.interpret(resp, false)
}

func (p *Prober) propfind(ctx context.Context, target, credential string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "PROPFIND", target, strings.NewReader(propfindBody))
	if err != nil {
		return nil, &Error{Kind: KindConnectionFailed, Err: fmt.Errorf("invalid URL %q: %w", target, err)}
	}
	req.Header.Set("Authorization", credential)
	req.Header.Set("Depth", "0")
	req.Header.Set("Content-Type", "text/xml")

	resp, err := p.client.Do(req)
	if err != nil {
		log.Errorf("CalDAV PROPFIND %s failed: %v", target, err)
		return nil, &Error{Kind: KindTransportError, Err: err}
	}
	return resp, nil
}

func (p *Prober) interpret(resp *http.Response, redirected bool) (bool, error) {
	code := resp.StatusCode

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return false, &Error{Kind: KindAuthenticationFailed, StatusCode: code, Status: reasonPhrase(resp), Redirected: redirected}
	case code == http.StatusNotFound:
		return false, &Error{Kind: KindNotFound, StatusCode: code, Status: reasonPhrase(resp), Redirected: redirected}
	case isSuccess(code) || code == http.StatusMultiStatus:
		body, err := readLimited(resp.Body, maxProbeBody)
		if err != nil {
			return false, &Error{Kind: KindTransportError, StatusCode: code, Err: fmt.Errorf("read PROPFIND response: %w", err)}
		}
		if !p.classifier.IsCalendar(body) {
			return false, &Error{Kind: KindNotACalendarCollection, StatusCode: code, Status: reasonPhrase(resp), Redirected: redirected}
		}
		return true, nil
	}

	body, _ := readLimited(resp.Body, maxDiagnosticBody)
	return false, &Error{
		Kind:       KindConnectionFailed,
		StatusCode: code,
		Status:     reasonPhrase(resp),
		Body:       body,
		Redirected: redirected,
	}
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func isSuccess(code int) bool {
	return code >= 200 && code <= 299
}

// resolveRedirect resolves location against base. It reports false when the
// location is blank or cannot be parsed.
func resolveRedirect(base, location string) (string, bool) {
	if location == "" {
		return "", false
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	resolved, err := baseURL.Parse(location)
	if err != nil {
		return "", false
	}
	return resolved.String(), true
}

// reasonPhrase extracts the reason phrase from a status line like
// "404 Not Found".
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

func readLimited(r io.Reader, limit int64) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit))
	return string(b), err
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxProbeBody))
	_ = resp.Body.Close()
}
