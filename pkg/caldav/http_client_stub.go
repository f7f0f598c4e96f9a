package caldav

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// StubResponse is a canned reply served by HTTPClientStub.
type StubResponse struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// RecordedRequest is a copy of a request received by HTTPClientStub.
type RecordedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   string
}

// HTTPClientStub serves queued responses in order and records every request.
type HTTPClientStub struct {
	mu        sync.Mutex
	responses []StubResponse
	requests  []RecordedRequest
	bodies    []*trackedBody
	err       error
}

func NewHTTPClientStub(responses ...StubResponse) *HTTPClientStub {
	return &HTTPClientStub{responses: responses}
}

func (s *HTTPClientStub) Do(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recorded := RecordedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
	}
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		recorded.Body = string(b)
	}
	s.requests = append(s.requests, recorded)

	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return nil, errors.New("no stub response queued")
	}

	next := s.responses[0]
	s.responses = s.responses[1:]

	header := next.Header
	if header == nil {
		header = http.Header{}
	}
	body := &trackedBody{Reader: strings.NewReader(next.Body)}
	s.bodies = append(s.bodies, body)

	return &http.Response{
		StatusCode: next.StatusCode,
		Status:     strconv.Itoa(next.StatusCode) + " " + http.StatusText(next.StatusCode),
		Header:     header,
		Body:       body,
		Request:    req,
	}, nil
}

// Enqueue adds responses to the end of the queue.
func (s *HTTPClientStub) Enqueue(responses ...StubResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, responses...)
}

// SetError makes every following call fail with err.
func (s *HTTPClientStub) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *HTTPClientStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *HTTPClientStub) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]RecordedRequest, len(s.requests))
	copy(result, s.requests)
	return result
}

// BodyReads returns how many bytes were read from each response body, in
// the order the responses were served.
func (s *HTTPClientStub) BodyReads() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]int, 0, len(s.bodies))
	for _, b := range s.bodies {
		result = append(result, b.read)
	}
	return result
}

// AllBodiesClosed reports whether every served response body was closed.
func (s *HTTPClientStub) AllBodiesClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bodies {
		if !b.closed {
			return false
		}
	}
	return true
}

func (s *HTTPClientStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = nil
	s.requests = nil
	s.bodies = nil
	s.err = nil
}

type trackedBody struct {
	io.Reader
	read   int
	closed bool
}

func (b *trackedBody) Read(p []byte) (int, error) {
	n, err := b.Reader.Read(p)
	b.read += n
	return n, err
}

func (b *trackedBody) Close() error {
	b.closed = true
	return nil
}
