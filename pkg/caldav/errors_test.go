package caldav

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "authentication",
			err:  &Error{Kind: KindAuthenticationFailed, StatusCode: 401},
			want: "authentication failed (HTTP 401)",
		},
		{
			name: "authentication after redirect",
			err:  &Error{Kind: KindAuthenticationFailed, StatusCode: 403, Redirected: true},
			want: "authentication failed after redirect (HTTP 403)",
		},
		{
			name: "not found",
			err:  &Error{Kind: KindNotFound, StatusCode: 404},
			want: "no calendar was found at this URL (HTTP 404)",
		},
		{
			name: "connection failed with response",
			err:  &Error{Kind: KindConnectionFailed, StatusCode: 500, Status: "Internal Server Error", Body: "oops"},
			want: "connection failed: 500 Internal Server Error. Response: oops",
		},
		{
			name: "publish failed",
			err:  &Error{Kind: KindPublishFailed, StatusCode: 507, Status: "Insufficient Storage", Body: "full"},
			want: "failed to save event: 507 Insufficient Storage. Response: full",
		},
		{
			name: "missing credentials with hint",
			err:  &Error{Kind: KindMissingCredentials, Missing: []string{"password"}, Hint: "Go to Settings"},
			want: "missing CalDAV credentials (password). Go to Settings",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("probe: %w", &Error{Kind: KindNotFound, StatusCode: 404})

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAuthenticationFailed))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, Kind(0), KindOf(errors.New("other")))
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	err := &Error{Kind: KindTransportError, Err: context.DeadlineExceeded}

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(&Error{Kind: KindAuthenticationFailed}), "verify the username/password")
	assert.Contains(t, UserMessage(&Error{Kind: KindNotACalendarCollection}), "calendar collection")
	assert.Contains(t, UserMessage(errors.New("x")), "test the CalDAV connection")
}
