package caldav

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"appends slash", "https://x/cal", "https://x/cal/"},
		{"keeps existing slash", "https://x/cal/", "https://x/cal/"},
		{"trims whitespace", "  https://x/cal  ", "https://x/cal/"},
		{"empty stays empty", "", ""},
		{"blank becomes empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestJoinResource(t *testing.T) {
	assert.Equal(t, "https://x/cal/a.ics", JoinResource("https://x/cal/", "a.ics"))
	assert.Equal(t, "https://x/cal/a.ics", JoinResource("https://x/cal", "a.ics"))
}

func TestBasicAuth(t *testing.T) {
	// "user:pass"
	assert.Equal(t, "Basic dXNlcjpwYXNz", BasicAuth("user", "pass"))
}

func TestSettings_Validate(t *testing.T) {
	t.Run("should accept complete settings", func(t *testing.T) {
		s := Settings{URL: "https://x/cal/", Username: "u", Password: "p"}
		assert.NoError(t, s.Validate())
	})

	t.Run("should name every blank field", func(t *testing.T) {
		s := Settings{URL: " ", Username: "u", Password: ""}

		err := s.Validate()

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingCredentials))
		var cerr *Error
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, []string{"url", "password"}, cerr.Missing)
		assert.Equal(t, "missing CalDAV credentials (url, password)", err.Error())
	})
}
