package settings

import (
	"context"
	"strings"

	"github.com/calgapt/calgapt/pkg/caldav"
)

// Settings are the user-supplied credentials for the language model API and
// the CalDAV calendar.
type Settings struct {
	OpenAiApiKey   string `json:"openAiApiKey"`
	CalDavURL      string `json:"calDavUrl"`
	CalDavUsername string `json:"calDavUsername"`
	CalDavPassword string `json:"calDavPassword"`
}

// CalDav returns the CalDAV connection part of s.
func (s Settings) CalDav() caldav.Settings {
	return caldav.Settings{
		URL:      s.CalDavURL,
		Username: s.CalDavUsername,
		Password: s.CalDavPassword,
	}
}

// Missing lists the human-readable names of the blank settings.
func (s Settings) Missing() []string {
	var missing []string
	if strings.TrimSpace(s.OpenAiApiKey) == "" {
		missing = append(missing, "OpenAI API key")
	}
	if strings.TrimSpace(s.CalDavURL) == "" {
		missing = append(missing, "CalDAV URL")
	}
	if strings.TrimSpace(s.CalDavUsername) == "" {
		missing = append(missing, "CalDAV username")
	}
	if strings.TrimSpace(s.CalDavPassword) == "" {
		missing = append(missing, "CalDAV password")
	}
	return missing
}

// MissingMessage tells the user which settings to fill in, or returns an
// empty string when nothing is missing.
func (s Settings) MissingMessage() string {
	missing := s.Missing()
	if len(missing) == 0 {
		return ""
	}
	return "Missing configuration: " + strings.Join(missing, ", ") +
		". Please go to Settings and fill them in, save, then test each connection."
}

// Masked hides secrets, keeping only their last four characters.
func (s Settings) Masked() Settings {
	s.OpenAiApiKey = mask(s.OpenAiApiKey)
	s.CalDavPassword = mask(s.CalDavPassword)
	return s
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

// CalDavProvider reads the CalDAV settings from store on every call.
func CalDavProvider(store Store) caldav.SettingsProviderFunc {
	return func(ctx context.Context) (caldav.Settings, error) {
		s, err := store.Current(ctx)
		if err != nil {
			return caldav.Settings{}, err
		}
		return s.CalDav(), nil
	}
}
