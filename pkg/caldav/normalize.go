package caldav

import (
	"encoding/base64"
	"strings"
)

// Settings are the connection parameters for a CalDAV calendar collection.
type Settings struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate fails with KindMissingCredentials when any field is blank.
func (s Settings) Validate() error {
	var missing []string
	if strings.TrimSpace(s.URL) == "" {
		missing = append(missing, "url")
	}
	if strings.TrimSpace(s.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(s.Password) == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return &Error{Kind: KindMissingCredentials, Missing: missing}
	}
	return nil
}

// NormalizeURL trims rawURL and makes sure a non-empty URL ends with a slash.
// Many servers expect the trailing slash on collection URLs.
func NormalizeURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed != "" && !strings.HasSuffix(trimmed, "/") {
		return trimmed + "/"
	}
	return trimmed
}

// JoinResource appends a resource name to a collection URL, adding a
// separator only when the collection URL does not end in one.
func JoinResource(collectionURL, name string) string {
	if strings.HasSuffix(collectionURL, "/") {
		return collectionURL + name
	}
	return collectionURL + "/" + name
}

// BasicAuth returns the Authorization header value for HTTP Basic auth.
func BasicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
