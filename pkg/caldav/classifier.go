package caldav

import (
	"encoding/xml"
	"regexp"
	"strings"
)

// Classifier decides whether a PROPFIND response body describes a calendar
// collection.
type Classifier interface {
	IsCalendar(body string) bool
}

var (
	resourceTypeTag = regexp.MustCompile(`(?i)<\s*[^>]*:resourcetype\b`)
	calendarTag     = regexp.MustCompile(`(?i)<\s*[^>]*:calendar\b`)
)

// RegexClassifier looks for a prefixed resourcetype tag and a prefixed
// calendar tag anywhere in the body, e.g. <d:resourcetype> and
// <cal:calendar/>. It does not parse the XML.
type RegexClassifier struct{}

func (RegexClassifier) IsCalendar(body string) bool {
	return resourceTypeTag.MatchString(body) && calendarTag.MatchString(body)
}

const (
	davNamespace    = "DAV:"
	caldavNamespace = "urn:ietf:params:xml:ns:caldav"
)

// XMLClassifier walks the multi-status document and reports true when a
// DAV:resourcetype element contains a CalDAV calendar element. Unlike
// RegexClassifier it checks namespaces rather than prefixes.
type XMLClassifier struct{}

func (XMLClassifier) IsCalendar(body string) bool {
	dec := xml.NewDecoder(strings.NewReader(body))
	depth := 0
	inResourceType := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			// io.EOF included: no calendar element was seen.
			return false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Space == davNamespace && t.Name.Local == "resourcetype" {
				inResourceType = depth
				continue
			}
			if inResourceType > 0 && t.Name.Space == caldavNamespace && t.Name.Local == "calendar" {
				return true
			}
		case xml.EndElement:
			if depth == inResourceType {
				inResourceType = 0
			}
			depth--
		}
	}
}
