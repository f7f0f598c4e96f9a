package caldav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const calendarMultistatus = `<?xml version="1.0" encoding="utf-8"?>
<d:multistatus xmlns:d="DAV:" xmlns:cal="urn:ietf:params:xml:ns:caldav">
  <d:response>
    <d:href>/cal/</d:href>
    <d:propstat>
      <d:prop>
        <d:resourcetype><d:collection/><cal:calendar/></d:resourcetype>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
</d:multistatus>`

const collectionMultistatus = `<?xml version="1.0" encoding="utf-8"?>
<d:multistatus xmlns:d="DAV:">
  <d:response>
    <d:href>/files/</d:href>
    <d:propstat>
      <d:prop>
        <d:resourcetype><d:collection/></d:resourcetype>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
</d:multistatus>`

// Same document with other prefixes and upper-case names.
const upperCaseMultistatus = `<D:MULTISTATUS xmlns:D="DAV:" xmlns:C="urn:ietf:params:xml:ns:caldav">
<D:RESPONSE><D:PROPSTAT><D:PROP>
<D:RESOURCETYPE><D:COLLECTION/><C:CALENDAR/></D:RESOURCETYPE>
</D:PROP></D:PROPSTAT></D:RESPONSE></D:MULTISTATUS>`

func TestRegexClassifier(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"calendar collection", calendarMultistatus, true},
		{"plain collection", collectionMultistatus, false},
		{"case insensitive", upperCaseMultistatus, true},
		{"calendar without resourcetype", `<cal:calendar/>`, false},
		{"unprefixed tags are ignored", `<resourcetype><calendar/></resourcetype>`, false},
		{"calendar-data also matches", `<d:resourcetype/><cal:calendar-data/>`, true},
		{"empty body", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RegexClassifier{}.IsCalendar(tt.body))
		})
	}
}

func TestXMLClassifier(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"calendar collection", calendarMultistatus, true},
		{"plain collection", collectionMultistatus, false},
		{"calendar outside resourcetype", `<d:multistatus xmlns:d="DAV:" xmlns:cal="urn:ietf:params:xml:ns:caldav"><d:resourcetype/><cal:calendar/></d:multistatus>`, false},
		{"default namespaces", `<multistatus xmlns="DAV:"><resourcetype><calendar xmlns="urn:ietf:params:xml:ns:caldav"/></resourcetype></multistatus>`, true},
		{"calendar-data is not a calendar", `<d:resourcetype xmlns:d="DAV:"><cal:calendar-data xmlns:cal="urn:ietf:params:xml:ns:caldav"/></d:resourcetype>`, false},
		{"not xml", "<<<", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, XMLClassifier{}.IsCalendar(tt.body))
		})
	}
}
