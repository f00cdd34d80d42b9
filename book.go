package flipdoc

import "strings"

// DefaultOrigin is the scheme and host books are served from.
const DefaultOrigin = "http://online.fliphtml5.com"

// HostMarker identifies a full book URL in user input.
const HostMarker = "online.fliphtml5.com/"

// BookID identifies a book on the remote service, e.g. "abcde/fghi".
type BookID string

// ParseBookID normalizes a book URL or bare identifier.
// Everything after the last HostMarker is kept; surrounding whitespace and
// slashes are stripped. It never fails: an empty BookID is valid and simply
// resolves no configuration.
func ParseBookID(raw string) BookID {
	s := strings.TrimSpace(raw)
	if i := strings.LastIndex(s, HostMarker); i >= 0 {
		s = s[i+len(HostMarker):]
	}
	return BookID(strings.Trim(s, "/"))
}

// BaseURL returns the book's root URL under origin, with a trailing slash.
func (id BookID) BaseURL(origin string) string {
	if origin == "" {
		origin = DefaultOrigin
	}
	return strings.TrimRight(origin, "/") + "/" + string(id) + "/"
}
