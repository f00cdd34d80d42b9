// Package goquery finds configuration scripts in book landing pages.
package goquery

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/flipdoc"
)

// Ensure ScriptFinder implements flipdoc.ScriptFinder at compile time.
var _ flipdoc.ScriptFinder = (*ScriptFinder)(nil)

// ScriptFinder lists <script src> references that look like book
// configuration scripts, in document order and without duplicates.
type ScriptFinder struct{}

// NewScriptFinder creates a new ScriptFinder.
func NewScriptFinder() *ScriptFinder {
	return &ScriptFinder{}
}

// FindConfigScripts returns the raw src values of configuration scripts.
// Returns nil if the HTML cannot be parsed.
func (f *ScriptFinder) FindConfigScripts(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var srcs []string
	seen := make(map[string]bool)
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		src = strings.TrimSpace(src)
		if src == "" || seen[src] || !isConfigScript(src) {
			return
		}
		seen[src] = true
		srcs = append(srcs, src)
	})
	return srcs
}

// isConfigScript matches script file names such as config.js or
// config_ab12.js, ignoring query strings.
func isConfigScript(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	name := strings.ToLower(path.Base(u.Path))
	return strings.HasPrefix(name, "config") && strings.HasSuffix(name, ".js")
}
