package flipdoc

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Manifest keys that hold the ordered page list.
const (
	PagesKey       = "fliphtml5_pages"
	LegacyPagesKey = "pages"
)

// Descriptor field names.
const (
	LongSuffixField  = "l"
	ShortSuffixField = "n"
)

// Manifest is the decoded book configuration. Its schema is not stable, so
// it is kept as a generic JSON tree and only read through ExtractPages.
type Manifest map[string]any

// ParseManifest parses decoder output into a Manifest. Anything before the
// first '{' or after the last '}' is discarded.
func ParseManifest(raw []byte) (Manifest, error) {
	start := bytes.IndexByte(raw, '{')
	end := bytes.LastIndexByte(raw, '}')
	if start == -1 || end < start {
		return nil, Errorf(EDECODE, "decoder output contains no JSON object (%d bytes)", len(raw))
	}

	var m Manifest
	if err := json.Unmarshal(raw[start:end+1], &m); err != nil {
		return nil, Errorf(EDECODE, "invalid decoder output: %v", err)
	}
	return m, nil
}

// Schema records how a page list was found in a Manifest.
type Schema int

const (
	// SchemaKnown means the page list sat under PagesKey or LegacyPagesKey.
	SchemaKnown Schema = iota
	// SchemaHeuristic means the page list was found by a structural scan.
	SchemaHeuristic
)

func (s Schema) String() string {
	switch s {
	case SchemaKnown:
		return "known"
	case SchemaHeuristic:
		return "heuristic"
	}
	return "unknown"
}

// PageList is the uniform result of page extraction.
type PageList struct {
	Schema Schema
	Key    string
	Pages  []PageDescriptor
}

// PageDescriptor describes where one page's image lives. Index is the
// 1-based manifest position and defines document order.
type PageDescriptor struct {
	Index  int
	Suffix Suffix
}

// ExtractPages locates the ordered page list in m. Known keys are tried
// first; otherwise top-level values are scanned in key order for a
// sequence of descriptor-like mappings. Returns ENOPAGES if neither works.
func ExtractPages(m Manifest) (*PageList, error) {
	for _, key := range []string{PagesKey, LegacyPagesKey} {
		if items, ok := m[key].([]any); ok && len(items) > 0 {
			return newPageList(SchemaKnown, key, items), nil
		}
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if items, ok := m[key].([]any); ok && looksLikePages(items) {
			return newPageList(SchemaHeuristic, key, items), nil
		}
	}

	return nil, Errorf(ENOPAGES, "no page list found in configuration")
}

// looksLikePages reports whether items starts with a mapping that carries
// the short suffix field.
func looksLikePages(items []any) bool {
	if len(items) == 0 {
		return false
	}
	first, ok := items[0].(map[string]any)
	if !ok {
		return false
	}
	_, ok = first[ShortSuffixField]
	return ok
}

func newPageList(schema Schema, key string, items []any) *PageList {
	pages := make([]PageDescriptor, len(items))
	for i, item := range items {
		fields, _ := item.(map[string]any)
		pages[i] = PageDescriptor{
			Index:  i + 1,
			Suffix: suffixFromFields(fields),
		}
	}
	return &PageList{Schema: schema, Key: key, Pages: pages}
}
