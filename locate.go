package flipdoc

import (
	"fmt"
	"strings"
)

// SuffixKind tags the shape of a descriptor's image reference.
type SuffixKind int

const (
	SuffixAbsent SuffixKind = iota
	SuffixSingle
	SuffixList
)

// Suffix is a page image reference as found in the manifest: a single
// string, a list of candidate strings, or nothing.
type Suffix struct {
	Kind   SuffixKind
	Values []string
}

// suffixFromFields prefers the long-form field and falls back to the
// short-form one.
func suffixFromFields(fields map[string]any) Suffix {
	if v, ok := fields[LongSuffixField]; ok && v != nil {
		return suffixFromValue(v)
	}
	return suffixFromValue(fields[ShortSuffixField])
}

func suffixFromValue(v any) Suffix {
	switch v := v.(type) {
	case string:
		return Suffix{Kind: SuffixSingle, Values: []string{v}}
	case []any:
		values := make([]string, len(v))
		for i, e := range v {
			values[i], _ = e.(string)
		}
		return Suffix{Kind: SuffixList, Values: values}
	default:
		return Suffix{Kind: SuffixAbsent}
	}
}

// Resolve returns the reference to fetch: the value itself, or the first
// element of a list.
func (s Suffix) Resolve() (string, error) {
	var v string
	switch s.Kind {
	case SuffixAbsent:
		return "", Errorf(EINVALID, "page has no image reference")
	case SuffixSingle:
		if len(s.Values) == 0 {
			return "", Errorf(EINVALID, "page image reference is missing")
		}
		v = s.Values[0]
	case SuffixList:
		if len(s.Values) == 0 {
			return "", Errorf(EINVALID, "page image list is empty")
		}
		v = s.Values[0]
	default:
		return "", Errorf(EINTERNAL, "unknown suffix kind %d", s.Kind)
	}
	if v == "" {
		return "", Errorf(EINVALID, "page image reference is empty")
	}
	return v, nil
}

// Encoding is a raster image encoding, named by its file extension.
type Encoding string

const (
	EncodingJPEG Encoding = "jpg"
	EncodingPNG  Encoding = "png"
	EncodingWebP Encoding = "webp"
)

// Asset is a located page image: where to fetch it and what to call it locally.
type Asset struct {
	Index    int
	URL      string
	Filename string
	Encoding Encoding
}

// Asset path prefixes on the remote service.
const (
	FilesPrefix = "files/"
	LargePath   = "files/large/"
)

// Locator turns page descriptors into fetchable assets for one book.
type Locator struct {
	baseURL string
}

// NewLocator returns a Locator for the book rooted at baseURL, which must
// end with a slash (see BookID.BaseURL).
func NewLocator(baseURL string) *Locator {
	return &Locator{baseURL: baseURL}
}

// Locate computes the fetch URL and local filename for page.
// Returns EINVALID when the descriptor carries no usable reference.
func (l *Locator) Locate(page PageDescriptor) (*Asset, error) {
	ref, err := page.Suffix.Resolve()
	if err != nil {
		return nil, err
	}

	var u string
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		u = ref
	case strings.HasPrefix(ref, "//"):
		u = "http:" + ref
	case strings.HasPrefix(ref, FilesPrefix):
		u = l.baseURL + ref
	default:
		u = l.baseURL + LargePath + ref
	}
	u = collapseDotSegments(u)

	enc := EncodingJPEG
	if strings.HasSuffix(strings.ToLower(u), "."+string(EncodingWebP)) {
		enc = EncodingWebP
	}

	return &Asset{
		Index:    page.Index,
		URL:      u,
		Filename: fmt.Sprintf("%04d.%s", page.Index, enc),
		Encoding: enc,
	}, nil
}

func collapseDotSegments(u string) string {
	for strings.Contains(u, "/./") {
		u = strings.ReplaceAll(u, "/./", "/")
	}
	return u
}
