package data

import "golang.org/x/text/unicode/bidi"

// ContentKind identifies the sanitization context a piece of content is safe
// for. It mirrors the autoescaping contexts of the template compiler; this
// package only carries it through the output pipeline.
type ContentKind int8

const (
	// KindText is unsanitized plain text.
	KindText ContentKind = iota
	// KindHTML is sanitized HTML markup.
	KindHTML
	// KindJS is a sanitized JavaScript expression or statement.
	KindJS
	// KindCSS is a sanitized CSS declaration or stylesheet fragment.
	KindCSS
	// KindURI is a sanitized URI.
	KindURI
	// KindTrustedResourceURI is a URI safe to load executable resources from.
	KindTrustedResourceURI
	// KindAttributes is a sanitized run of HTML attribute name/value pairs.
	KindAttributes
)

var kindNames = map[ContentKind]string{
	KindText:               "text",
	KindHTML:               "html",
	KindJS:                 "js",
	KindCSS:                "css",
	KindURI:                "uri",
	KindTrustedResourceURI: "trusted_resource_uri",
	KindAttributes:         "attributes",
}

// String returns the lowercase name used in scripts and transcripts.
func (k ContentKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseContentKind resolves the lowercase name of a kind. Returns KindText
// and false for unknown names.
func ParseContentKind(name string) (ContentKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindText, false
}

// Dir is the text directionality of a piece of content.
type Dir int8

const (
	// DirNeutral means no dominant direction, or unknown.
	DirNeutral Dir = iota
	// DirLTR is left-to-right text.
	DirLTR
	// DirRTL is right-to-left text.
	DirRTL
)

// String returns the lowercase name used in scripts and transcripts.
func (d Dir) String() string {
	switch d {
	case DirLTR:
		return "ltr"
	case DirRTL:
		return "rtl"
	default:
		return "neutral"
	}
}

// ParseDir resolves the lowercase name of a direction. Returns DirNeutral
// and false for unknown names.
func ParseDir(name string) (Dir, bool) {
	switch name {
	case "neutral":
		return DirNeutral, true
	case "ltr":
		return DirLTR, true
	case "rtl":
		return DirRTL, true
	default:
		return DirNeutral, false
	}
}

// EstimateDir infers the directionality of text using the Unicode
// bidirectional algorithm. Mixed-direction and direction-free text report
// DirNeutral.
func EstimateDir(text string) Dir {
	if text == "" {
		return DirNeutral
	}
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return DirNeutral
	}
	order, err := p.Order()
	if err != nil {
		return DirNeutral
	}
	switch order.Direction() {
	case bidi.LeftToRight:
		return DirLTR
	case bidi.RightToLeft:
		return DirRTL
	default:
		return DirNeutral
	}
}
