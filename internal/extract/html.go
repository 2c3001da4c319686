package extract

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// htmlLeadPattern matches a body that opens with a document or block
	// element. Angle brackets elsewhere ("Ann <ann@example.com>", "a<b") are
	// not markup.
	htmlLeadPattern = regexp.MustCompile(`(?i)^<(?:!doctype\s+html|html|head|body|div|p|table|span|meta|style)[\s/>]`)

	// stripPolicy removes every element, leaving a space where a tag stood.
	stripPolicy = newStripPolicy()
)

func newStripPolicy() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}

// PlainBody returns body unchanged unless it starts with an HTML element, in
// which case tags are stripped, entities decoded, and runs of whitespace
// collapsed.
func PlainBody(body string) string {
	if !htmlLeadPattern.MatchString(strings.TrimSpace(body)) {
		return body
	}
	text := html.UnescapeString(stripPolicy.Sanitize(body))
	return strings.Join(strings.Fields(text), " ")
}
