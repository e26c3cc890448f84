package publisher

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
)

var imgPattern = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)

// RenderHTML converts article markdown to HTML.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ImageRefs lists every image target referenced in md, in order.
func ImageRefs(md string) []string {
	var refs []string
	for _, m := range imgPattern.FindAllStringSubmatch(md, -1) {
		refs = append(refs, m[1])
	}
	return refs
}
