// Package htmltext flattens HTML documents into plain text with line breaks
// at block-element boundaries. It is a structural pass only: character and
// entity references are left in their escaped form for a later cleaning
// stage to decode.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements whose open and close tags each emit a line break.
var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "section": {}, "article": {}, "header": {},
	"footer": {}, "main": {}, "nav": {}, "aside": {}, "br": {}, "hr": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"li": {}, "ul": {}, "ol": {}, "pre": {}, "blockquote": {},
	"tr": {}, "td": {}, "th": {}, "table": {},
}

// skipTags are subtrees whose text is discarded entirely. The skip is
// depth-counted so nested identical tags do not end the skip early.
var skipTags = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {},
}

// Extract converts an HTML document into a flat text stream. Malformed
// markup is tolerated: the tokenizer is best-effort and unmatched end tags
// are absorbed silently. No I/O; pure function of the input.
func Extract(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))
	var out strings.Builder
	skipDepth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			// End of input (or unrecoverable garbage): return what we have.
			return out.String()

		case html.StartTagToken:
			tag := tagName(z)
			if _, skip := skipTags[tag]; skip {
				skipDepth++
				continue
			}
			if skipDepth > 0 {
				continue
			}
			if _, block := blockTags[tag]; block {
				out.WriteByte('\n')
			}

		case html.EndTagToken:
			tag := tagName(z)
			if _, skip := skipTags[tag]; skip {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			if _, block := blockTags[tag]; block {
				out.WriteByte('\n')
			}

		case html.SelfClosingTagToken:
			// A self-closed block element opens and closes in one token.
			tag := tagName(z)
			if _, skip := skipTags[tag]; skip {
				continue
			}
			if skipDepth > 0 {
				continue
			}
			if _, block := blockTags[tag]; block {
				out.WriteString("\n\n")
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			// Raw bytes keep &amp; and &#39; escaped, as required.
			out.Write(z.Raw())
		}
	}
}

func tagName(z *html.Tokenizer) string {
	name, _ := z.TagName()
	return string(name)
}
