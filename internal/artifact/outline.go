package artifact

import (
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// parser configuration never changes and a goldmark parser is safe to
// share; per-call state lives in the reader passed to Parse.
var (
	mdParser goldmark.Markdown
	mdOnce   sync.Once
)

func markdownParser() goldmark.Markdown {
	mdOnce.Do(func() {
		mdParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return mdParser
}

// Outline parses markdown content and returns its headings in document
// order, each rendered as "## Title" with the hash prefix matching the
// heading level. Used for malformed-artifact reporting and inspection;
// the section contract itself is a substring match (see Validate).
func Outline(content []byte) []string {
	doc := markdownParser().Parser().Parse(text.NewReader(content))

	var headings []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var sb strings.Builder
		sb.WriteString(strings.Repeat("#", h.Level))
		sb.WriteByte(' ')
		for c := h.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				sb.Write(t.Segment.Value(content))
			}
		}
		headings = append(headings, sb.String())
		return ast.WalkSkipChildren, nil
	})
	return headings
}
