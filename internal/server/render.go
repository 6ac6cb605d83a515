package server

import (
	"bytes"
	"sync"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownOnce = sync.OnceValue(func() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
})

// RenderHTML converts assistant markdown to HTML. Responses lean on GFM
// tables and fenced SQL blocks, so both extensions are required.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := markdownOnce().Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
