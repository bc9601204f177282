// Package docs serves the embedded user documentation.
package docs

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed documentation.md
var source []byte

// Markdown returns the raw documentation source.
func Markdown() []byte {
	out := make([]byte, len(source))
	copy(out, source)
	return out
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders the documentation for the web page. The source is embedded
// and trusted, so the output is returned as template.HTML.
func HTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("render documentation: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Terminal renders the documentation for a terminal of the given width
// using the named glamour style ("dark", "light", "notty", ...).
func Terminal(style string, width int) (string, error) {
	if style == "" {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := r.Render(string(source))
	if err != nil {
		return "", fmt.Errorf("render documentation: %w", err)
	}
	return out, nil
}
