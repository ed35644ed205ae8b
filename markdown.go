package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/adrg/frontmatter"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed content/*.md
var contentFS embed.FS

var (
	markdown  = goldmark.New(goldmark.WithExtensions(extension.Typographer))
	sanitizer = bluemonday.UGCPolicy()
)

// renderMarkdown converts trusted site copy to sanitized HTML. Conversion
// errors fall back to the escaped source text.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}

// Feature is one of the highlights listed in the about section.
type Feature struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

// AboutContent is the about section copy.
type AboutContent struct {
	Eyebrow  string    `yaml:"eyebrow"`
	Headline string    `yaml:"headline"`
	Features []Feature `yaml:"features"`
	Body     template.HTML
}

func loadAbout() (AboutContent, error) {
	f, err := contentFS.Open("content/about.md")
	if err != nil {
		return AboutContent{}, fmt.Errorf("opening about content: %w", err)
	}
	defer f.Close()

	var about AboutContent
	rest, err := frontmatter.Parse(f, &about)
	if err != nil {
		return AboutContent{}, fmt.Errorf("parsing about front matter: %w", err)
	}
	about.Body = renderMarkdown(string(rest))
	return about, nil
}
