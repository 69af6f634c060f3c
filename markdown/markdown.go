// Package markdown renders article bodies to HTML and highlights fenced code
// blocks with chroma. Output is trusted and not sanitized.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/russross/blackfriday/v2"
)

const (
	// DefaultLanguage is assumed for fences without a language tag.
	DefaultLanguage = "typescript"
	// DefaultStyle is the chroma style used for the stylesheet.
	DefaultStyle = "github-dark"
)

const extensions = blackfriday.CommonExtensions | blackfriday.Footnotes

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	defaultLanguage string
	style           *chroma.Style
	formatter       *chromahtml.Formatter
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithDefaultLanguage sets the language assumed for untagged fences.
func WithDefaultLanguage(lang string) Option {
	return func(r *Renderer) {
		if lang != "" {
			r.defaultLanguage = lang
		}
	}
}

// WithStyle selects the chroma style by name. Unknown names fall back to
// chroma's default style.
func WithStyle(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.style = styles.Get(name)
		}
	}
}

// New returns a Renderer.
func New(opts ...Option) *Renderer {
	r := Renderer{
		defaultLanguage: DefaultLanguage,
		style:           styles.Get(DefaultStyle),
		formatter:       chromahtml.New(chromahtml.WithClasses(true), chromahtml.TabWidth(2)),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return &r
}

var defaultRenderer = New()

// Render converts markdown to HTML using the default Renderer.
func Render(src string) template.HTML {
	return defaultRenderer.Render(src)
}

// Render converts markdown to HTML.
func (r *Renderer) Render(src string) template.HTML {
	// blackfriday's HTML renderer keeps per-document state
	hr := &highlightRenderer{
		HTMLRenderer: blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: blackfriday.CommonHTMLFlags | blackfriday.FootnoteReturnLinks,
		}),
		r: r,
	}
	out := blackfriday.Run([]byte(src), blackfriday.WithExtensions(extensions), blackfriday.WithRenderer(hr))
	return template.HTML(out)
}

// WriteCSS writes the stylesheet for the highlight classes.
func (r *Renderer) WriteCSS(w io.Writer) error {
	err := r.formatter.WriteCSS(w, r.style)
	if err != nil {
		return fmt.Errorf("WriteCSS: %w", err)
	}
	return nil
}

// highlightRenderer hands fenced code blocks to chroma and everything else
// to blackfriday.
type highlightRenderer struct {
	*blackfriday.HTMLRenderer
	r *Renderer
}

// RenderNode implements blackfriday.Renderer.
func (hr *highlightRenderer) RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	if node.Type == blackfriday.CodeBlock && node.IsFenced {
		lang := fenceLanguage(node.Info)
		if lang == "" {
			lang = hr.r.defaultLanguage
		}
		hr.r.highlight(w, string(node.Literal), lang)
		return blackfriday.GoToNext
	}
	return hr.HTMLRenderer.RenderNode(w, node, entering)
}

// fenceLanguage returns the first word of the fence info string.
func fenceLanguage(info []byte) string {
	f := strings.Fields(string(info))
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

// highlight writes code highlighted as lang. Unknown languages and
// tokenizer failures produce escaped plain text.
func (r *Renderer) highlight(w io.Writer, code, lang string) {
	lexer := lexers.Get(lang)
	if lexer != nil {
		it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
		if err == nil {
			var buf bytes.Buffer
			if err = r.formatter.Format(&buf, r.style, it); err == nil {
				_, _ = buf.WriteTo(w)
				return
			}
		}
	}
	writePlain(w, code, lang)
}

// writePlain writes an unhighlighted code block.
func writePlain(w io.Writer, code, lang string) {
	io.WriteString(w, "<pre><code")
	if lang != "" {
		io.WriteString(w, ` class="language-`+html.EscapeString(lang)+`"`)
	}
	io.WriteString(w, ">")
	io.WriteString(w, html.EscapeString(code))
	io.WriteString(w, "</code></pre>\n")
}
