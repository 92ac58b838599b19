// Package markdown renders blog post content to HTML. Fenced code blocks are
// highlighted with chroma using CSS classes, raw HTML in the source is dropped.
package markdown

import (
	"bytes"
	stdhtml "html"
	"io"
	"net/url"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	md "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// ToHTML converts markdown source to an HTML fragment. Absolute links open in
// a new tab.
func ToHTML(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}

	// parsers are not reusable between documents
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(source))
	markExternalLinks(doc)

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags:          mdhtml.CommonFlags | mdhtml.SkipHTML,
		RenderNodeHook: renderNodeHook,
	})

	return string(bytes.TrimSpace(md.Render(doc, renderer)))
}

func markExternalLinks(doc ast.Node) {
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		link, ok := node.(*ast.Link)
		if !ok || !isExternal(string(link.Destination)) {
			return ast.GoToNext
		}

		link.AdditionalAttributes = append(link.AdditionalAttributes, `target="_blank"`, `rel="noopener noreferrer"`)
		return ast.GoToNext
	})
}

func isExternal(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}

	return u.Scheme == "http" || u.Scheme == "https"
}

func renderNodeHook(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	if !entering {
		return ast.GoToNext, false
	}

	switch n := node.(type) {
	case *ast.CodeBlock:
		renderCodeBlock(w, n)
		return ast.SkipChildren, true
	case *ast.Code:
		_, _ = io.WriteString(w, `<code class="inline-code">`)
		_, _ = io.WriteString(w, stdhtml.EscapeString(string(n.Literal)))
		_, _ = io.WriteString(w, `</code>`)
		return ast.SkipChildren, true
	default:
		return ast.GoToNext, false
	}
}

func renderCodeBlock(w io.Writer, block *ast.CodeBlock) {
	code := string(block.Literal)
	lexer := chroma.Coalesce(pickLexer(codeLanguage(block.Info), code))

	iterator, err := lexer.Tokenise(nil, code)
	if err == nil {
		formatter := chromahtml.New(chromahtml.WithClasses(true))
		var buf bytes.Buffer
		if err = formatter.Format(&buf, styles.Fallback, iterator); err == nil {
			_, _ = w.Write(buf.Bytes())
			return
		}
	}

	_, _ = io.WriteString(w, `<pre class="chroma"><code>`)
	_, _ = io.WriteString(w, stdhtml.EscapeString(code))
	_, _ = io.WriteString(w, `</code></pre>`)
}

func pickLexer(language, code string) chroma.Lexer {
	if language != "" {
		if lexer := lexers.Get(language); lexer != nil {
			return lexer
		}
	}

	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer
	}

	return lexers.Fallback
}

func codeLanguage(info []byte) string {
	fields := strings.Fields(string(info))
	if len(fields) == 0 {
		return ""
	}

	return strings.ToLower(fields[0])
}
