// Package render turns tailored document text into artifact bytes. The PDF
// path runs through headless Chrome in a subpackage; the text path always
// works and is the fallback when a job must complete without a browser.
package render

import (
	"context"
	"html/template"
	"regexp"
	"strings"
)

// Artifact formats recorded on finished jobs.
const (
	FormatPDF  = "pdf"
	FormatText = "txt"
)

// Input is one document to render.
type Input struct {
	Title string
	Body  string
}

// Renderer produces the bytes for one document.
type Renderer interface {
	Render(ctx context.Context, in Input) ([]byte, error)
}

// Format reports the artifact format a renderer produces.
type Format interface {
	Format() string
}

// TextRenderer emits plain UTF-8 text. It cannot fail, which is the point.
type TextRenderer struct{}

func (TextRenderer) Render(ctx context.Context, in Input) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	if in.Title != "" {
		b.WriteString(in.Title)
		b.WriteString("\n\n")
	}
	b.WriteString(in.Body)
	if !strings.HasSuffix(in.Body, "\n") {
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

func (TextRenderer) Format() string { return FormatText }

var _ Renderer = TextRenderer{}

// headingLine marks the lines the PDF output bolds: all-caps labels ending
// in a colon.
var headingLine = regexp.MustCompile(`^[A-Z\s]+:$`)

var pageTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Arial, Helvetica, sans-serif; font-size: 12pt; margin: 2cm; color: #111; }
h1 { font-size: 16pt; text-align: center; margin: 0 0 16pt 0; }
p { margin: 0 0 6pt 0; white-space: pre-wrap; }
p.heading { font-weight: bold; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Lines}}<p{{if .Bold}} class="heading"{{end}}>{{.Text}}</p>
{{end}}</body>
</html>
`))

type pageLine struct {
	Text string
	Bold bool
}

type pageData struct {
	Title string
	Lines []pageLine
}

// BuildHTML renders the document as a printable HTML page. Body text is
// escaped by the template; heading-looking lines get the bold class.
func BuildHTML(in Input) (string, error) {
	data := pageData{Title: in.Title}
	for _, line := range strings.Split(in.Body, "\n") {
		data.Lines = append(data.Lines, pageLine{
			Text: line,
			Bold: headingLine.MatchString(strings.TrimSpace(line)),
		})
	}
	var b strings.Builder
	if err := pageTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
