// Package preview renders webhook payloads for inspection instead of posting them.
package preview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/ericfisherdev/mrcoffee/internal/application"
	"github.com/ericfisherdev/mrcoffee/internal/domain/model"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatHTML = "html"
)

// cardRenderer turns the markdown text of a Teams card into sanitized HTML.
// Raw HTML in the markdown is dropped by goldmark and the policy only lets
// through what the card format produces: paragraphs, emphasis and links.
type cardRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newCardRenderer() *cardRenderer {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "strong", "em", "code")
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowStandardURLs()
	policy.RequireNoFollowOnLinks(true)

	return &cardRenderer{md: goldmark.New(), policy: policy}
}

// render converts every non-blank line of text into its own paragraph, the
// way Teams shows one merge request per line.
func (c *cardRenderer) render(text string) (template.HTML, error) {
	var buf bytes.Buffer
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := c.md.Convert([]byte(line), &buf); err != nil {
			return "", fmt.Errorf("rendering card line: %w", err)
		}
	}
	return template.HTML(c.policy.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // sanitized above
}

var card = newCardRenderer()

// JSON writes payloads as indented JSON keyed by channel.
func JSON(w io.Writer, payloads map[model.Channel]any) error {
	data, err := json.MarshalIndent(payloads, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding preview: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

var pageTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{.Body}}
</body>
</html>
`))

// HTML writes msg as a standalone HTML page.
func HTML(w io.Writer, msg application.TeamsMessage) error {
	body, err := card.render(msg.Text)
	if err != nil {
		return err
	}

	return pageTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: msg.Title,
		Body:  body,
	})
}
