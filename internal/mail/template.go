package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// ResponseEmailData feeds the German response email template. Intro and
// Signature come from the company profile; empty values fall back to the
// defaults baked into the template.
type ResponseEmailData struct {
	RecipientName   string
	ResponseBody    string
	OriginalMessage string
	Intro           string
	Signature       string
}

var responseTemplate = template.Must(template.New("response").Parse(`<h2>Antwort auf Ihre Anfrage</h2>
<p>Hallo {{.RecipientName}},</p>
<p>{{.Intro}}</p>
<div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
  {{.ResponseHTML}}
</div>
<hr style="margin: 30px 0; border: none; border-top: 1px solid #e0e0e0;">
<p style="font-size: 12px; color: #666;">
  <strong>Ihre ursprüngliche Nachricht:</strong><br>
  {{.OriginalHTML}}
</p>
<p style="font-size: 12px; color: #999; margin-top: 30px;">
  {{.SignatureHTML}}
</p>`))

// RenderResponseEmail renders the reply email body. Newlines in the draft and
// the original message become <br> tags, everything else is escaped.
func RenderResponseEmail(data *ResponseEmailData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("template data is nil")
	}

	intro := data.Intro
	if intro == "" {
		intro = "vielen Dank für Ihre Anfrage. Hier ist unsere Antwort:"
	}
	signature := data.Signature
	if signature == "" {
		signature = "Mit freundlichen Grüßen,\nIhr KI-Sekretärin Team"
	}

	var buf bytes.Buffer
	err := responseTemplate.Execute(&buf, struct {
		RecipientName string
		Intro         string
		ResponseHTML  template.HTML
		OriginalHTML  template.HTML
		SignatureHTML template.HTML
	}{
		RecipientName: data.RecipientName,
		Intro:         intro,
		ResponseHTML:  nl2br(data.ResponseBody),
		OriginalHTML:  nl2br(data.OriginalMessage),
		SignatureHTML: nl2br(signature),
	})
	if err != nil {
		return "", fmt.Errorf("render response email: %w", err)
	}
	return buf.String(), nil
}

func nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
