// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/olegiv/portfolio-go/internal/model"
)

const contactHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2 style="color: #111827;">New contact form submission</h2>
  <p><strong>Name:</strong> {{.Msg.Name}}</p>
  <p><strong>Email:</strong> <a href="mailto:{{.Msg.Email}}">{{.Msg.Email}}</a></p>
  <p><strong>Message:</strong></p>
  <div style="background: #f3f4f6; padding: 12px; border-radius: 6px; white-space: pre-wrap;">{{.Msg.Message}}</div>
  <hr style="margin-top: 24px;">
  <p style="font-size: 12px; color: #6b7280;">
    Sent {{.Sent}}{{with .Meta.Country}} from {{.}}{{end}}{{with .Meta.Browser}} using {{.}}{{end}}{{with .Meta.OS}} on {{.}}{{end}}.
  </p>
</body>
</html>
`

const contactText = `New contact form submission

Name: {{.Msg.Name}}
Email: {{.Msg.Email}}

Message:
{{.Msg.Message}}

--
Sent {{.Sent}}{{with .Meta.Country}} from {{.}}{{end}}{{with .Meta.Browser}} using {{.}}{{end}}{{with .Meta.OS}} on {{.}}{{end}}.
`

var (
	contactHTMLTmpl = htmltemplate.Must(htmltemplate.New("contact.html").Parse(contactHTML))
	contactTextTmpl = texttemplate.Must(texttemplate.New("contact.txt").Parse(contactText))
)

type contactData struct {
	Msg  model.ContactMessage
	Meta model.SenderMeta
	Sent string
}

// ContactSubject is the subject line for a contact message from name.
func ContactSubject(name string) string {
	return "Portfolio Contact: Message from " + name
}

// BuildContactMessage renders msg into an email addressed from -> to with
// replies going to the sender.
func BuildContactMessage(from, to string, msg model.ContactMessage, meta model.SenderMeta, sent time.Time) (Message, error) {
	data := contactData{Msg: msg, Meta: meta, Sent: sent.UTC().Format(time.RFC1123)}

	var html, text bytes.Buffer
	if err := contactHTMLTmpl.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("rendering html body: %w", err)
	}
	if err := contactTextTmpl.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("rendering text body: %w", err)
	}

	return Message{
		From:    from,
		To:      to,
		ReplyTo: msg.Email,
		Subject: ContactSubject(msg.Name),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
