package mail

import (
	"bytes"
	"html/template"
	"time"
)

const layoutTpl = `<!DOCTYPE html>
<html lang="en">
<head><meta http-equiv="Content-Type" content="text/html; charset=UTF-8" /></head>
<body style="background-color:#f6f7f9;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:560px;background:#fff;border:1px solid #0f766e;border-radius:.375rem;margin:40px auto;padding:24px">
    <tbody><tr><td>
      <h1 style="color:#0f766e;font-size:20px;font-weight:600;margin:0 0 24px">{{.Heading}}</h1>
      {{template "body" .}}
      <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
      <p style="font-size:11px;line-height:20px;color:#9ca3af;text-align:center">This message was sent automatically by {{.SiteName}}.<br />&copy;{{year}} {{.SiteName}}</p>
    </td></tr></tbody>
  </table>
</body>
</html>`

const contactNotifyTpl = `{{define "body"}}
<p style="font-size:14px;line-height:24px">New message from <strong>{{.Name}}</strong> &lt;{{.Email}}&gt;{{if .Phone}}, {{.Phone}}{{end}}.</p>
{{if .Subject}}<p style="font-size:14px"><strong>Subject:</strong> {{.Subject}}</p>{{end}}
<div style="background:#f3f4f6;border-radius:.5rem;padding:12px 16px;font-size:13px;line-height:22px;white-space:pre-wrap">{{.Message}}</div>
{{end}}`

const contactAckTpl = `{{define "body"}}
<p style="font-size:14px;line-height:24px">Hi {{.Name}},</p>
<p style="font-size:14px;line-height:24px">Thanks for getting in touch. We have received your message and will reply within two working days.</p>
<div style="background:#f3f4f6;border-radius:.5rem;padding:12px 16px;font-size:13px;line-height:22px;white-space:pre-wrap">{{.Message}}</div>
{{end}}`

const newsletterWelcomeTpl = `{{define "body"}}
<p style="font-size:14px;line-height:24px">Hi{{if .Name}} {{.Name}}{{end}},</p>
<p style="font-size:14px;line-height:24px">You are now subscribed to news from {{.SiteName}}. We write a few times a year about the projects your support makes possible.</p>
<p style="font-size:12px;line-height:20px;color:#6b7280">Changed your mind? <a href="{{.UnsubscribeURL}}" style="color:#0f766e">Unsubscribe</a> at any time.</p>
{{end}}`

const proposalNotifyTpl = `{{define "body"}}
<p style="font-size:14px;line-height:24px"><strong>{{.OrganizationName}}</strong> ({{.ContactName}}, {{.Email}}) submitted a project proposal.</p>
<p style="font-size:14px"><strong>{{.Title}}</strong>{{if .Budget}} &middot; budget {{printf "%.2f" .Budget}}{{end}}{{if .Timeline}} &middot; {{.Timeline}}{{end}}</p>
<div style="background:#f3f4f6;border-radius:.5rem;padding:12px 16px;font-size:13px;line-height:22px;white-space:pre-wrap">{{.Description}}</div>
{{end}}`

const donationThanksTpl = `{{define "body"}}
<p style="font-size:14px;line-height:24px">Dear {{.DonorName}},</p>
<p style="font-size:14px;line-height:24px">Thank you for your gift of <strong>{{printf "%.2f" .Amount}} {{.Currency}}</strong>{{if .Purpose}} towards {{.Purpose}}{{end}}.</p>
{{if .GiftAid}}<p style="font-size:13px;line-height:22px">We will claim Gift Aid on your donation.</p>{{end}}
<p style="font-size:12px;color:#6b7280">Reference: {{.Reference}}</p>
{{end}}`

const passwordResetTpl = `{{define "body"}}
<p style="font-size:14px;line-height:24px">Hi {{.Name}},</p>
<p style="font-size:14px;line-height:24px">Someone asked to reset the password for your account. The link below is valid for {{.ValidFor}}.</p>
<p style="margin:24px 0"><a href="{{.ResetURL}}" style="background:#0f766e;color:#fff;padding:10px 18px;text-decoration:none;border-radius:.25rem;font-size:13px">Reset password</a></p>
<p style="font-size:12px;color:#6b7280">If this was not you, ignore this email and your password stays the same.</p>
{{end}}`

var funcs = template.FuncMap{
	"year": func() int { return time.Now().Year() },
}

func renderTemplate(body string, data interface{}) (string, error) {
	t, err := template.New("layout").Funcs(funcs).Parse(layoutTpl)
	if err != nil {
		return "", err
	}
	if _, err := t.Parse(body); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
