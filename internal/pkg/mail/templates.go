package mail

import (
	"bytes"
	"html/template"
)

const contactNotifyTpl = `<!DOCTYPE html>
<html>
<head><meta http-equiv="Content-Type" content="text/html; charset=UTF-8" /></head>
<body style="background-color:#fff;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:550px;border:1px solid rgb(14,165,233);border-radius:.25rem;margin:40px auto;padding:20px">
    <tbody>
      <tr><td>
        <h1 style="color:#000;font-size:18px;font-weight:400;text-align:center;margin:30px 0">New contact message: <strong>{{.Topic}}</strong></h1>
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#000"><strong>{{.Name}}</strong> &lt;{{.Email}}&gt; wrote:</p>
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="background-color:rgb(243,244,246);border-radius:.75rem;padding:0 1rem">
          <tbody><tr><td><p style="font-size:12px;line-height:24px;margin:16px 0;color:rgb(51,51,51)">{{.Message}}</p></td></tr></tbody>
        </table>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

const newsletterTpl = `<!DOCTYPE html>
<html>
<head><meta http-equiv="Content-Type" content="text/html; charset=UTF-8" /></head>
<body style="background-color:#fff;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,sans-serif;padding:.5rem">
  <div style="display:none;max-height:0;overflow:hidden">{{.PreviewText}}</div>
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:600px;margin:40px auto;padding:20px">
    <tbody>
      <tr><td>
        <h1 style="color:#000;font-size:22px;font-weight:600;margin:0 0 24px">{{.Subject}}</h1>
        <div style="font-size:14px;line-height:24px;color:#000">{{.Content}}</div>
        <p style="font-size:12px;line-height:20px;margin:32px 0 0;color:rgb(107,114,128)">
          You receive this because you subscribed to {{.SiteName}}.
          <a href="{{.UnsubscribeURL}}" style="color:rgb(107,114,128)">Unsubscribe</a>
        </p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

// ContactNotifyData fills the contact notification template.
type ContactNotifyData struct {
	Name    string
	Email   string
	Topic   string
	Message string
}

// NewsletterData fills the newsletter issue template.
type NewsletterData struct {
	Subject        string
	PreviewText    string
	Content        template.HTML
	SiteName       string
	UnsubscribeURL string
}

var (
	contactTemplate    = template.Must(template.New("contact").Parse(contactNotifyTpl))
	newsletterTemplate = template.Must(template.New("newsletter").Parse(newsletterTpl))
)

// RenderContactNotify renders the contact notification body.
func RenderContactNotify(data ContactNotifyData) (string, error) {
	var buf bytes.Buffer
	if err := contactTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderNewsletter renders a newsletter issue body.
func RenderNewsletter(data NewsletterData) (string, error) {
	var buf bytes.Buffer
	if err := newsletterTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
