package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Render returns subject, text and HTML bodies for a named template.
// Data keys are documented per template below.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case "welcome":
		return renderWelcome(data)
	case "tip_receipt":
		return renderTipReceipt(data)
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}

// welcome expects: Username, TempPassword, LoginURL.
var welcomeHTML = template.Must(template.New("welcome").Parse(`
<h2>Your profile is live</h2>
<p>Thanks for your payment. Your username <strong>{{.Username}}</strong> is now yours.</p>
<p>Sign in with this one-time password and change it right away:</p>
<p><code>{{.TempPassword}}</code></p>
<p><a href="{{.LoginURL}}">Log in to your dashboard</a></p>
`))

func renderWelcome(data map[string]any) (string, string, string, error) {
	var buf bytes.Buffer
	if err := welcomeHTML.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	subject := "Welcome! Your profile is ready"
	text := fmt.Sprintf("Your username %v is now yours. One-time password: %v. Log in at %v and change it right away.",
		data["Username"], data["TempPassword"], data["LoginURL"])
	return subject, text, buf.String(), nil
}

// tip_receipt expects: DisplayName, AmountText.
var tipReceiptHTML = template.Must(template.New("tip_receipt").Parse(`
<h2>Thanks for the tip!</h2>
<p>Your tip of <strong>{{.AmountText}}</strong> to {{.DisplayName}} went through.</p>
`))

func renderTipReceipt(data map[string]any) (string, string, string, error) {
	var buf bytes.Buffer
	if err := tipReceiptHTML.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	subject := "Your tip receipt"
	text := fmt.Sprintf("Your tip of %v to %v went through.", data["AmountText"], data["DisplayName"])
	return subject, text, buf.String(), nil
}
