package mailer

// Template names understood by the email worker.
const (
	TemplateWelcome    = "welcome"
	TemplateTipReceipt = "tip_receipt"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Html is optional; Text is recommended as fallback.
// You can also use a template by specifying Template and Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome", "tip_receipt"
	Data     map[string]any `json:"data,omitempty"`
}
