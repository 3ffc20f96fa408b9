package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
	"text/template"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// New creates a mailer from SMTP credentials.
func New(host, port, username, password, from string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// OrderConfirmation carries the fields rendered into the confirmation mail.
type OrderConfirmation struct {
	OrderRef    string
	ProductName string
	VariantType string
	License     string
	Amount      float64
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`Thank you for your purchase!

Order Details:
- Order ID: {{.OrderRef}}
- Product: {{.ProductName}}
- Version: {{.VariantType}}
- License: {{.License}}
- Price: {{printf "%.2f" .Amount}}

Your image is now available in your orders page.
Thank you for choosing Image Store!`))

// SendOrderConfirmation delivers the payment confirmation mail.
func (m *Mailer) SendOrderConfirmation(to string, data OrderConfirmation) error {
	body, err := renderConfirmation(data)
	if err != nil {
		return fmt.Errorf("failed to render confirmation mail: %w", err)
	}

	msg := buildMessage(m.from, to, "Payment Confirmation - Image Store", body)
	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

func renderConfirmation(data OrderConfirmation) (string, error) {
	var b strings.Builder
	if err := confirmationTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
