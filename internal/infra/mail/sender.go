package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/thelocaljewel/backend/internal/infra/queue"
)

var newLeadTemplate = template.Must(template.New("new_lead").Parse(
	`A new lead just came in.

Lead:    {{.LeadID}}
Name:    {{.FirstName}}
Email:   {{.Email}}
Phone:   {{.Phone}}
Product: {{.ProductType}}
Budget:  {{.Budget}}
`))

// EmailSender delivers admin alerts over SMTP. Delivery mechanics beyond this
// boundary are outside the core.
type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

func (s *EmailSender) SendNewLeadAlert(payload queue.LeadSubmittedPayload) error {
	var body bytes.Buffer
	if err := newLeadTemplate.Execute(&body, payload); err != nil {
		return fmt.Errorf("render new-lead alert: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s (%s)", payload.FirstName, payload.LeadID))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send new-lead alert: %w", err)
	}
	return nil
}
