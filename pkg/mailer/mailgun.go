package mailer

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun sends transactional mail through the Mailgun API.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

// Send delivers a single email. html is optional.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, htmlBody string) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, text, to)
	if htmlBody != "" {
		msg.SetHtml(htmlBody)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}

// SendOrderConfirmation renders and sends the checkout confirmation mail for
// a queued order job.
func (m *Mailgun) SendOrderConfirmation(ctx context.Context, job OrderEmailJob) error {
	subject := fmt.Sprintf("Order %s confirmed", job.OrderID)

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\nThanks for your purchase. Your order %s is confirmed.\n\n", job.Username, job.OrderID)
	for _, title := range job.Courses {
		fmt.Fprintf(&text, "  - %s\n", title)
	}
	fmt.Fprintf(&text, "\nTotal: %.0f\nPlaced: %s\n", job.TotalPrice, job.PlacedAt.Format("2006-01-02 15:04"))

	var body strings.Builder
	fmt.Fprintf(&body, "<p>Hi %s,</p><p>Thanks for your purchase. Your order <strong>%s</strong> is confirmed.</p><ul>",
		html.EscapeString(job.Username), html.EscapeString(job.OrderID))
	for _, title := range job.Courses {
		fmt.Fprintf(&body, "<li>%s</li>", html.EscapeString(title))
	}
	fmt.Fprintf(&body, "</ul><p>Total: <strong>%.0f</strong></p>", job.TotalPrice)

	return m.Send(ctx, job.To, subject, text.String(), body.String())
}
