package mailer

import "time"

// OrderEmailJob is the JSON payload put on the RabbitMQ queue after a
// checkout. The email worker consumes it and sends the confirmation mail.
type OrderEmailJob struct {
	To         string    `json:"to"`
	Username   string    `json:"username"`
	OrderID    string    `json:"order_id"`
	Courses    []string  `json:"courses"`
	TotalPrice float64   `json:"total_price"`
	PlacedAt   time.Time `json:"placed_at"`
}
