// Package jobs defines the background jobs the queue can run. Each job
// carries only row IDs; the handler reloads the row so a job that sat in
// the queue never emails stale data.
package jobs

import (
	"fmt"
	"html"

	"github.com/agrovia/agrovia/app/repositories"
	"github.com/agrovia/agrovia/config"
	"github.com/agrovia/agrovia/pkg/database"
	"github.com/agrovia/agrovia/pkg/mail"
	"github.com/agrovia/agrovia/pkg/queue"
)

// Queue type names. Dispatchers and Register must agree on these.
const (
	TypeQuoteNotify = "jobs.QuoteNotifyJob"
	TypeReplyNotify = "jobs.ReplyNotifyJob"
)

// Register wires every job type into the queue. Call once at boot,
// before StartWorkers.
func Register() {
	queue.Register(TypeQuoteNotify, func() queue.Job { return &QuoteNotifyJob{} })
	queue.Register(TypeReplyNotify, func() queue.Job { return &ReplyNotifyJob{} })
}

// QuoteNotifyJob emails the sales inbox about a new quote request.
type QuoteNotifyJob struct {
	QuoteID uint `json:"quote_id"`
}

func (j *QuoteNotifyJob) Handle() error {
	repo := repositories.NewQuoteRepository(database.DB)
	q, err := repo.FindByID(j.QuoteID)
	if err != nil {
		return fmt.Errorf("quote notify: load quote %d: %w", j.QuoteID, err)
	}

	body := fmt.Sprintf(
		"<h2>New quote request #%d</h2>"+
			"<p><b>%s</b> (%s) is asking about <b>%s</b>.</p>"+
			"<p>Volume: %s %s · Incoterm: %s · Delivery by %s</p>"+
			"<p>%s</p>"+
			"<p>%d attachment(s).</p>",
		q.ID,
		html.EscapeString(q.FullName), html.EscapeString(q.Email),
		html.EscapeString(q.ProductName),
		html.EscapeString(q.Volume), html.EscapeString(q.Unit),
		html.EscapeString(q.Incoterm), q.DeliveryDate.Format("2006-01-02"),
		html.EscapeString(q.Notes),
		len(q.Attachments),
	)

	return mail.To(config.QuoteNotifyEmail()).
		Subject(fmt.Sprintf("New quote request #%d — %s", q.ID, q.ProductName)).
		Body(body).
		Send()
}

// ReplyNotifyJob emails the customer when staff reply to their message.
type ReplyNotifyJob struct {
	MessageID uint `json:"message_id"`
	ReplyID   uint `json:"reply_id"`
}

func (j *ReplyNotifyJob) Handle() error {
	repo := repositories.NewMessageRepository(database.DB)
	m, err := repo.FindByID(j.MessageID)
	if err != nil {
		return fmt.Errorf("reply notify: load message %d: %w", j.MessageID, err)
	}

	var body string
	for _, r := range m.Replies {
		if r.ID == j.ReplyID {
			body = r.Body
			break
		}
	}
	if body == "" {
		return fmt.Errorf("reply notify: reply %d not found on message %d", j.ReplyID, j.MessageID)
	}

	subject := m.Subject
	if subject == "" {
		subject = "your message"
	}

	return mail.To(m.Email).
		Subject("Re: " + subject).
		Body(fmt.Sprintf("<p>Hi %s,</p><p>%s</p>",
			html.EscapeString(m.Name), html.EscapeString(body))).
		Send()
}
