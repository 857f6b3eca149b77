package jobs_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/agrovia/agrovia/app/jobs"
	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/pkg/database"
	"github.com/agrovia/agrovia/pkg/mail"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Quote{}, &models.Message{}, &models.Reply{}))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

// captureMail swaps the mail sender for one that records messages.
func captureMail(t *testing.T) *[]*mail.Message {
	t.Helper()
	var sent []*mail.Message
	prev := mail.SetSender(func(m *mail.Message) error {
		sent = append(sent, m)
		return nil
	})
	t.Cleanup(func() { mail.SetSender(prev) })
	return &sent
}

func TestQuoteNotifyEmailsSalesInbox(t *testing.T) {
	db := setupDB(t)
	sent := captureMail(t)

	quote := models.Quote{
		FullName:     "Amina Bello",
		Email:        "amina@example.com",
		ProductName:  "Dried Hibiscus Flower",
		Volume:       "2 x 40ft",
		Unit:         "mt",
		Incoterm:     "FOB",
		DeliveryDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Status:       models.QuoteStatusPending,
	}
	require.NoError(t, db.Create(&quote).Error)

	job := &jobs.QuoteNotifyJob{QuoteID: quote.ID}
	require.NoError(t, job.Handle())

	require.Len(t, *sent, 1)
	msg := (*sent)[0]
	assert.Contains(t, msg.Recipients(), "sales@agrovia.example")
	assert.Contains(t, msg.SubjectLine(), "Dried Hibiscus Flower")
}

func TestQuoteNotifyUnknownQuoteFails(t *testing.T) {
	setupDB(t)
	captureMail(t)

	job := &jobs.QuoteNotifyJob{QuoteID: 9999}
	assert.Error(t, job.Handle())
}

func TestReplyNotifyEmailsCustomer(t *testing.T) {
	db := setupDB(t)
	sent := captureMail(t)

	msg := models.Message{
		Name:    "Chidi Okafor",
		Email:   "chidi@example.com",
		Subject: "Container availability",
		Body:    "Do you have stock?",
		Status:  models.MessageStatusRead,
	}
	require.NoError(t, db.Create(&msg).Error)

	reply := models.Reply{MessageID: msg.ID, Body: "Yes, 25mt available.", FromAdmin: true}
	require.NoError(t, db.Create(&reply).Error)

	job := &jobs.ReplyNotifyJob{MessageID: msg.ID, ReplyID: reply.ID}
	require.NoError(t, job.Handle())

	require.Len(t, *sent, 1)
	out := (*sent)[0]
	assert.Equal(t, []string{"chidi@example.com"}, out.Recipients())
	assert.Equal(t, "Re: Container availability", out.SubjectLine())
}

func TestReplyNotifyMissingReplyFails(t *testing.T) {
	db := setupDB(t)
	captureMail(t)

	msg := models.Message{Name: "A", Email: "a@example.com", Body: "hi", Status: models.MessageStatusUnread}
	require.NoError(t, db.Create(&msg).Error)

	job := &jobs.ReplyNotifyJob{MessageID: msg.ID, ReplyID: 777}
	assert.Error(t, job.Handle())
}
