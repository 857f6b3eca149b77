package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/app/repositories"
	"github.com/agrovia/agrovia/app/services"
)

func newInbox(t *testing.T) *services.InboxService {
	t.Helper()
	return services.NewInboxService(repositories.NewMessageRepository(newTestDB(t)))
}

func validMessage() services.MessageInput {
	return services.MessageInput{
		Name:    "Chidi Okafor",
		Email:   "chidi@example.com",
		Subject: "Container availability",
		Body:    "Do you have hibiscus ready for a 40ft container in November?",
	}
}

func TestSubmitStartsUnread(t *testing.T) {
	svc := newInbox(t)

	msg, errs, err := svc.Submit(validMessage())
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, models.MessageStatusUnread, msg.Status)
}

func TestSubmitValidates(t *testing.T) {
	svc := newInbox(t)

	_, errs, err := svc.Submit(services.MessageInput{Name: "x"})
	require.NoError(t, err)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "body")
}

func TestGetMarksRead(t *testing.T) {
	svc := newInbox(t)

	msg, errs, err := svc.Submit(validMessage())
	require.NoError(t, err)
	require.Empty(t, errs)

	got, err := svc.Get(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusRead, got.Status)

	// A second open stays read.
	got, err = svc.Get(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusRead, got.Status)
}

func TestReplyAppendsAndMarksRead(t *testing.T) {
	svc := newInbox(t)

	msg, errs, err := svc.Submit(validMessage())
	require.NoError(t, err)
	require.Empty(t, errs)

	reply, errs, err := svc.Reply(msg.ID, services.ReplyInput{Body: "Yes, 25mt available for November."})
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.True(t, reply.FromAdmin)

	got, err := svc.Get(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusRead, got.Status)
	require.Len(t, got.Replies, 1)
	assert.Equal(t, reply.ID, got.Replies[0].ID)
}

func TestReplyValidatesBody(t *testing.T) {
	svc := newInbox(t)

	msg, errs, err := svc.Submit(validMessage())
	require.NoError(t, err)
	require.Empty(t, errs)

	_, errs, err = svc.Reply(msg.ID, services.ReplyInput{})
	require.NoError(t, err)
	assert.Contains(t, errs, "body")
}

func TestDeleteUnknownMessage(t *testing.T) {
	svc := newInbox(t)
	assert.ErrorIs(t, svc.Delete(424242), repositories.ErrNotFound)
}
