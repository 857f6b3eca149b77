package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovia/agrovia/app/repositories"
	"github.com/agrovia/agrovia/app/services"
)

func newSubscriptions(t *testing.T) *services.SubscriptionService {
	t.Helper()
	return services.NewSubscriptionService(repositories.NewSubscriptionRepository(newTestDB(t)))
}

func TestSubscribeStoresTokenAndIP(t *testing.T) {
	svc := newSubscriptions(t)

	sub, errs, err := svc.Subscribe(services.SubscriptionInput{Email: "news@example.com"}, "203.0.113.9")
	require.NoError(t, err)
	require.Empty(t, errs)

	assert.NotEmpty(t, sub.Token)
	assert.Equal(t, "203.0.113.9", sub.IP)
}

func TestSubscribeDedupesByEmail(t *testing.T) {
	svc := newSubscriptions(t)

	_, errs, err := svc.Subscribe(services.SubscriptionInput{Email: "dup@example.com"}, "198.51.100.1")
	require.NoError(t, err)
	require.Empty(t, errs)

	_, _, err = svc.Subscribe(services.SubscriptionInput{Email: "dup@example.com"}, "198.51.100.2")
	assert.ErrorIs(t, err, services.ErrAlreadySubscribed)
}

func TestSubscribeDedupesByIP(t *testing.T) {
	svc := newSubscriptions(t)

	_, errs, err := svc.Subscribe(services.SubscriptionInput{Email: "first@example.com"}, "198.51.100.7")
	require.NoError(t, err)
	require.Empty(t, errs)

	_, _, err = svc.Subscribe(services.SubscriptionInput{Email: "second@example.com"}, "198.51.100.7")
	assert.ErrorIs(t, err, services.ErrAlreadySubscribed)
}

func TestSubscribeValidatesEmail(t *testing.T) {
	svc := newSubscriptions(t)

	_, errs, err := svc.Subscribe(services.SubscriptionInput{Email: "nope"}, "203.0.113.1")
	require.NoError(t, err)
	assert.Contains(t, errs, "email")
}

func TestUnsubscribeByToken(t *testing.T) {
	svc := newSubscriptions(t)

	sub, errs, err := svc.Subscribe(services.SubscriptionInput{Email: "gone@example.com"}, "203.0.113.2")
	require.NoError(t, err)
	require.Empty(t, errs)

	require.NoError(t, svc.Unsubscribe(sub.Token))

	err = svc.Unsubscribe(sub.Token)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
