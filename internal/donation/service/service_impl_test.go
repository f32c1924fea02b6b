package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/smallbiznis/replate/internal/clock"
	"github.com/smallbiznis/replate/internal/donation/domain"
	"github.com/smallbiznis/replate/internal/donation/repository"
	"github.com/smallbiznis/replate/internal/migration/migrationtest"
	"github.com/smallbiznis/replate/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()
	conn := migrationtest.Open(t)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewService(repository.NewRepository(conn), clk, zap.NewNop()), clk
}

func amount(v float64) *float64 { return &v }

func TestCreatePaymentIntentDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.CreatePaymentIntent(context.Background(), "auth0|donor", domain.PaymentIntentRequest{Amount: amount(25)})
	require.NoError(t, err)
	assert.Positive(t, resp.ID)
	assert.True(t, strings.HasPrefix(resp.PaymentReference, "pi_"))

	items, err := svc.List(context.Background(), "auth0|donor", pagination.Parse("", ""))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "USD", items[0].Currency)
	assert.Equal(t, domain.StatusPending, items[0].Status)
	assert.Nil(t, items[0].Testimonial)
}

func TestCreatePaymentIntentValidation(t *testing.T) {
	svc, _ := newTestService(t)

	for _, v := range []*float64{nil, amount(0), amount(0.5), amount(-3)} {
		_, err := svc.CreatePaymentIntent(context.Background(), "auth0|donor", domain.PaymentIntentRequest{Amount: v})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}

	_, err := svc.CreatePaymentIntent(context.Background(), "auth0|donor", domain.PaymentIntentRequest{Amount: amount(5), Currency: "dollars"})
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)

	_, err = svc.CreatePaymentIntent(context.Background(), "", domain.PaymentIntentRequest{Amount: amount(5)})
	assert.ErrorIs(t, err, domain.ErrMissingSubject)
}

func TestListDonationsNewestFirstPerUser(t *testing.T) {
	svc, clk := newTestService(t)
	testimonial := "  keep it up  "

	_, err := svc.CreatePaymentIntent(context.Background(), "auth0|donor", domain.PaymentIntentRequest{Amount: amount(10), Currency: "aud"})
	require.NoError(t, err)
	clk.Advance(time.Hour)
	latest, err := svc.CreatePaymentIntent(context.Background(), "auth0|donor", domain.PaymentIntentRequest{Amount: amount(20), Testimonial: &testimonial})
	require.NoError(t, err)
	_, err = svc.CreatePaymentIntent(context.Background(), "auth0|other", domain.PaymentIntentRequest{Amount: amount(30)})
	require.NoError(t, err)

	items, err := svc.List(context.Background(), "auth0|donor", pagination.Parse("", ""))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, latest.ID, items[0].ID)
	assert.Equal(t, "keep it up", *items[0].Testimonial)
	assert.Equal(t, "AUD", items[1].Currency)

	page, err := svc.List(context.Background(), "auth0|donor", pagination.Parse("2", "1"))
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "AUD", page[0].Currency)
}
