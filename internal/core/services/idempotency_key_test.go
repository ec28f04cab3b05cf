package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/finledger/internal/core/domain"
	"github.com/SscSPs/finledger/internal/core/services"
	"github.com/SscSPs/finledger/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIdempotencyKey(t *testing.T) {
	base := domain.NormalizedRecord{
		AssetClass: domain.ClassMutualFund,
		Activity:   domain.ActivityPurchase,
		AccountRef: "12345678/90",
		Date:       testutil.Date(t, "2024-03-15"),
		Amount:     testutil.Dec(t, "5000.00"),
		Units:      testutil.Dec(t, "123.456"),
		Instrument: "INF109K01Z48",
	}
	key := services.IdempotencyKey(base, "INR")

	assert.True(t, strings.HasPrefix(key, "MUTUAL_FUND:"))
	assert.Len(t, key, len("MUTUAL_FUND:")+64)

	same := []struct {
		name   string
		mutate func(*domain.NormalizedRecord)
	}{
		{"trailing zeros", func(r *domain.NormalizedRecord) { r.Amount = testutil.Dec(t, "5000") }},
		{"explicit base currency", func(r *domain.NormalizedRecord) { r.CurrencyCode = "INR" }},
		{"account ref case and spaces", func(r *domain.NormalizedRecord) { r.AccountRef = " 12345678/90 " }},
		{"instrument case", func(r *domain.NormalizedRecord) { r.Instrument = "inf109k01z48" }},
		{"time of day", func(r *domain.NormalizedRecord) { r.Date = r.Date.Add(13 * time.Hour) }},
		{"description", func(r *domain.NormalizedRecord) { r.Description = "SIP instalment" }},
		{"fees", func(r *domain.NormalizedRecord) { r.Fees = testutil.Dec(t, "0.25") }},
	}
	for _, tt := range same {
		t.Run("same/"+tt.name, func(t *testing.T) {
			rec := base
			tt.mutate(&rec)
			assert.Equal(t, key, services.IdempotencyKey(rec, "INR"))
		})
	}

	different := []struct {
		name   string
		mutate func(*domain.NormalizedRecord)
	}{
		{"activity", func(r *domain.NormalizedRecord) { r.Activity = domain.ActivityRedemption }},
		{"date", func(r *domain.NormalizedRecord) { r.Date = r.Date.AddDate(0, 0, 1) }},
		{"amount", func(r *domain.NormalizedRecord) { r.Amount = testutil.Dec(t, "5000.01") }},
		{"units", func(r *domain.NormalizedRecord) { r.Units = testutil.Dec(t, "123.457") }},
		{"currency", func(r *domain.NormalizedRecord) { r.CurrencyCode = "USD" }},
		{"account ref", func(r *domain.NormalizedRecord) { r.AccountRef = "12345678/91" }},
		{"reference", func(r *domain.NormalizedRecord) { r.Reference = "TXN-2" }},
	}
	for _, tt := range different {
		t.Run("different/"+tt.name, func(t *testing.T) {
			rec := base
			tt.mutate(&rec)
			assert.NotEqual(t, key, services.IdempotencyKey(rec, "INR"))
		})
	}
}
