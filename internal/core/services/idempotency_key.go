package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/SscSPs/finledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// keyFieldSeparator cannot appear in any normalized field.
const keyFieldSeparator = "\x1f"

func normalizeDecimal(d decimal.Decimal) string {
	if d.IsZero() {
		return "0"
	}
	return d.String()
}

// IdempotencyKey fingerprints the logical event a record describes. Two records describing
// the same event produce the same key whichever file or run they come from: decimals are
// compared by value, text by trimmed upper-cased content, and a missing currency means base.
func IdempotencyKey(rec domain.NormalizedRecord, baseCurrency string) string {
	currency := strings.ToUpper(strings.TrimSpace(rec.CurrencyCode))
	if currency == "" {
		currency = strings.ToUpper(baseCurrency)
	}

	fields := []string{
		strings.ToUpper(string(rec.AssetClass)),
		strings.ToUpper(string(rec.Activity)),
		strings.ToUpper(strings.TrimSpace(rec.AccountRef)),
		domain.DateOf(rec.Date).Format(domain.DateLayout),
		normalizeDecimal(rec.Amount),
		normalizeDecimal(rec.Units),
		currency,
		strings.ToUpper(strings.TrimSpace(rec.Instrument)),
		strings.TrimSpace(rec.Reference),
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, keyFieldSeparator)))
	return strings.ToUpper(string(rec.AssetClass)) + ":" + hex.EncodeToString(sum[:])
}
