package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of a resource,
// e.g. reversing a journal that was already reversed.
var ErrConflict = errors.New("conflict with current state")

// ErrInternal is returned when an infrastructure failure should not leak details to callers.
var ErrInternal = errors.New("internal error")

// ErrAccountNotFound indicates an account code that does not resolve through the directory.
var ErrAccountNotFound = errors.New("account not found")

// ErrExchangeRateNotFound indicates no rate could be resolved within the lookback window.
var ErrExchangeRateNotFound = errors.New("exchange rate not found")

// ErrUnbalancedJournal indicates journal debits and credits differ beyond tolerance.
// Use errors.As with *UnbalancedJournalError to read the totals.
var ErrUnbalancedJournal = errors.New("journal entries do not balance")

// UnbalancedJournalError carries the base-currency totals of a rejected journal.
type UnbalancedJournalError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal
	Tolerance   decimal.Decimal
}

func (e *UnbalancedJournalError) Error() string {
	return fmt.Sprintf("%s: debits %s, credits %s, difference %s exceeds tolerance %s",
		ErrUnbalancedJournal.Error(), e.TotalDebit.String(), e.TotalCredit.String(),
		e.Difference.String(), e.Tolerance.String())
}

// Is lets errors.Is(err, ErrUnbalancedJournal) match.
func (e *UnbalancedJournalError) Is(target error) bool {
	return target == ErrUnbalancedJournal
}

// AppError wraps an infrastructure error with an HTTP-ish status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// CheckBalanced returns an *UnbalancedJournalError when debit and credit totals differ
// by more than tolerance, and nil otherwise.
func CheckBalanced(totalDebit, totalCredit, tolerance decimal.Decimal) error {
	diff := totalDebit.Sub(totalCredit).Abs()
	if diff.GreaterThan(tolerance) {
		return &UnbalancedJournalError{
			TotalDebit:  totalDebit,
			TotalCredit: totalCredit,
			Difference:  diff,
			Tolerance:   tolerance,
		}
	}
	return nil
}
