package service

import (
	"regexp"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/rongwang/finance-tracker-server/internal/models"
)

const (
	maxLedgerName        = 100
	maxLedgerDescription = 500
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidMonth reports whether s is a YYYY-MM month with a real month number
func ValidMonth(s string) bool {
	return monthPattern.MatchString(s)
}

func validateTransactionType(t string) error {
	if t != models.TransactionTypeIncome && t != models.TransactionTypeExpense {
		return invalidArgument("Type must be 'income' or 'expense'")
	}
	return nil
}

// Amounts are stored as NUMERIC(19,4)
const amountScale = 4

var maxAmount = decimal.New(1, 19-amountScale)

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalidArgument("Amount must be greater than 0")
	}
	if !amount.Equal(amount.Truncate(amountScale)) {
		return invalidArgument("Amount must have at most %d decimal places", amountScale)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return invalidArgument("Amount must be less than %s", maxAmount.String())
	}
	return nil
}

func validateLedgerName(name string) error {
	if n := utf8.RuneCountInString(name); n < 1 || n > maxLedgerName {
		return invalidArgument("Ledger name must be between 1 and %d characters", maxLedgerName)
	}
	return nil
}

func validateLedgerDescription(desc *string) error {
	if desc != nil && utf8.RuneCountInString(*desc) > maxLedgerDescription {
		return invalidArgument("Ledger description must be at most %d characters", maxLedgerDescription)
	}
	return nil
}

// normalizeCategory folds an empty budget category into "no category".
// Any other value, whitespace included, is matched exactly.
func normalizeCategory(category *string) *string {
	if category == nil || *category == "" {
		return nil
	}
	c := *category
	return &c
}
