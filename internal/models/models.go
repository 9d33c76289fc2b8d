package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction types
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// User represents a user in the system
type User struct {
	ID         int64     `db:"id" json:"id"`
	Username   string    `db:"username" json:"username"`
	Password   string    `db:"password" json:"-"` // Password hash, not returned in JSON
	AvatarPath *string   `db:"avatar_path" json:"avatar_path"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Ledger is a named grouping container owned by a single user.
// Ledgers are not linked to transactions.
type Ledger struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is a single income or expense record
type Transaction struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"user_id"`
	Type        string          `db:"type" json:"type"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Category    string          `db:"category" json:"category"`
	Description *string         `db:"description" json:"description"`
	ImagePath   *string         `db:"image_path" json:"image_path"`
	Date        time.Time       `db:"date" json:"date"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Budget is a monthly spending cap. A nil Category is the whole-month budget.
type Budget struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Month     string          `db:"month" json:"month"`
	Category  *string         `db:"category" json:"category"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// TransactionSummary aggregates a user's transactions over a date range
type TransactionSummary struct {
	TotalIncome  decimal.Decimal `db:"total_income" json:"total_income"`
	TotalExpense decimal.Decimal `db:"total_expense" json:"total_expense"`
	Balance      decimal.Decimal `db:"-" json:"balance"`
}

// TransactionFilter holds the optional, conjunctive filters of a transaction listing
type TransactionFilter struct {
	Type      *string
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

// Page is a skip/limit window over an id-ordered listing
type Page struct {
	Skip  int
	Limit int
}

// LedgerPatch carries the fields of a partial ledger update. Nil means "leave unchanged".
type LedgerPatch struct {
	Name        *string
	Description *string
}

// TransactionPatch carries the fields of a partial transaction update. Nil means "leave unchanged".
type TransactionPatch struct {
	Type        *string
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	ImagePath   *string
	Date        *time.Time
}
