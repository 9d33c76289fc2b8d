package models

import (
	"github.com/shopspring/decimal"
)

// Request models
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	AvatarPath *string `json:"avatar_path" binding:"omitempty,max=255"`
}

type CreateLedgerRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// UpdateLedgerRequest fields are optional; an absent or null key leaves the stored value alone.
type UpdateLedgerRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type CreateTransactionRequest struct {
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Category    string          `json:"category" binding:"required,max=100"`
	Description *string         `json:"description" binding:"omitempty,max=500"`
	ImagePath   *string         `json:"image_path" binding:"omitempty,max=255"`
	Date        *DateTime       `json:"date"`
}

// UpdateTransactionRequest fields are optional; an absent or null key leaves the stored value alone.
type UpdateTransactionRequest struct {
	Type        *string          `json:"type"`
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,gt=0"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	ImagePath   *string          `json:"image_path" binding:"omitempty,max=255"`
	Date        *DateTime        `json:"date"`
}

type ListLedgersQuery struct {
	Skip  int `form:"skip" binding:"gte=0"`
	Limit int `form:"limit,default=100" binding:"gte=1,lte=1000"`
}

type ListTransactionsQuery struct {
	Skip      int    `form:"skip" binding:"gte=0"`
	Limit     int    `form:"limit,default=100" binding:"gte=1,lte=1000"`
	Type      string `form:"type"`
	Category  string `form:"category"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type SummaryQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type SetBudgetRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Category *string         `json:"category" binding:"omitempty,max=100"`
	Month    string          `json:"month" binding:"required,yyyymm"`
}

type ListBudgetsQuery struct {
	Month string `form:"month" binding:"required,yyyymm"`
}

// Response models
type RegisterResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type LedgerListResponse struct {
	Total int64    `json:"total"`
	Items []Ledger `json:"items"`
}

type TransactionListResponse struct {
	Total int64         `json:"total"`
	Items []Transaction `json:"items"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
