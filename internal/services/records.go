package services

import (
	"time"

	"github.com/shopspring/decimal"

	"quantia/internal/models"
)

// API-facing records. Monetary and quantity columns are stored as
// fixed-point decimals; toAmount is the single place where they are coerced
// to float64 on the way out. Nothing else in the codebase converts money.

// toAmount converts a stored fixed-point value to its API float representation.
func toAmount(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// UserRecord is the normalized user view returned by the directory.
type UserRecord struct {
	UserID    uint             `json:"user_id"`
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	RiskLevel models.RiskLevel `json:"risk_level"`
	Balance   float64          `json:"balance"`
}

func newUserRecord(u *models.User) *UserRecord {
	return &UserRecord{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		RiskLevel: u.RiskLevel,
		Balance:   toAmount(u.Balance),
	}
}

// TransactionRecord is one row of the audit trail.
type TransactionRecord struct {
	TransactionID   uint                     `json:"transaction_id"`
	UserID          uint                     `json:"user_id"`
	Type            models.TransactionType   `json:"type"`
	Amount          float64                  `json:"amount"`
	TransactionDate time.Time                `json:"transaction_date"`
	Status          models.TransactionStatus `json:"status"`
	Description     string                   `json:"description"`
}

func newTransactionRecord(t *models.Transaction) TransactionRecord {
	return TransactionRecord{
		TransactionID:   t.ID,
		UserID:          t.UserID,
		Type:            t.Type,
		Amount:          toAmount(t.Amount),
		TransactionDate: t.TransactionDate,
		Status:          t.Status,
		Description:     t.Description,
	}
}

// PortfolioRecord is a portfolio enriched with holding aggregates.
type PortfolioRecord struct {
	PortfolioID   uint      `json:"portfolio_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	AssetsCount   int64     `json:"assets_count"`
	TotalInvested float64   `json:"total_invested"`
}

// HoldingRecord is one normalized holding.
type HoldingRecord struct {
	PaID             uint      `json:"pa_id"`
	AssetSymbol      string    `json:"asset_symbol"`
	Quantity         float64   `json:"quantity"`
	AcquisitionPrice float64   `json:"acquisition_price"`
	TotalInvested    float64   `json:"total_invested"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newHoldingRecord(a *models.PortfolioAsset) HoldingRecord {
	return HoldingRecord{
		PaID:             a.ID,
		AssetSymbol:      a.AssetSymbol,
		Quantity:         toAmount(a.Quantity),
		AcquisitionPrice: toAmount(a.AcquisitionPrice),
		TotalInvested:    toAmount(a.TotalInvested),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// PortfolioRef identifies the portfolio a holdings listing belongs to.
type PortfolioRef struct {
	PortfolioID uint   `json:"portfolio_id"`
	Name        string `json:"name"`
}

// PortfolioAssetsRecord is the holdings listing for one portfolio.
// TotalValue is the sum of each holding's TotalInvested.
type PortfolioAssetsRecord struct {
	Portfolio  PortfolioRef    `json:"portfolio"`
	Assets     []HoldingRecord `json:"assets"`
	Count      int             `json:"count"`
	TotalValue float64         `json:"total_value"`
}

// CashReceipt confirms a deposit or withdrawal.
type CashReceipt struct {
	Amount float64 `json:"amount"`
}

// TradeReceipt confirms a buy or sell.
type TradeReceipt struct {
	Asset    string  `json:"asset"`
	Quantity float64 `json:"quantity"`
	Total    float64 `json:"total"`
}
