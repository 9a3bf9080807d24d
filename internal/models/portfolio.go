package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio groups a user's holdings. Every user gets one default
// portfolio at registration.
type Portfolio struct {
	ID          uint      `gorm:"column:portfolio_id;primaryKey" json:"portfolio_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"size:100;not null;default:'Main Portfolio'" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Assets []PortfolioAsset `gorm:"foreignKey:PortfolioID" json:"assets,omitempty"`
}

// TableName overrides the default table name.
func (Portfolio) TableName() string { return "portfolios" }

// PortfolioAsset is a holding: the position in one traded symbol within one
// portfolio. Quantity and TotalInvested never go negative; a fully sold
// holding carries zero in both.
type PortfolioAsset struct {
	ID               uint            `gorm:"column:pa_id;primaryKey" json:"pa_id"`
	PortfolioID      uint            `gorm:"not null;uniqueIndex:idx_portfolio_symbol" json:"portfolio_id"`
	AssetSymbol      string          `gorm:"size:10;not null;uniqueIndex:idx_portfolio_symbol" json:"asset_symbol"`
	Quantity         decimal.Decimal `gorm:"type:decimal(15,6);not null;default:0" json:"quantity"`
	AcquisitionPrice decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"acquisition_price"`
	TotalInvested    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_invested"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TableName overrides the default table name.
func (PortfolioAsset) TableName() string { return "portfolio_assets" }
