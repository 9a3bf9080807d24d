package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel classifies a user's investing profile.
type RiskLevel string

const (
	RiskConservative RiskLevel = "conservative"
	RiskModerate     RiskLevel = "moderate"
	RiskAggressive   RiskLevel = "aggressive"
)

// User represents the user model in the database. Balance is the
// authoritative monetary amount; it is mutated only by ledger operations.
type User struct {
	ID        uint            `gorm:"column:user_id;primaryKey" json:"user_id"`
	Username  string          `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password  string          `gorm:"size:100;not null" json:"-"`
	Email     string          `gorm:"size:100;uniqueIndex;not null" json:"email"`
	RiskLevel RiskLevel       `gorm:"size:20;not null;default:moderate" json:"risk_level"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Portfolios   []Portfolio   `gorm:"foreignKey:UserID" json:"portfolios,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }
