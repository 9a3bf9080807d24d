package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "quantia/internal/errors"
	"quantia/internal/models"
)

// StateBackend enforces the ledger invariants in-process over the GORM
// models. It backs the SQLite driver and tests, where the MySQL stored
// procedures are unavailable; each operation runs inside a single database
// transaction so the mutation and its audit record commit or fail together.
type StateBackend struct {
	db *gorm.DB
}

// NewStateBackend creates a Backend over the given GORM handle.
func NewStateBackend(db *gorm.DB) *StateBackend {
	return &StateBackend{db: db}
}

// Deposit credits the user's balance and records the audit row.
func (b *StateBackend) Deposit(ctx context.Context, p CashParams) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, p.UserID)
		if err != nil {
			return err
		}

		user.Balance = user.Balance.Add(p.Amount)
		if err := tx.Model(user).Update("balance", user.Balance).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return appendAudit(tx, p.UserID, models.TransactionTypeDeposit, p.Amount, p.Description)
	})
}

// Withdraw debits the user's balance, rejecting overdrafts.
func (b *StateBackend) Withdraw(ctx context.Context, p CashParams) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, p.UserID)
		if err != nil {
			return err
		}

		if user.Balance.LessThan(p.Amount) {
			return apperrors.ErrInsufficientFunds
		}

		user.Balance = user.Balance.Sub(p.Amount)
		if err := tx.Model(user).Update("balance", user.Balance).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return appendAudit(tx, p.UserID, models.TransactionTypeWithdrawal, p.Amount, p.Description)
	})
}

// Buy debits the trade total from the balance and adds to the holding,
// keeping the acquisition price as the invested-weighted average.
func (b *StateBackend) Buy(ctx context.Context, p TradeParams) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, p.UserID)
		if err != nil {
			return err
		}
		if err := checkPortfolio(tx, p.UserID, p.PortfolioID); err != nil {
			return err
		}

		total := p.Quantity.Mul(p.Price)
		if user.Balance.LessThan(total) {
			return apperrors.ErrInsufficientFunds
		}

		var holding models.PortfolioAsset
		err = tx.Where("portfolio_id = ? AND asset_symbol = ?", p.PortfolioID, p.Symbol).
			First(&holding).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			holding = models.PortfolioAsset{
				PortfolioID:      p.PortfolioID,
				AssetSymbol:      p.Symbol,
				Quantity:         p.Quantity,
				AcquisitionPrice: p.Price,
				TotalInvested:    total,
			}
			if err := tx.Create(&holding).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		case err != nil:
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		default:
			holding.Quantity = holding.Quantity.Add(p.Quantity)
			holding.TotalInvested = holding.TotalInvested.Add(total)
			holding.AcquisitionPrice = holding.TotalInvested.Div(holding.Quantity).Round(2)
			if err := tx.Model(&holding).Updates(map[string]interface{}{
				"quantity":          holding.Quantity,
				"acquisition_price": holding.AcquisitionPrice,
				"total_invested":    holding.TotalInvested,
			}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		user.Balance = user.Balance.Sub(total)
		if err := tx.Model(user).Update("balance", user.Balance).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return appendAudit(tx, p.UserID, models.TransactionTypeBuy, total,
			"Buy "+p.Quantity.String()+" "+p.Symbol)
	})
}

// Sell reduces the holding and credits the proceeds, rejecting sales beyond
// the held quantity. Fully sold holdings carry zero quantity and zero
// invested amount.
func (b *StateBackend) Sell(ctx context.Context, p TradeParams) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, p.UserID)
		if err != nil {
			return err
		}
		if err := checkPortfolio(tx, p.UserID, p.PortfolioID); err != nil {
			return err
		}

		var holding models.PortfolioAsset
		err = tx.Where("portfolio_id = ? AND asset_symbol = ?", p.PortfolioID, p.Symbol).
			First(&holding).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInsufficientQuantity
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if holding.Quantity.LessThan(p.Quantity) {
			return apperrors.ErrInsufficientQuantity
		}

		proceeds := p.Quantity.Mul(p.Price)
		costReleased := holding.AcquisitionPrice.Mul(p.Quantity)

		holding.Quantity = holding.Quantity.Sub(p.Quantity)
		holding.TotalInvested = holding.TotalInvested.Sub(costReleased)
		if holding.Quantity.IsZero() || holding.TotalInvested.IsNegative() {
			holding.TotalInvested = decimal.Zero
		}
		if holding.Quantity.IsZero() {
			holding.AcquisitionPrice = decimal.Zero
		}
		if err := tx.Model(&holding).Updates(map[string]interface{}{
			"quantity":          holding.Quantity,
			"acquisition_price": holding.AcquisitionPrice,
			"total_invested":    holding.TotalInvested,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		user.Balance = user.Balance.Add(proceeds)
		if err := tx.Model(user).Update("balance", user.Balance).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return appendAudit(tx, p.UserID, models.TransactionTypeSell, proceeds,
			"Sell "+p.Quantity.String()+" "+p.Symbol)
	})
}

func lockUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

func checkPortfolio(tx *gorm.DB, userID, portfolioID uint) error {
	var count int64
	if err := tx.Model(&models.Portfolio{}).
		Where("portfolio_id = ? AND user_id = ?", portfolioID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrPortfolioNotFound
	}
	return nil
}

func appendAudit(tx *gorm.DB, userID uint, txType models.TransactionType, amount decimal.Decimal, description string) error {
	record := models.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Status:      models.TransactionStatusCompleted,
		Description: description,
	}
	if err := tx.Create(&record).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
