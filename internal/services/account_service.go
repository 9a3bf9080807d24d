package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"quantia/internal/database"
	apperrors "quantia/internal/errors"
	"quantia/internal/models"
	"quantia/internal/pagination"
)

// accountService handles the read side of the ledger.
type accountService struct {
	db      *gorm.DB
	manager *database.Manager
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB, manager *database.Manager) AccountServicer {
	return &accountService{db: db, manager: manager}
}

// CheckConnection proves a round trip to the database works.
func (s *accountService) CheckConnection(ctx context.Context) error {
	if err := s.manager.CheckConnection(ctx); err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseUnavailable, err)
	}
	return nil
}

// GetUserByID returns the normalized user record.
func (s *accountService) GetUserByID(id uint) (*UserRecord, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return newUserRecord(&user), nil
}

// GetUserByEmail returns the normalized user record for the given email.
func (s *accountService) GetUserByEmail(email string) (*UserRecord, error) {
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a valid email is required")
	}

	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return newUserRecord(&user), nil
}

// ListTransactions returns a page of the user's audit trail, most recent
// first, plus the full count for pagination.
func (s *accountService) ListTransactions(userID uint, page pagination.PageRequest) (*pagination.PageResponse[TransactionRecord], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("transaction_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	records := make([]TransactionRecord, 0, len(transactions))
	for i := range transactions {
		records = append(records, newTransactionRecord(&transactions[i]))
	}

	result := pagination.NewPageResponse(records, total)
	return &result, nil
}

// ListPortfolios returns the user's portfolios enriched with the holding
// count and total invested across each portfolio's holdings.
func (s *accountService) ListPortfolios(userID uint) ([]PortfolioRecord, error) {
	var exists int64
	if err := s.db.Model(&models.User{}).Where("user_id = ?", userID).Count(&exists).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if exists == 0 {
		return nil, apperrors.ErrUserNotFound
	}

	var portfolios []models.Portfolio
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&portfolios).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type aggRow struct {
		PortfolioID   uint
		AssetsCount   int64
		TotalInvested decimal.Decimal
	}
	var aggs []aggRow
	if err := s.db.Model(&models.PortfolioAsset{}).
		Select("portfolio_id, COUNT(pa_id) AS assets_count, COALESCE(SUM(total_invested), 0) AS total_invested").
		Where("portfolio_id IN (?)", s.db.Model(&models.Portfolio{}).
			Select("portfolio_id").Where("user_id = ?", userID)).
		Group("portfolio_id").
		Scan(&aggs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byPortfolio := make(map[uint]aggRow, len(aggs))
	for _, a := range aggs {
		byPortfolio[a.PortfolioID] = a
	}

	records := make([]PortfolioRecord, 0, len(portfolios))
	for i := range portfolios {
		p := &portfolios[i]
		agg := byPortfolio[p.ID]
		records = append(records, PortfolioRecord{
			PortfolioID:   p.ID,
			Name:          p.Name,
			Description:   p.Description,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
			AssetsCount:   agg.AssetsCount,
			TotalInvested: toAmount(agg.TotalInvested),
		})
	}

	return records, nil
}

// GetPortfolioAssets returns the portfolio's holdings ordered by symbol,
// with the computed total value.
func (s *accountService) GetPortfolioAssets(portfolioID uint) (*PortfolioAssetsRecord, error) {
	var portfolio models.Portfolio
	if err := s.db.First(&portfolio, portfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.PortfolioAsset
	if err := s.db.Where("portfolio_id = ?", portfolioID).
		Order("asset_symbol ASC").
		Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	records := make([]HoldingRecord, 0, len(assets))
	totalValue := decimal.Zero
	for i := range assets {
		records = append(records, newHoldingRecord(&assets[i]))
		totalValue = totalValue.Add(assets[i].TotalInvested)
	}

	return &PortfolioAssetsRecord{
		Portfolio:  PortfolioRef{PortfolioID: portfolio.ID, Name: portfolio.Name},
		Assets:     records,
		Count:      len(records),
		TotalValue: toAmount(totalValue),
	}, nil
}
