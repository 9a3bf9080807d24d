package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "quantia/internal/errors"
	"quantia/internal/models"
)

// authService handles registration and credential checks.
type authService struct {
	db *gorm.DB
}

// NewAuthService creates a new AuthServicer.
func NewAuthService(db *gorm.DB) AuthServicer {
	return &authService{db: db}
}

// Register creates a new user together with its default portfolio. Both
// inserts run in one transaction: a failure between them creates neither.
func (s *authService) Register(username, password, email string) (*models.User, error) {
	if username == "" || password == "" || email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"username, password and email are required to register")
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateUser
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username:  username,
		Password:  string(hashedPassword),
		Email:     strings.ToLower(email),
		RiskLevel: models.RiskModerate,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Create(user).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		portfolio := &models.Portfolio{
			UserID: user.ID,
			Name:   "Main Portfolio",
		}
		if txErr := tx.Create(portfolio).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks the submitted credentials against the stored record.
func (s *authService) Login(username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"username and password are required for login")
	}

	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return &user, nil
}
