// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("risk_level", validateRiskLevel)
		_ = v.RegisterValidation("bar_interval", validateBarInterval)
		_ = v.RegisterValidation("news_category", validateNewsCategory)
	}
}

func validateRiskLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "conservative", "moderate", "aggressive":
		return true
	}
	return false
}

func validateBarInterval(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h":
		return true
	}
	return false
}

func validateNewsCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "general", "markets", "economy", "crypto", "banking":
		return true
	}
	return false
}
