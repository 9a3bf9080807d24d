package ledger

import (
	"errors"
	"testing"

	apperrors "quantia/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected *apperrors.AppError
	}{
		{
			name:     "insufficient funds from procedure signal",
			err:      errors.New("Error 1644 (45000): Insufficient funds"),
			expected: apperrors.ErrInsufficientFunds,
		},
		{
			name:     "insufficient quantity from procedure signal",
			err:      errors.New("Error 1644 (45000): Insufficient quantity"),
			expected: apperrors.ErrInsufficientQuantity,
		},
		{
			name:     "case insensitive match",
			err:      errors.New("INSUFFICIENT QUANTITY held"),
			expected: apperrors.ErrInsufficientQuantity,
		},
		{
			name:     "unrelated failure is infrastructure",
			err:      errors.New("Error 2006: MySQL server has gone away"),
			expected: apperrors.ErrInternalServer,
		},
		{
			name:     "deadlock is infrastructure",
			err:      errors.New("Error 1213: Deadlock found when trying to get lock"),
			expected: apperrors.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if !errors.Is(got, tt.expected) {
				t.Errorf("classify(%v) = %v, want %v", tt.err, got, tt.expected)
			}

			// The original failure must stay reachable for logging.
			var appErr *apperrors.AppError
			if !errors.As(got, &appErr) || appErr.Internal == nil {
				t.Errorf("classify(%v) should keep the underlying error", tt.err)
			}
		})
	}
}
