package repositories

import (
	"context"
	"time"

	"github.com/pro324test/store-sub001/internal/domain/entities"
)

// OneTimeCodeRepository defines one-time code data operations
type OneTimeCodeRepository interface {
	Create(ctx context.Context, code *entities.OneTimeCode) error
	// GetLatestUnconsumed returns the newest unconsumed code for the pair.
	// Expiry is checked lazily by the caller, not filtered here.
	GetLatestUnconsumed(ctx context.Context, phone string, purpose entities.OtpPurpose) (*entities.OneTimeCode, error)
	// InvalidateUnconsumed marks every unconsumed code of the pair consumed.
	// Generate calls this first so codes replace rather than stack.
	InvalidateUnconsumed(ctx context.Context, phone string, purpose entities.OtpPurpose) error
	// Consume marks the code consumed only if it is still unconsumed and
	// reports whether this call won the consumption.
	Consume(ctx context.Context, id string, now time.Time) (bool, error)
}
