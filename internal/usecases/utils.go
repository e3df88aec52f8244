package usecases

import (
	"context"
	"errors"
	"time"

	domainerrors "github.com/pro324test/store-sub001/internal/domain/errors"
)

// storageTimeout bounds every storage round trip made by a usecase; no
// operation may hang on the database.
const storageTimeout = 5 * time.Second

func withStorageTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, storageTimeout)
}

// mapStorageErr surfaces deadline hits as the domain Timeout error and passes
// everything else through.
func mapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domainerrors.ErrTimeout
	}
	return err
}
