package repository

import (
	"context"
	"errors"

	model "taskforge.app/taskforge/internal/models"
)

var ErrNotFound = errors.New("record not found")

// ChangeNotifier receives an invalidation signal after every successful
// mutation. The signal carries only the affected kind; consumers are
// expected to re-fetch.
type ChangeNotifier interface {
	NotifyChanged(ctx context.Context, kind model.Kind)
}

func notify(ctx context.Context, n ChangeNotifier, kind model.Kind) {
	if n != nil {
		n.NotifyChanged(ctx, kind)
	}
}
