package visit

import (
	"context"
	"errors"

	"github.com/mx-space/guestbook/internal/models"
)

// ErrStore marks failures of the underlying row store. The engine never
// retries and never falls through to an insert after one.
var ErrStore = errors.New("visit store failure")

// Store is the transactional row store behind the engine.
type Store interface {
	// RefreshOpen sets visited_at on the identity's open anonymous row newer
	// than since. It reports whether such a row was updated.
	RefreshOpen(ctx context.Context, ip string, since, at int64) (bool, error)
	// PromoteOpen attaches author and message to the identity's open
	// anonymous row newer than since, refreshing visited_at.
	PromoteOpen(ctx context.Context, ip string, since int64, author, message string, at int64) (bool, error)
	Insert(ctx context.Context, v *models.Visit) error
	// Transaction runs fn against a Store bound to a single transaction.
	Transaction(ctx context.Context, fn func(Store) error) error
}

// Locker serializes work per key. Unlock must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
