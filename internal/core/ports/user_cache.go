package ports

import (
	"context"

	"github.com/adminhub/user-management/internal/core/domain"
)

// UserCache is a read-through cache for token→user resolution, the hottest
// read path (one user load per authenticated request). Implementations must
// never store the password hash. A cache miss or backend failure returns
// (nil, false); callers always fall back to the repository.
type UserCache interface {
	Get(ctx context.Context, id int64) (*domain.User, bool)
	Set(ctx context.Context, user *domain.User)
	Invalidate(ctx context.Context, id int64)
}
