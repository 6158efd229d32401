package port

import (
	"context"
	"time"

	"github.com/tiendago/backend/internal/domain"
)

// OrderStore is the single write/read entry point for orders. All order
// mutation goes through CreateOrder's transaction; no other component
// writes these rows.
type OrderStore interface {
	// OrderNumberExists is the pre-check used by the number generator.
	// The unique constraint enforced inside CreateOrder is the
	// authoritative guard.
	OrderNumberExists(ctx context.Context, number string) (bool, error)
	// CreateOrder persists the header, every line item and, when
	// shipping is non-nil, the merged address snapshot in one
	// transaction. It assigns order.ID and item IDs on success and
	// returns domain.ErrOrderNumberTaken when the order number lost a
	// uniqueness race.
	CreateOrder(ctx context.Context, order *domain.Order, shipping *domain.AddressPatch) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	GetForUser(ctx context.Context, userID, orderID int64) (*domain.Order, error)
}

// OrderAdminStore is the privileged read/update side used by the
// back-office. No ownership checks apply.
type OrderAdminStore interface {
	ListAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, patch domain.OrderStatusPatch) (*domain.Order, error)
	OrderStats(ctx context.Context) (domain.OrderStats, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.Order, error)
}

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type UserAdminStore interface {
	UserStore
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	UserStats(ctx context.Context, since time.Time) (domain.UserStats, error)
	RecentUsers(ctx context.Context, limit int) ([]domain.User, error)
}

type ProfileStore interface {
	// GetByUserID returns domain.ErrNotFound when no profile row exists.
	GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}

type ProductStore interface {
	List(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Featured(ctx context.Context, limit int) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.CategoryCount, error)
	Related(ctx context.Context, product *domain.Product, exclude []int64, limit int) ([]domain.Product, error)
}

type ProductAdminStore interface {
	ProductStore
	Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	ProductStats(ctx context.Context, lowStockBelow int) (domain.ProductStats, error)
}
