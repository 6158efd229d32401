package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tiendago/backend/internal/domain"
	"github.com/tiendago/backend/internal/port"
)

const (
	lowStockThreshold   = 10
	recentActivityLimit = 5
)

// AdminService is the privileged back-office collaborator. It is the
// only component allowed to mutate a placed order's status fields.
type AdminService struct {
	orders   port.OrderAdminStore
	users    port.UserAdminStore
	products port.ProductAdminStore
	cache    port.CatalogCache
	events   port.OrderEventPublisher
}

func NewAdminService(orders port.OrderAdminStore, users port.UserAdminStore, products port.ProductAdminStore, cache port.CatalogCache, events port.OrderEventPublisher) *AdminService {
	return &AdminService{
		orders:   orders,
		users:    users,
		products: products,
		cache:    cache,
		events:   events,
	}
}

type DashboardStats struct {
	Orders   domain.OrderStats
	Users    domain.UserStats
	Products domain.ProductStats
}

func (s *AdminService) DashboardStats(ctx context.Context) (DashboardStats, error) {
	orderStats, err := s.orders.OrderStats(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	userStats, err := s.users.UserStats(ctx, time.Now().AddDate(0, -1, 0))
	if err != nil {
		return DashboardStats{}, err
	}
	productStats, err := s.products.ProductStats(ctx, lowStockThreshold)
	if err != nil {
		return DashboardStats{}, err
	}
	return DashboardStats{Orders: orderStats, Users: userStats, Products: productStats}, nil
}

func (s *AdminService) RecentActivity(ctx context.Context) ([]domain.Order, []domain.User, error) {
	orders, err := s.orders.RecentOrders(ctx, recentActivityLimit)
	if err != nil {
		return nil, nil, err
	}
	users, err := s.users.RecentUsers(ctx, recentActivityLimit)
	if err != nil {
		return nil, nil, err
	}
	return orders, users, nil
}

func (s *AdminService) ListProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	normalizePaging(&filter)
	return s.products.List(ctx, filter)
}

func (s *AdminService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *AdminService) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	product, err := s.products.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.flushCatalogCache(ctx)
	return product, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, id int64, input domain.ProductInput) (*domain.Product, error) {
	product, err := s.products.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.flushCatalogCache(ctx)
	return product, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.flushCatalogCache(ctx)
	return nil
}

func (s *AdminService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	return s.orders.ListAll(ctx, filter)
}

func (s *AdminService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, id int64, patch domain.OrderStatusPatch) (*domain.Order, error) {
	order, err := s.orders.UpdateStatus(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		if err := s.events.PublishOrderStatusChanged(order); err != nil {
			log.Printf("Order status event publish error: OrderID=%d, err=%v", order.ID, err)
		}
	}
	return order, nil
}

func (s *AdminService) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	return s.users.List(ctx, filter)
}

func (s *AdminService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AdminService) UpdateUser(ctx context.Context, id int64, update domain.UserUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.Active != nil {
		user.Active = *update.Active
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *AdminService) flushCatalogCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Flush(ctx); err != nil {
		log.Printf("Catalog cache flush error: %v", err)
	}
}
