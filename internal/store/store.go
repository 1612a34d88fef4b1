package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"printshop-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Orders
	InsertOrder(ctx context.Context, order *model.Order) error
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	GetOrderByNumber(ctx context.Context, shop model.Shop, number string) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID int64) ([]model.Order, error)
	ListShopOrders(ctx context.Context, shop model.Shop, status *model.OrderStatus) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus, completedAt *time.Time) error
	CountInQueue(ctx context.Context, printerID int64) (int64, error)
	ListPrinterQueue(ctx context.Context, printerID int64) ([]model.Order, error)
	RecomputeQueue(ctx context.Context, printerID int64) (int, error)

	// Printers
	ListPrinters(ctx context.Context, shop model.Shop) ([]model.Printer, error)
	GetPrinter(ctx context.Context, id int64) (*model.Printer, error)
	CreatePrinter(ctx context.Context, printer *model.Printer) error
	UpdatePrinter(ctx context.Context, printer *model.Printer) error
	DeletePrinter(ctx context.Context, id int64) error
	CountOutstanding(ctx context.Context, printerID int64) (int64, error)

	// Users
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	SetAccountStatus(ctx context.Context, userID int64, status model.AccountStatus) error
	BanUser(ctx context.Context, userID int64, shop model.Shop) error
	UnbanUser(ctx context.Context, userID int64, shop model.Shop) error
	ListShopAdmins(ctx context.Context, shop model.Shop) ([]model.User, error)

	// Violations
	CreateViolation(ctx context.Context, v *model.Violation) error
	SettleViolation(ctx context.Context, id int64) (*model.Violation, error)
	ListViolations(ctx context.Context, shop model.Shop, resolved *bool) ([]model.Violation, error)

	// Pricing
	ListPricing(ctx context.Context, shop model.Shop) ([]model.Pricing, error)
	UpsertPricing(ctx context.Context, p *model.Pricing) error
	GetPrice(ctx context.Context, shop model.Shop, paperSize string, color model.ColorType) (*model.Pricing, error)

	// Notifications
	CreateNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID int64) error

	// Push subscriptions
	UpsertPushSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeletePushSubscription(ctx context.Context, endpoint string) error
	ListPushSubscriptions(ctx context.Context, userID int64) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for handlers that query directly.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}
