package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"printshop-backend/internal/model"
)

// InsertOrder persists a new order. The unique index on the order number is
// the real uniqueness guard; a gorm.ErrDuplicatedKey return means the caller
// must regenerate the number and retry.
func (s *gormStore) InsertOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Omit("User", "Printer").Create(order).Error
}

// GetOrder fetches a single order with its user and printer resolved.
func (s *gormStore) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("User.Bans").
		Preload("Printer").
		Preload("Printer.PaperSizes").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByNumber fetches one shop's order by its human-readable number.
func (s *gormStore) GetOrderByNumber(ctx context.Context, shop model.Shop, number string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Printer").
		Where("shop = ? AND number = ?", shop, number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListUserOrders returns all orders owned by a user, newest first.
func (s *gormStore) ListUserOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("Printer").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

// ListShopOrders returns a shop's orders, optionally filtered by status.
// In-queue orders come out in queue order, everything else newest first.
func (s *gormStore) ListShopOrders(ctx context.Context, shop model.Shop, status *model.OrderStatus) ([]model.Order, error) {
	q := s.db.WithContext(ctx).
		Preload("User").
		Preload("Printer").
		Where("shop = ?", shop)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var orders []model.Order
	err := q.Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, err
}

// UpdateOrderStatus sets an order's status and, when provided, its completion
// timestamp. Queue positions are not touched here; callers follow up with
// RecomputeQueue on the order's printer.
func (s *gormStore) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus, completedAt *time.Time) error {
	updates := map[string]any{"status": status}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	res := s.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountInQueue returns the number of "In Queue" orders on a printer from a
// fresh count query.
func (s *gormStore) CountInQueue(ctx context.Context, printerID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("printer_id = ? AND status = ?", printerID, model.StatusInQueue).
		Count(&count).Error
	return count, err
}

// ListPrinterQueue returns the "In Queue" orders on a printer in queue order.
func (s *gormStore) ListPrinterQueue(ctx context.Context, printerID int64) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Where("printer_id = ? AND status = ?", printerID, model.StatusInQueue).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	return orders, err
}

// RecomputeQueue rederives every queue position on one printer and refreshes
// the printer's cached queue count, all in one transaction. In-queue orders
// get contiguous positions 1..N ordered by (created_at, id); all other orders
// on the printer get position 0. The operation is idempotent and touches no
// other printer.
func (s *gormStore) RecomputeQueue(ctx context.Context, printerID int64) (int, error) {
	var count int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inQueue []model.Order
		if err := tx.
			Where("printer_id = ? AND status = ?", printerID, model.StatusInQueue).
			Order("created_at ASC, id ASC").
			Find(&inQueue).Error; err != nil {
			return fmt.Errorf("failed to fetch in-queue orders for printer %d: %w", printerID, err)
		}

		for i, o := range inQueue {
			pos := i + 1
			if o.QueuePosition == pos {
				continue
			}
			if err := tx.Model(&model.Order{}).
				Where("id = ?", o.ID).
				Update("queue_position", pos).Error; err != nil {
				return fmt.Errorf("failed to set queue position for order %d: %w", o.ID, err)
			}
		}

		if err := tx.Model(&model.Order{}).
			Where("printer_id = ? AND status <> ? AND queue_position <> 0", printerID, model.StatusInQueue).
			Update("queue_position", 0).Error; err != nil {
			return fmt.Errorf("failed to reset positions for printer %d: %w", printerID, err)
		}

		count = len(inQueue)
		if err := tx.Model(&model.Printer{}).
			Where("id = ?", printerID).
			Update("queue_count", count).Error; err != nil {
			return fmt.Errorf("failed to refresh queue count for printer %d: %w", printerID, err)
		}
		return nil
	})
	return count, err
}
