package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printshop-backend/internal/model"
)

// CreateNotification persists a notification for one user.
func (s *gormStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

// ListNotifications returns a user's notifications, newest first.
func (s *gormStore) ListNotifications(ctx context.Context, userID int64) ([]model.Notification, error) {
	var notifications []model.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkNotificationRead flags one of the user's own notifications as read.
func (s *gormStore) MarkNotificationRead(ctx context.Context, id, userID int64) error {
	res := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertPushSubscription creates or refreshes a browser push subscription.
func (s *gormStore) UpsertPushSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
	}).Create(sub).Error
}

// DeletePushSubscription removes a subscription by endpoint.
func (s *gormStore) DeletePushSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

// ListPushSubscriptions returns all push subscriptions registered by a user.
func (s *gormStore) ListPushSubscriptions(ctx context.Context, userID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error
	return subs, err
}
