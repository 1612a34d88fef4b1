package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"printshop-backend/internal/model"
	"printshop-backend/internal/realtime"
)

// ApproveAccount marks a pending account approved and notifies the user.
func (s *Service) ApproveAccount(ctx context.Context, userID int64) (*model.User, error) {
	if err := s.store.SetAccountStatus(ctx, userID, model.AccountApproved); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user %d does not exist", userID)
		}
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.publish(realtime.UserRoom(userID), realtime.EventAccountApproved, user)
	s.notifier.Notify([]int64{userID}, "Account approved",
		"Your account has been approved. You can now place print orders.")
	return user, nil
}

// DeclineAccount marks a pending account declined.
func (s *Service) DeclineAccount(ctx context.Context, userID int64) (*model.User, error) {
	if err := s.store.SetAccountStatus(ctx, userID, model.AccountDeclined); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user %d does not exist", userID)
		}
		return nil, err
	}
	return s.store.GetUser(ctx, userID)
}

// BanUser bars a user from one shop. Banning twice is a no-op.
func (s *Service) BanUser(ctx context.Context, shop model.Shop, userID int64) (*model.User, error) {
	if !shop.Valid() {
		return nil, validationf("unknown shop %q", shop)
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user %d does not exist", userID)
		}
		return nil, err
	}
	if err := s.store.BanUser(ctx, userID, shop); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.publish(realtime.UserRoom(userID), realtime.EventUserBanned, user)
	s.publish(shop.AdminRoom(), realtime.EventUserBanned, user)
	s.notifier.Notify([]int64{userID}, "Shop ban",
		fmt.Sprintf("You have been banned from the %s shop.", shop))
	return user, nil
}

// UnbanUser lifts a shop ban. Unbanning a user who is not banned is a no-op.
func (s *Service) UnbanUser(ctx context.Context, shop model.Shop, userID int64) (*model.User, error) {
	if !shop.Valid() {
		return nil, validationf("unknown shop %q", shop)
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user %d does not exist", userID)
		}
		return nil, err
	}
	if err := s.store.UnbanUser(ctx, userID, shop); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.publish(realtime.UserRoom(userID), realtime.EventUserUnbanned, user)
	s.publish(shop.AdminRoom(), realtime.EventUserUnbanned, user)
	s.notifier.Notify([]int64{userID}, "Shop ban lifted",
		fmt.Sprintf("Your ban from the %s shop has been lifted.", shop))
	return user, nil
}
