package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"printshop-backend/internal/model"
	"printshop-backend/internal/ordernum"
	"printshop-backend/internal/realtime"
)

// maxNumberAttempts bounds the generate-and-retry loop for order numbers. The
// storage unique index is the real guard; this only limits wasted round trips
// when the 4-digit space gets crowded.
const maxNumberAttempts = 10

// forwardTransitions is the strict state machine for admin status updates.
// Cancellation is a student operation and is not reachable from here.
var forwardTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.StatusInQueue:               {model.StatusPrinting},
	model.StatusPrinting:              {model.StatusReadyForPickup, model.StatusReadyForPickupPayment},
	model.StatusReadyForPickup:        {model.StatusCompleted},
	model.StatusReadyForPickupPayment: {model.StatusCompleted},
}

func transitionAllowed(from, to model.OrderStatus) bool {
	for _, next := range forwardTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CreateOrderRequest carries the student's input for a new print job.
type CreateOrderRequest struct {
	PrinterID   int64
	FileName    string
	FileKey     string
	PaperSize   string
	Orientation model.Orientation
	ColorType   model.ColorType
	Copies      int
}

func (r *CreateOrderRequest) validate() error {
	if r.FileName == "" || r.FileKey == "" {
		return validationf("a file is required")
	}
	if r.PaperSize == "" {
		return validationf("paper size is required")
	}
	if r.Orientation != model.OrientationPortrait && r.Orientation != model.OrientationLandscape {
		return validationf("unknown orientation %q", r.Orientation)
	}
	if r.ColorType != model.ColorBlackAndWhite && r.ColorType != model.ColorColored {
		return validationf("unknown color type %q", r.ColorType)
	}
	if r.Copies < 1 {
		return validationf("copies must be at least 1")
	}
	return nil
}

// CreateOrder validates the request against the printer and the user's
// standing, persists the order "In Queue", recomputes the printer's queue,
// and emits order_created / new_order / printer_updated.
func (s *Service) CreateOrder(ctx context.Context, userID int64, req CreateOrderRequest) (*model.Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user %d does not exist", userID)
		}
		return nil, err
	}
	if user.AccountStatus != model.AccountApproved {
		return nil, forbiddenf("account is not approved")
	}

	printer, err := s.store.GetPrinter(ctx, req.PrinterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("printer %d does not exist", req.PrinterID)
		}
		return nil, err
	}
	if user.BannedFrom(printer.Shop) {
		return nil, forbiddenf("you are banned from the %s shop", printer.Shop)
	}
	if printer.Status != model.PrinterActive {
		return nil, validationf("printer %q is %s", printer.Name, printer.Status)
	}
	if !printer.PaperSizeEnabled(req.PaperSize) {
		return nil, validationf("paper size %q is not available on printer %q", req.PaperSize, printer.Name)
	}

	// The position here is only an estimate; concurrent creations can race
	// it and the recompute below settles the real value.
	inQueue, err := s.store.CountInQueue(ctx, printer.ID)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		UserID:        user.ID,
		PrinterID:     printer.ID,
		Shop:          printer.Shop,
		FileName:      req.FileName,
		FileKey:       req.FileKey,
		PaperSize:     req.PaperSize,
		Orientation:   req.Orientation,
		ColorType:     req.ColorType,
		Copies:        req.Copies,
		Status:        model.StatusInQueue,
		QueuePosition: int(inQueue) + 1,
		CreatedAt:     time.Now().UTC(),
	}

	for attempt := 0; ; attempt++ {
		order.Number = ordernum.Generate()
		err = s.store.InsertOrder(ctx, order)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt+1 < maxNumberAttempts {
			continue
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("could not allocate a unique order number")
		}
		return nil, err
	}

	if _, err := s.store.RecomputeQueue(ctx, printer.ID); err != nil {
		return nil, err
	}
	s.metrics.OrdersCreated.Inc()

	full, err := s.store.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.publish(realtime.UserRoom(user.ID), realtime.EventOrderCreated, full)
	s.publish(printer.Shop.AdminRoom(), realtime.EventNewOrder, full)
	s.publishPrinterUpdated(ctx, printer.ID)

	s.notifier.Notify([]int64{user.ID}, "Order placed",
		fmt.Sprintf("Order #%s is in queue at position %d.", full.Number, full.QueuePosition))
	s.notifyShopAdmins(ctx, printer.Shop, "New order",
		fmt.Sprintf("Order #%s was placed on %s.", full.Number, printer.Name))

	return full, nil
}

// ListMyOrders returns the user's orders. Positions are live values from the
// last recompute: meaningful for "In Queue" orders, 0 for everything else.
func (s *Service) ListMyOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.store.ListUserOrders(ctx, userID)
}

// AdminGetOrderByNumber resolves the number a student reads out at the
// counter to the caller's shop's order.
func (s *Service) AdminGetOrderByNumber(ctx context.Context, shop model.Shop, number string) (*model.Order, error) {
	if !shop.Valid() {
		return nil, validationf("unknown shop %q", shop)
	}
	if !ordernum.Valid(number) {
		return nil, validationf("malformed order number %q", number)
	}
	order, err := s.store.GetOrderByNumber(ctx, shop, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("no order #%s in the %s shop", number, shop)
		}
		return nil, err
	}
	return order, nil
}

// AdminListOrders returns a shop's orders, optionally filtered by status.
func (s *Service) AdminListOrders(ctx context.Context, shop model.Shop, status *model.OrderStatus) ([]model.Order, error) {
	if !shop.Valid() {
		return nil, validationf("unknown shop %q", shop)
	}
	return s.store.ListShopOrders(ctx, shop, status)
}

// CancelOrder cancels one of the requesting user's own orders. Only "In
// Queue" orders can be cancelled; once printing has started the job is the
// shop's to finish.
func (s *Service) CancelOrder(ctx context.Context, userID, orderID int64) (*model.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("order %d does not exist", orderID)
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, forbiddenf("order #%s belongs to another user", order.Number)
	}
	if order.Status != model.StatusInQueue {
		return nil, conflictf("order #%s is %s and can no longer be cancelled", order.Number, order.Status)
	}

	if err := s.store.UpdateOrderStatus(ctx, order.ID, model.StatusCancelled, nil); err != nil {
		return nil, err
	}
	if _, err := s.store.RecomputeQueue(ctx, order.PrinterID); err != nil {
		return nil, err
	}
	s.metrics.OrdersCancelled.Inc()

	full, err := s.store.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.publish(realtime.UserRoom(userID), realtime.EventOrderCancelled, full)
	s.publish(order.Shop.AdminRoom(), realtime.EventOrderCancelled, full)
	s.publishPrinterUpdated(ctx, order.PrinterID)
	s.publishQueuePositions(ctx, &full.Printer)

	s.notifier.Notify([]int64{userID}, "Order cancelled",
		fmt.Sprintf("Order #%s was cancelled.", full.Number))
	s.notifyShopAdmins(ctx, order.Shop, "Order cancelled",
		fmt.Sprintf("Order #%s was cancelled by its owner.", full.Number))

	return full, nil
}

// AdminUpdateOrderStatus moves an order along the forward state machine.
// The pickup-ready label must match the order's shop; any other transition
// out of the current state is rejected.
func (s *Service) AdminUpdateOrderStatus(ctx context.Context, orderID int64, newStatus model.OrderStatus) (*model.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("order %d does not exist", orderID)
		}
		return nil, err
	}

	if newStatus == model.StatusReadyForPickup || newStatus == model.StatusReadyForPickupPayment {
		if newStatus != model.ReadyStatusFor(order.Shop) {
			return nil, validationf("status %q does not apply to the %s shop", newStatus, order.Shop)
		}
	}
	if !transitionAllowed(order.Status, newStatus) {
		return nil, conflictf("order #%s cannot move from %s to %s", order.Number, order.Status, newStatus)
	}

	var completedAt *time.Time
	if newStatus == model.StatusCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}
	if err := s.store.UpdateOrderStatus(ctx, order.ID, newStatus, completedAt); err != nil {
		return nil, err
	}

	leftQueue := order.Status == model.StatusInQueue
	if leftQueue {
		if _, err := s.store.RecomputeQueue(ctx, order.PrinterID); err != nil {
			return nil, err
		}
	}
	if newStatus == model.StatusCompleted {
		s.metrics.OrdersCompleted.Inc()
	}

	full, err := s.store.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.publish(realtime.UserRoom(order.UserID), realtime.EventOrderUpdated, full)
	s.publish(order.Shop.AdminRoom(), realtime.EventOrderUpdated, full)
	if leftQueue {
		s.publishPrinterUpdated(ctx, order.PrinterID)
		s.publishQueuePositions(ctx, &full.Printer)
	}

	s.notifier.Notify([]int64{order.UserID}, "Order updated",
		fmt.Sprintf("Order #%s is now %s.", full.Number, newStatus))

	return full, nil
}

// OrderTotalCents computes the display total for an order from the shop's
// pricing table. The second return is false when no price is configured.
func (s *Service) OrderTotalCents(ctx context.Context, order *model.Order) (int64, bool) {
	price, err := s.store.GetPrice(ctx, order.Shop, order.PaperSize, order.ColorType)
	if err != nil {
		return 0, false
	}
	return price.PriceCents * int64(order.Copies), true
}
