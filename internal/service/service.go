package service

import (
	"context"
	"fmt"
	"log"

	"printshop-backend/internal/metrics"
	"printshop-backend/internal/model"
	"printshop-backend/internal/realtime"
	"printshop-backend/internal/store"
)

// Notifier is the best-effort notification dispatcher. Implementations must
// never block the caller; failures are theirs to log.
type Notifier interface {
	Notify(userIDs []int64, title, body string)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify([]int64, string, string) {}

// Service orchestrates the order lifecycle and the admin operations around
// it: it validates preconditions, mutates the store, triggers queue
// recomputation, and fans out events. State mutations commit before any
// best-effort side effect runs.
type Service struct {
	store    store.Store
	hub      *realtime.Hub
	notifier Notifier
	metrics  *metrics.Registry
}

// New creates a Service.
func New(s store.Store, hub *realtime.Hub, notifier Notifier, m *metrics.Registry) *Service {
	return &Service{store: s, hub: hub, notifier: notifier, metrics: m}
}

// publish emits one event to a room and counts it.
func (s *Service) publish(room, name string, payload any) {
	s.hub.Publish(room, realtime.Event{Name: name, Payload: payload})
	s.metrics.EventsPublished.Inc()
}

// broadcast emits one event to every connected client.
func (s *Service) broadcast(name string, payload any) {
	s.hub.Broadcast(realtime.Event{Name: name, Payload: payload})
	s.metrics.EventsPublished.Inc()
}

// publishPrinterUpdated broadcasts the printer's fresh state. Printer changes
// are broadcast because any connected client may be viewing a printer list.
func (s *Service) publishPrinterUpdated(ctx context.Context, printerID int64) {
	printer, err := s.store.GetPrinter(ctx, printerID)
	if err != nil {
		log.Printf("service: failed to load printer %d for event: %v", printerID, err)
		return
	}
	s.metrics.QueueDepth.WithLabelValues(fmt.Sprintf("%d", printer.ID)).Set(float64(printer.QueueCount))
	s.broadcast(realtime.EventPrinterUpdated, printer)
}

// publishQueuePositions tells each owner of a still-queued order, and the
// shop's admins, where every order now stands after a recompute.
func (s *Service) publishQueuePositions(ctx context.Context, printer *model.Printer) {
	queue, err := s.store.ListPrinterQueue(ctx, printer.ID)
	if err != nil {
		log.Printf("service: failed to list queue for printer %d: %v", printer.ID, err)
		return
	}
	type position struct {
		OrderID       int64  `json:"order_id"`
		OrderNumber   string `json:"order_number"`
		QueuePosition int    `json:"queue_position"`
	}
	positions := make([]position, 0, len(queue))
	for _, o := range queue {
		p := position{OrderID: o.ID, OrderNumber: o.Number, QueuePosition: o.QueuePosition}
		positions = append(positions, p)
		s.publish(realtime.UserRoom(o.UserID), realtime.EventOrderQueueUpdated, p)
	}
	s.publish(printer.Shop.AdminRoom(), realtime.EventOrderQueueUpdated, positions)
}

// notifyShopAdmins queues a notification for every approved admin of a shop.
func (s *Service) notifyShopAdmins(ctx context.Context, shop model.Shop, title, body string) {
	admins, err := s.store.ListShopAdmins(ctx, shop)
	if err != nil {
		log.Printf("service: failed to list %s admins: %v", shop, err)
		return
	}
	ids := make([]int64, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.ID)
	}
	if len(ids) > 0 {
		s.notifier.Notify(ids, title, body)
	}
}
