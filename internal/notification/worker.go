package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"printshop-backend/internal/metrics"
	"printshop-backend/internal/model"
	"printshop-backend/internal/realtime"
	"printshop-backend/internal/store"
)

// Job is one notification to deliver to a set of users.
type Job struct {
	UserIDs []int64
	Title   string
	Body    string
}

// PushSender defines the interface for sending a web push notification.
type PushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of PushSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool delivers notifications off the request path: it persists a
// Notification row per user, publishes a "notification" event to the user's
// room, and web-pushes to the user's registered browsers. Everything here is
// best-effort; failures are logged and never reach the caller.
type WorkerPool struct {
	size    int
	jobs    chan Job
	store   store.Store
	hub     *realtime.Hub
	webpush *webpush.Options
	sender  PushSender
	metrics *metrics.Registry
}

// NewWorkerPool creates a new worker pool. The metrics registry may be nil.
func NewWorkerPool(size int, s store.Store, hub *realtime.Hub, webpushOptions *webpush.Options, m *metrics.Registry) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size*4),
		store:   s,
		hub:     hub,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		metrics: m,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.deliver(ctx, job)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Notify queues a job without ever blocking the caller. When the queue is
// full the job is dropped; the store remains the source of truth and clients
// re-fetch on reconnect.
func (wp *WorkerPool) Notify(userIDs []int64, title, body string) {
	select {
	case wp.jobs <- Job{UserIDs: userIDs, Title: title, Body: body}:
	default:
		log.Printf("notification queue full, dropping %q for %d users", title, len(userIDs))
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

func (wp *WorkerPool) deliver(ctx context.Context, job Job) {
	for _, userID := range job.UserIDs {
		n := &model.Notification{
			UserID:    userID,
			Title:     job.Title,
			Body:      job.Body,
			CreatedAt: time.Now().UTC(),
		}
		if err := wp.store.CreateNotification(ctx, n); err != nil {
			log.Printf("failed to persist notification for user %d: %v", userID, err)
			continue
		}
		if wp.hub != nil {
			wp.hub.Publish(realtime.UserRoom(userID), realtime.Event{
				Name:    realtime.EventNotification,
				Payload: n,
			})
		}
		wp.push(ctx, userID, n)
	}
}

// push sends the notification to every browser the user registered.
func (wp *WorkerPool) push(ctx context.Context, userID int64, n *model.Notification) {
	if wp.webpush == nil {
		return
	}
	subs, err := wp.store.ListPushSubscriptions(ctx, userID)
	if err != nil {
		log.Printf("failed to fetch push subscriptions for user %d: %v", userID, err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("failed to encode notification %d: %v", n.ID, err)
		return
	}
	for _, sub := range subs {
		wp.sendPush(ctx, sub, payload)
	}
}

func (wp *WorkerPool) countPushFailure() {
	if wp.metrics != nil {
		wp.metrics.PushFailures.Inc()
	}
}

// sendPush sends a single web push notification.
func (wp *WorkerPool) sendPush(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending push to %s: %v", sub.Endpoint, err)
		wp.countPushFailure()
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		wp.countPushFailure()
	}

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("push subscription %s is expired, deleting", sub.Endpoint)
		if err := wp.store.DeletePushSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
