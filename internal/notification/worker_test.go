package notification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"printshop-backend/internal/model"
	"printshop-backend/internal/realtime"
	"printshop-backend/internal/store"
)

// mockSender is a mock implementation of the PushSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

var testDBSeq atomic.Int64

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:workertest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // sqlite allows one writer at a time
	require.NoError(t, db.AutoMigrate(&model.Notification{}, &model.PushSubscription{}))
	return store.NewGormStore(db)
}

func TestWorkerPool_NotifyNeverBlocks(t *testing.T) {
	wp := NewWorkerPool(1, newTestStore(t), nil, nil, nil)

	// No worker is running; filling past the buffer must not block.
	for i := 0; i < cap(wp.jobs)+5; i++ {
		wp.Notify([]int64{1}, "title", "body")
	}
	assert.Len(t, wp.jobs, cap(wp.jobs))
}

func TestWorkerPool_PersistsAndPublishes(t *testing.T) {
	s := newTestStore(t)
	hub := realtime.NewHub()
	sub := hub.Subscribe(realtime.UserRoom(42))
	defer hub.Unsubscribe(sub)

	wp := NewWorkerPool(1, s, hub, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Notify([]int64{42}, "Order placed", "Order #0042 is in queue at position 1.")

	select {
	case ev := <-sub.Events():
		assert.Equal(t, realtime.EventNotification, ev.Name)
		n, ok := ev.Payload.(*model.Notification)
		require.True(t, ok)
		assert.Equal(t, "Order placed", n.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification event")
	}

	stored, err := s.ListNotifications(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Order #0042 is in queue at position 1.", stored[0].Body)
	assert.False(t, stored[0].Read)
}

func TestWorkerPool_PushesToSubscribedBrowsers(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertPushSubscription(context.Background(), &model.PushSubscription{
		Endpoint: "https://example.com/push",
		UserID:   7,
		P256DH:   "test_p256dh",
		Auth:     "test_auth",
	}))

	wp := NewWorkerPool(1, s, nil, &webpush.Options{}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			assert.Equal(t, "https://example.com/push", sub.Endpoint)
			assert.Contains(t, string(payload), "Ready for Pickup")
			wg.Done()
			return &http.Response{
				StatusCode: http.StatusCreated,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Notify([]int64{7}, "Order updated", "Order #0042 is now Ready for Pickup.")
	wg.Wait()
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertPushSubscription(context.Background(), &model.PushSubscription{
		Endpoint: "https://example.com/expired",
		UserID:   8,
		P256DH:   "test_p256dh_expired",
		Auth:     "test_auth_expired",
	}))

	wp := NewWorkerPool(1, s, nil, &webpush.Options{}, nil)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusGone,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Notify([]int64{8}, "Order updated", "Order #0042 is now Printing.")

	assert.Eventually(t, func() bool {
		subs, err := s.ListPushSubscriptions(context.Background(), 8)
		return err == nil && len(subs) == 0
	}, 2*time.Second, 50*time.Millisecond, "expired subscription should be deleted")
}
