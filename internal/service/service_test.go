package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"printshop-backend/internal/metrics"
	"printshop-backend/internal/model"
	"printshop-backend/internal/realtime"
	"printshop-backend/internal/store"
)

var testDBSeq atomic.Int64

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

type sentNotification struct {
	UserIDs []int64
	Title   string
	Body    string
}

func (n *recordingNotifier) Notify(userIDs []int64, title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{UserIDs: userIDs, Title: title, Body: body})
}

func (n *recordingNotifier) titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	titles := make([]string, len(n.sent))
	for i, s := range n.sent {
		titles[i] = s.Title
	}
	return titles
}

type testEnv struct {
	svc      *Service
	store    store.Store
	hub      *realtime.Hub
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // sqlite allows one writer at a time
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.ShopBan{},
		&model.Printer{},
		&model.PrinterPaperSize{},
		&model.Order{},
		&model.Pricing{},
		&model.Violation{},
		&model.Notification{},
		&model.PushSubscription{},
	))

	st := store.NewGormStore(db)
	hub := realtime.NewHub()
	notifier := &recordingNotifier{}
	return &testEnv{
		svc:      New(st, hub, notifier, metrics.NewRegistry()),
		store:    st,
		hub:      hub,
		notifier: notifier,
	}
}

func (e *testEnv) seedUser(t *testing.T, name string, role model.Role, status model.AccountStatus) *model.User {
	t.Helper()
	user := &model.User{
		Email:         fmt.Sprintf("%s%d@campus.edu", name, testDBSeq.Add(1)),
		Name:          name,
		Role:          role,
		AccountStatus: status,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) seedPrinter(t *testing.T, shop model.Shop, status model.PrinterStatus, sizes ...string) *model.Printer {
	t.Helper()
	printer := &model.Printer{Name: "Canon G3000", Shop: shop, Status: status}
	for _, size := range sizes {
		printer.PaperSizes = append(printer.PaperSizes, model.PrinterPaperSize{Size: size, Enabled: true})
	}
	require.NoError(t, e.store.CreatePrinter(context.Background(), printer))
	return printer
}

func orderRequest(printerID int64) CreateOrderRequest {
	return CreateOrderRequest{
		PrinterID:   printerID,
		FileName:    "thesis.pdf",
		FileKey:     "0b54c1.pdf",
		PaperSize:   "A4",
		Orientation: model.OrientationPortrait,
		ColorType:   model.ColorBlackAndWhite,
		Copies:      2,
	}
}

// drain returns all events currently buffered on a subscriber.
func drain(sub *realtime.Subscriber) []realtime.Event {
	var events []realtime.Event
	for {
		select {
		case ev := <-sub.Events():
			events = append(events, ev)
		default:
			return events
		}
	}
}

func eventNames(events []realtime.Event) []string {
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.Name
	}
	return names
}

func ptr[T any](v T) *T { return &v }
