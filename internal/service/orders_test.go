package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop-backend/internal/model"
	"printshop-backend/internal/realtime"
)

func TestCreateOrder_AssignsSequentialPositions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	bob := env.seedUser(t, "bob", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "A4")

	first, err := env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	require.NoError(t, err)
	second, err := env.svc.CreateOrder(ctx, bob.ID, orderRequest(printer.ID))
	require.NoError(t, err)

	assert.Equal(t, 1, first.QueuePosition)
	assert.Equal(t, 2, second.QueuePosition)
	assert.Equal(t, model.StatusInQueue, first.Status)
	assert.NotEqual(t, first.Number, second.Number)
	assert.Len(t, first.Number, 4)

	p, err := env.store.GetPrinter(ctx, printer.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.QueueCount)
}

func TestCreateOrder_PublishesToOwnerAndShopAdmins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "A4")

	owner := env.hub.Subscribe(realtime.UserRoom(alice.ID))
	defer env.hub.Unsubscribe(owner)
	admins := env.hub.Subscribe(model.ShopIT.AdminRoom())
	defer env.hub.Unsubscribe(admins)

	_, err := env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	require.NoError(t, err)

	// Owner sees order_created plus the printer_updated broadcast.
	assert.Contains(t, eventNames(drain(owner)), realtime.EventOrderCreated)
	assert.Contains(t, eventNames(drain(admins)), realtime.EventNewOrder)
	assert.Contains(t, env.notifier.titles(), "Order placed")
}

func TestCreateOrder_RejectsUnapprovedAccount(t *testing.T) {
	env := newTestEnv(t)
	pending := env.seedUser(t, "pending", model.RoleStudent, model.AccountPending)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "A4")

	_, err := env.svc.CreateOrder(context.Background(), pending.ID, orderRequest(printer.ID))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateOrder_RejectsBannedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopSSC, model.PrinterActive, "A4")
	require.NoError(t, env.store.BanUser(ctx, alice.ID, model.ShopSSC))

	_, err := env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateOrder_RejectsInactivePrinter(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)

	for _, status := range []model.PrinterStatus{model.PrinterOffline, model.PrinterNoInkPaper} {
		printer := env.seedPrinter(t, model.ShopIT, status, "A4")
		_, err := env.svc.CreateOrder(context.Background(), alice.ID, orderRequest(printer.ID))
		assert.ErrorIs(t, err, ErrValidation, "printer status %s", status)
	}
}

func TestCreateOrder_RejectsUnavailablePaperSize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "Letter")

	req := orderRequest(printer.ID) // asks for A4
	_, err := env.svc.CreateOrder(ctx, alice.ID, req)
	assert.ErrorIs(t, err, ErrValidation)

	// A listed but disabled size is just as unavailable.
	printer.PaperSizes = []model.PrinterPaperSize{{Size: "A4", Enabled: false}}
	require.NoError(t, env.store.UpdatePrinter(ctx, printer))
	_, err = env.svc.CreateOrder(ctx, alice.ID, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrder_RejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "A4")

	testCases := []struct {
		name   string
		mutate func(r *CreateOrderRequest)
	}{
		{"missing file", func(r *CreateOrderRequest) { r.FileKey = "" }},
		{"missing paper size", func(r *CreateOrderRequest) { r.PaperSize = "" }},
		{"bad orientation", func(r *CreateOrderRequest) { r.Orientation = "Diagonal" }},
		{"bad color type", func(r *CreateOrderRequest) { r.ColorType = "Sepia" }},
		{"zero copies", func(r *CreateOrderRequest) { r.Copies = 0 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := orderRequest(printer.ID)
			tc.mutate(&req)
			_, err := env.svc.CreateOrder(context.Background(), alice.ID, req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateOrder_ConcurrentCreatesGetDistinctNumbersAndPositions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "A4")

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	queue, err := env.store.ListPrinterQueue(ctx, printer.ID)
	require.NoError(t, err)
	require.Len(t, queue, workers)

	numbers := map[string]bool{}
	for i, o := range queue {
		assert.Equal(t, i+1, o.QueuePosition)
		assert.False(t, numbers[o.Number], "number %s assigned twice", o.Number)
		numbers[o.Number] = true
	}
}

func TestCancelOrder_PromotesFollowers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	bob := env.seedUser(t, "bob", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "A4")

	first, err := env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	require.NoError(t, err)
	second, err := env.svc.CreateOrder(ctx, bob.ID, orderRequest(printer.ID))
	require.NoError(t, err)

	bobSub := env.hub.Subscribe(realtime.UserRoom(bob.ID))
	defer env.hub.Unsubscribe(bobSub)

	cancelled, err := env.svc.CancelOrder(ctx, alice.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, 0, cancelled.QueuePosition)

	promoted, err := env.store.GetOrder(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, promoted.QueuePosition)

	// Bob's subscription sees his new position.
	assert.Contains(t, eventNames(drain(bobSub)), realtime.EventOrderQueueUpdated)

	p, err := env.store.GetPrinter(ctx, printer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.QueueCount)
}

func TestCancelOrder_OnlyOwnerAndOnlyFromQueue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	mallory := env.seedUser(t, "mallory", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "A4")

	order, err := env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	require.NoError(t, err)

	_, err = env.svc.CancelOrder(ctx, mallory.ID, order.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.svc.AdminUpdateOrderStatus(ctx, order.ID, model.StatusPrinting)
	require.NoError(t, err)

	_, err = env.svc.CancelOrder(ctx, alice.ID, order.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAdminUpdateOrderStatus_ForwardOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "A4")

	order, err := env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	require.NoError(t, err)

	// Skipping a stage is rejected.
	_, err = env.svc.AdminUpdateOrderStatus(ctx, order.ID, model.ReadyStatusFor(model.ShopIT))
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := env.svc.AdminUpdateOrderStatus(ctx, order.ID, model.StatusPrinting)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPrinting, updated.Status)
	assert.Equal(t, 0, updated.QueuePosition)

	// No going back.
	_, err = env.svc.AdminUpdateOrderStatus(ctx, order.ID, model.StatusInQueue)
	assert.ErrorIs(t, err, ErrConflict)

	updated, err = env.svc.AdminUpdateOrderStatus(ctx, order.ID, model.StatusReadyForPickup)
	require.NoError(t, err)

	updated, err = env.svc.AdminUpdateOrderStatus(ctx, order.ID, model.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	// Terminal states accept nothing.
	_, err = env.svc.AdminUpdateOrderStatus(ctx, order.ID, model.StatusPrinting)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAdminUpdateOrderStatus_ReadyLabelMatchesShop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopSSC, model.PrinterActive, "A4")

	order, err := env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	require.NoError(t, err)
	_, err = env.svc.AdminUpdateOrderStatus(ctx, order.ID, model.StatusPrinting)
	require.NoError(t, err)

	// The IT-shop label is invalid on an SSC order.
	_, err = env.svc.AdminUpdateOrderStatus(ctx, order.ID, model.StatusReadyForPickup)
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := env.svc.AdminUpdateOrderStatus(ctx, order.ID, model.StatusReadyForPickupPayment)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReadyForPickupPayment, updated.Status)
}

func TestAdminUpdateOrderStatus_RecomputesOnlyWhenLeavingQueue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	bob := env.seedUser(t, "bob", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "A4")

	first, err := env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	require.NoError(t, err)
	second, err := env.svc.CreateOrder(ctx, bob.ID, orderRequest(printer.ID))
	require.NoError(t, err)

	_, err = env.svc.AdminUpdateOrderStatus(ctx, first.ID, model.StatusPrinting)
	require.NoError(t, err)

	promoted, err := env.store.GetOrder(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, promoted.QueuePosition)

	// Printing -> Ready leaves the queue untouched.
	_, err = env.svc.AdminUpdateOrderStatus(ctx, first.ID, model.StatusReadyForPickup)
	require.NoError(t, err)
	still, err := env.store.GetOrder(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, still.QueuePosition)
}

func TestListMyOrders_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "A4")

	first, err := env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	require.NoError(t, err)
	second, err := env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	require.NoError(t, err)

	orders, err := env.svc.ListMyOrders(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestAdminGetOrderByNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "A4")

	order, err := env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	require.NoError(t, err)

	found, err := env.svc.AdminGetOrderByNumber(ctx, model.ShopIT, order.Number)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	// The number belongs to the IT shop; the SSC counter cannot resolve it.
	_, err = env.svc.AdminGetOrderByNumber(ctx, model.ShopSSC, order.Number)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, number := range []string{"", "42", "04210", "04a1"} {
		_, err = env.svc.AdminGetOrderByNumber(ctx, model.ShopIT, number)
		assert.ErrorIs(t, err, ErrValidation, "number %q", number)
	}
}

func TestAdminListOrders_FiltersByStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "A4")

	order, err := env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	require.NoError(t, err)
	_, err = env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	require.NoError(t, err)
	_, err = env.svc.AdminUpdateOrderStatus(ctx, order.ID, model.StatusPrinting)
	require.NoError(t, err)

	printing, err := env.svc.AdminListOrders(ctx, model.ShopIT, ptr(model.StatusPrinting))
	require.NoError(t, err)
	require.Len(t, printing, 1)
	assert.Equal(t, order.ID, printing[0].ID)

	all, err := env.svc.AdminListOrders(ctx, model.ShopIT, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderTotalCents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleStudent, model.AccountApproved)
	printer := env.seedPrinter(t, model.ShopIT, model.PrinterActive, "A4")

	order, err := env.svc.CreateOrder(ctx, alice.ID, orderRequest(printer.ID))
	require.NoError(t, err)

	// No price configured yet.
	_, ok := env.svc.OrderTotalCents(ctx, order)
	assert.False(t, ok)

	_, err = env.svc.SetPrice(ctx, model.ShopIT, "A4", model.ColorBlackAndWhite, 300)
	require.NoError(t, err)

	total, ok := env.svc.OrderTotalCents(ctx, order)
	require.True(t, ok)
	assert.Equal(t, int64(600), total) // 2 copies at 300
}
