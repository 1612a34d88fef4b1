package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop-backend/internal/model"
	"printshop-backend/internal/realtime"
)

func TestSetPrice_UpsertsAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	adminSub := env.hub.Subscribe(model.ShopIT.AdminRoom())
	defer env.hub.Unsubscribe(adminSub)

	_, err := env.svc.SetPrice(ctx, model.ShopIT, "A4", model.ColorBlackAndWhite, 300)
	require.NoError(t, err)
	assert.Contains(t, eventNames(drain(adminSub)), realtime.EventPricingUpdated)

	// Same key replaces, different color adds.
	_, err = env.svc.SetPrice(ctx, model.ShopIT, "A4", model.ColorBlackAndWhite, 350)
	require.NoError(t, err)
	_, err = env.svc.SetPrice(ctx, model.ShopIT, "A4", model.ColorColored, 900)
	require.NoError(t, err)

	prices, err := env.svc.ListPricing(ctx, model.ShopIT)
	require.NoError(t, err)
	require.Len(t, prices, 2)

	byColor := map[model.ColorType]int64{}
	for _, p := range prices {
		byColor[p.ColorType] = p.PriceCents
	}
	assert.Equal(t, int64(350), byColor[model.ColorBlackAndWhite])
	assert.Equal(t, int64(900), byColor[model.ColorColored])
}

func TestSetPrice_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.SetPrice(ctx, "LIBRARY", "A4", model.ColorBlackAndWhite, 300)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.SetPrice(ctx, model.ShopIT, "", model.ColorBlackAndWhite, 300)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.SetPrice(ctx, model.ShopIT, "A4", "Sepia", 300)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.SetPrice(ctx, model.ShopIT, "A4", model.ColorBlackAndWhite, -1)
	assert.ErrorIs(t, err, ErrValidation)
}
