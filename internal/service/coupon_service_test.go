package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/internal/repository/memrepo"
	apperrors "github.com/wefi-dex/munchclub-admin/pkg/errors"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRedeemCouponTwiceRestampsRedeemedAt(t *testing.T) {
	store := memrepo.NewCouponStore()
	id := store.AddCoupon(&models.Coupon{Code: "GIFT-1", Amount: 25})

	first := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)
	now := first

	svc := NewCouponService(store, func() time.Time { return now }, logger.NewNop())

	require.NoError(t, svc.RedeemCoupon(context.Background(), id.Hex()))
	assert.Equal(t, first, *store.Coupon(id).RedeemedAt)

	now = second
	require.NoError(t, svc.RedeemCoupon(context.Background(), id.Hex()))

	coupon := store.Coupon(id)
	assert.True(t, coupon.Redeemed)
	assert.Equal(t, second, *coupon.RedeemedAt)
}

func TestRedeemCouponErrors(t *testing.T) {
	svc := NewCouponService(memrepo.NewCouponStore(), nil, logger.NewNop())
	ctx := context.Background()

	err := svc.RedeemCoupon(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "Coupon not found", err.Error())

	err = svc.RedeemCoupon(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	err = svc.RedeemCoupon(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestListCouponsCapsLimit(t *testing.T) {
	store := memrepo.NewCouponStore()
	svc := NewCouponService(store, nil, logger.NewNop())

	page, err := svc.ListCoupons(context.Background(), "", 1, 500)
	require.NoError(t, err)

	assert.Equal(t, models.MaxCouponPageSize, store.LastQuery().Limit)
	assert.Equal(t, models.MaxCouponPageSize, page.Limit)
	assert.Equal(t, []*models.Coupon{}, page.Items)
}

func TestListCouponsSearchAndPaging(t *testing.T) {
	store := memrepo.NewCouponStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		store.AddCoupon(&models.Coupon{
			Code:           fmt.Sprintf("GIFT-%d", i),
			PurchaserEmail: "buyer@example.com",
			RecipientName:  fmt.Sprintf("Recipient %d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		})
	}
	store.AddCoupon(&models.Coupon{Code: "OTHER", CreatedAt: base})

	svc := NewCouponService(store, nil, logger.NewNop())

	page, err := svc.ListCoupons(context.Background(), "BUYER@", 2, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "GIFT-2", page.Items[0].Code)
	assert.Equal(t, "GIFT-1", page.Items[1].Code)

	q := store.LastQuery()
	assert.Equal(t, int64(2), q.Skip())

	page, err = svc.ListCoupons(context.Background(), "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, models.DefaultPageSize, page.Limit)
	assert.Equal(t, int64(6), page.Total)
}
