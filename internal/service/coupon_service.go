package service

import (
	"context"
	"strings"

	"github.com/wefi-dex/munchclub-admin/internal/models"
	apperrors "github.com/wefi-dex/munchclub-admin/pkg/errors"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

// CouponService lists and redeems gift coupons
type CouponService struct {
	coupons CouponStore
	now     Clock
	logger  logger.Logger
}

// NewCouponService creates a new CouponService. A nil clock uses the wall clock.
func NewCouponService(coupons CouponStore, now Clock, logger logger.Logger) *CouponService {
	if now == nil {
		now = models.GetCurrentTime
	}

	return &CouponService{
		coupons: coupons,
		now:     now,
		logger:  logger,
	}
}

// ListCoupons searches coupons newest first. The page size is capped at
// MaxCouponPageSize whatever the caller asks for.
func (s *CouponService) ListCoupons(ctx context.Context, search string, page, limit int) (models.Page[*models.Coupon], error) {
	lq := models.NewListQuery(search, "", page, limit, models.MaxCouponPageSize)
	q := models.CouponQuery{Search: lq.Search, Page: lq.Page, Limit: lq.Limit}

	coupons, total, err := s.coupons.Find(ctx, q)

	if err != nil {
		return models.Page[*models.Coupon]{}, storeError(err, "Coupon not found")
	}

	return models.NewPage(coupons, total, q.Page, q.Limit), nil
}

// RedeemCoupon marks a coupon redeemed and stamps the redemption time.
// Redeeming twice succeeds and moves redeemedAt to the second call.
func (s *CouponService) RedeemCoupon(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewInvalidArgumentError("Coupon ID is required")
	}

	if err := s.coupons.MarkRedeemed(ctx, id, s.now()); err != nil {
		return storeError(err, "Coupon not found")
	}

	s.logger.Info("Coupon redeemed", "couponID", id)
	return nil
}
