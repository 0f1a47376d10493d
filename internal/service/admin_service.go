package service

import (
	"context"

	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

// AdminService serves the paginated admin lists and the dashboard stats
type AdminService struct {
	users   UserStore
	catalog CatalogStore
	coupons CouponStore
	logger  logger.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(users UserStore, catalog CatalogStore, coupons CouponStore, logger logger.Logger) *AdminService {
	return &AdminService{
		users:   users,
		catalog: catalog,
		coupons: coupons,
		logger:  logger,
	}
}

func (s *AdminService) ListUsers(ctx context.Context, q models.ListQuery) (models.Page[*models.User], error) {
	users, total, err := s.users.List(ctx, q)

	if err != nil {
		return models.Page[*models.User]{}, storeError(err, "User not found")
	}

	return models.NewPage(users, total, q.Page, q.Limit), nil
}

func (s *AdminService) ListBooks(ctx context.Context, q models.ListQuery) (models.Page[*models.Book], error) {
	books, total, err := s.catalog.ListBooks(ctx, q)

	if err != nil {
		return models.Page[*models.Book]{}, storeError(err, "Book not found")
	}

	return models.NewPage(books, total, q.Page, q.Limit), nil
}

func (s *AdminService) ListRecipes(ctx context.Context, q models.ListQuery) (models.Page[*models.Recipe], error) {
	recipes, total, err := s.catalog.ListRecipes(ctx, q)

	if err != nil {
		return models.Page[*models.Recipe]{}, storeError(err, "Recipe not found")
	}

	return models.NewPage(recipes, total, q.Page, q.Limit), nil
}

func (s *AdminService) ListPayments(ctx context.Context, q models.ListQuery) (models.Page[*models.Payment], error) {
	payments, total, err := s.catalog.ListPayments(ctx, q)

	if err != nil {
		return models.Page[*models.Payment]{}, storeError(err, "Payment not found")
	}

	return models.NewPage(payments, total, q.Page, q.Limit), nil
}

// Stats returns the dashboard counters. Coupon counts come from the document
// store; if it is unreachable they are reported as zero.
func (s *AdminService) Stats(ctx context.Context) (*models.Stats, error) {
	stats, err := s.catalog.Stats(ctx)

	if err != nil {
		return nil, storeError(err, "Stats not found")
	}

	total, redeemed, err := s.coupons.Counts(ctx)

	if err != nil {
		s.logger.Warn("Failed to count coupons", "error", err)
		return stats, nil
	}

	stats.Coupons = total
	stats.RedeemedCoupons = redeemed

	return stats, nil
}
