package service

import (
	"context"
	"errors"
	"time"

	"github.com/wefi-dex/munchclub-admin/internal/clients"
	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/internal/repository"
	apperrors "github.com/wefi-dex/munchclub-admin/pkg/errors"
)

// OrderStore is the relational order persistence used by the order services
type OrderStore interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, q models.ListQuery) ([]*models.OrderSummary, int64, error)
	UpdateStatus(ctx context.Context, order *models.Order, entry *models.StatusHistoryEntry, event *models.OutboxMessage) error
	UpdatePrinterCache(ctx context.Context, id string, cache models.PrinterCache) error
	Delete(ctx context.Context, id string, event *models.OutboxMessage) error
	ListBasketItems(ctx context.Context, orderID string) ([]*models.BasketItemDetail, error)
	ListStatusHistory(ctx context.Context, orderID string) ([]*models.StatusHistoryEntry, error)
	GetPayment(ctx context.Context, orderID string) (*models.Payment, error)
	GetFirstShippingAddress(ctx context.Context, orderID string) (*models.ShippingAddress, error)
}

// UserStore reads users and provides the cleanup steps for deleting one
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, q models.ListQuery) ([]*models.User, int64, error)
	CleanupSteps(userID string) []models.CleanupStep
}

// CatalogStore serves the read-only admin lists
type CatalogStore interface {
	ListBooks(ctx context.Context, q models.ListQuery) ([]*models.Book, int64, error)
	ListRecipes(ctx context.Context, q models.ListQuery) ([]*models.Recipe, int64, error)
	ListPayments(ctx context.Context, q models.ListQuery) ([]*models.Payment, int64, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// CouponStore is the document store of gift coupons
type CouponStore interface {
	Find(ctx context.Context, q models.CouponQuery) ([]*models.Coupon, int64, error)
	MarkRedeemed(ctx context.Context, id string, at time.Time) error
	Counts(ctx context.Context) (int64, int64, error)
}

// PrinterGateway checks one printer order against the fulfilment service
type PrinterGateway interface {
	CheckOrderStatus(ctx context.Context, printerOrderID string) (*clients.PrinterOrderStatus, error)
}

// Clock returns the current time
type Clock func() time.Time

// storeError translates a repository error into an application error.
// Not-found becomes a 404 with notFoundMsg, anything else a persistence error.
func storeError(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFoundError(notFoundMsg)
	case errors.Is(err, repository.ErrInvalidID):
		return apperrors.NewInvalidArgumentError("Invalid id")
	default:
		return apperrors.NewPersistenceError(err)
	}
}
