package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/internal/repository"
	apperrors "github.com/wefi-dex/munchclub-admin/pkg/errors"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

const orderNotFoundMessage = "Order not found"

// OrderService handles order-related operations
type OrderService struct {
	orders OrderStore
	users  UserStore
	logger logger.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orders OrderStore, users UserStore, logger logger.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		users:  users,
		logger: logger,
	}
}

// GetOrderDetail assembles the order detail projection. Missing optional data
// is defaulted field by field; only a missing order is an error.
func (s *OrderService) GetOrderDetail(ctx context.Context, id string) (*models.OrderDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewInvalidArgumentError("Order ID is required")
	}

	order, err := s.orders.GetByID(ctx, id)

	if err != nil {
		return nil, storeError(err, orderNotFoundMessage)
	}

	detail := &models.OrderDetail{
		ID:              order.ID,
		UserID:          order.UserID,
		UserName:        models.UnknownUserName,
		Total:           decimal.Zero,
		Status:          order.Status.String(),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.CreatedAt,
		PrinterOrderIDs: []string{},
		PrinterStatus:   models.DefaultPrinterState,
		Items:           []models.OrderDetailItem{},
		StatusHistory:   []models.OrderDetailHistory{},
	}

	if len(order.PrinterOrderIDs) > 0 {
		detail.PrinterOrderIDs = append(detail.PrinterOrderIDs, order.PrinterOrderIDs...)
	}

	user, err := s.users.GetByID(ctx, order.UserID)

	switch {
	case err == nil:
		detail.UserName = user.Name
		detail.UserEmail = user.Email
	case errors.Is(err, repository.ErrNotFound):
		s.logger.Warn("Order references a missing user", "orderID", order.ID, "userID", order.UserID)
	default:
		return nil, storeError(err, orderNotFoundMessage)
	}

	items, err := s.orders.ListBasketItems(ctx, order.ID)

	if err != nil {
		return nil, storeError(err, orderNotFoundMessage)
	}

	for _, item := range items {
		detail.Items = append(detail.Items, models.NewOrderDetailItem(item))
	}

	history, err := s.orders.ListStatusHistory(ctx, order.ID)

	if err != nil {
		return nil, storeError(err, orderNotFoundMessage)
	}

	for _, entry := range history {
		detail.StatusHistory = append(detail.StatusHistory, models.OrderDetailHistory{
			Status:    entry.Status,
			Note:      entry.Note(),
			Timestamp: entry.CreatedAt,
		})
	}

	payment, err := s.orders.GetPayment(ctx, order.ID)

	switch {
	case err == nil:
		detail.Total = payment.Amount
		detail.Payment = &models.OrderDetailPayment{
			ID:          payment.ID,
			Amount:      payment.Amount,
			Status:      payment.Status,
			ProcessorID: payment.ProcessorID,
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storeError(err, orderNotFoundMessage)
	}

	addr, err := s.orders.GetFirstShippingAddress(ctx, order.ID)

	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err, orderNotFoundMessage)
	}

	detail.ShippingAddress = models.NewOrderDetailAddress(addr)

	return detail, nil
}

// UpdateOrderStatus sets a new status, appends the history entry and queues
// the order_status_changed event, then returns the refreshed projection.
// Any status string is accepted; unrecognised values are kept verbatim.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, status, note string) (*models.OrderDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewInvalidArgumentError("Order ID is required")
	}

	status = strings.TrimSpace(status)

	if status == "" {
		return nil, apperrors.NewInvalidArgumentError("Status is required")
	}

	if utf8.RuneCountInString(status) > models.MaxStatusLength {
		return nil, apperrors.NewInvalidArgumentError(
			fmt.Sprintf("Status must be at most %d characters", models.MaxStatusLength))
	}

	order, err := s.orders.GetByID(ctx, id)

	if err != nil {
		return nil, storeError(err, orderNotFoundMessage)
	}

	oldStatus := order.Status.String()
	order.Status = models.ParseOrderStatus(status)

	if !order.Status.IsKnown() {
		s.logger.Warn("Unrecognised order status", "orderID", order.ID, "status", status)
	}

	entry, err := models.NewStatusHistoryEntry(order.ID, order.Status.String(), strings.TrimSpace(note))

	if err != nil {
		s.logger.Error("Failed to build status history entry", "error", err, "orderID", order.ID)
		return nil, apperrors.NewPersistenceError(err)
	}

	event, err := models.NewOrderStatusChangedEvent(order, oldStatus, entry.Note())

	if err != nil {
		s.logger.Error("Failed to create outbox message", "error", err, "orderID", order.ID)
		return nil, apperrors.NewPersistenceError(err)
	}

	if err := s.orders.UpdateStatus(ctx, order, entry, event); err != nil {
		return nil, storeError(err, orderNotFoundMessage)
	}

	s.logger.Info("Order status updated",
		"orderID", order.ID,
		"oldStatus", oldStatus,
		"newStatus", order.Status.String(),
		"historyID", entry.ID)

	return s.GetOrderDetail(ctx, order.ID)
}

// ListOrders returns one page of order summaries
func (s *OrderService) ListOrders(ctx context.Context, q models.ListQuery) (models.Page[*models.OrderSummary], error) {
	orders, total, err := s.orders.List(ctx, q)

	if err != nil {
		return models.Page[*models.OrderSummary]{}, storeError(err, orderNotFoundMessage)
	}

	return models.NewPage(orders, total, q.Page, q.Limit), nil
}

// DeleteOrder hard-deletes an order together with its dependent rows
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewInvalidArgumentError("Order ID is required")
	}

	event, err := models.NewOrderDeletedEvent(id)

	if err != nil {
		return apperrors.NewPersistenceError(err)
	}

	if err := s.orders.Delete(ctx, id, event); err != nil {
		return storeError(err, orderNotFoundMessage)
	}

	s.logger.Info("Order deleted", "orderID", id)
	return nil
}
