package service

import (
	"context"
	"strings"
	"time"

	"github.com/wefi-dex/munchclub-admin/internal/models"
	apperrors "github.com/wefi-dex/munchclub-admin/pkg/errors"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

const (
	PrinterStatusUnknown = "unknown"
	PrinterStatusError   = "error"

	noPrinterOrdersMessage = "No printer orders found for this order"
)

// PrinterStatusResult is one polled printer order. Error is set only when
// Status is "error".
type PrinterStatusResult struct {
	PrinterOrderID    string  `json:"printerOrderId"`
	Status            string  `json:"status"`
	TrackingNumber    *string `json:"trackingNumber,omitempty"`
	EstimatedDelivery *string `json:"estimatedDelivery,omitempty"`
	Error             string  `json:"error,omitempty"`
}

// PrinterRefreshResult is the outcome of reconciling one order.
// Persisted reports whether the order's cached printer fields were rewritten.
type PrinterRefreshResult struct {
	OrderID      string                `json:"orderId"`
	Message      string                `json:"message,omitempty"`
	Statuses     []PrinterStatusResult `json:"statuses"`
	LatestStatus string                `json:"latestStatus"`
	Persisted    bool                  `json:"persisted"`
}

// PrinterService reconciles orders against the printer gateway
type PrinterService struct {
	orders  OrderStore
	gateway PrinterGateway
	logger  logger.Logger
}

// NewPrinterService creates a new PrinterService
func NewPrinterService(orders OrderStore, gateway PrinterGateway, logger logger.Logger) *PrinterService {
	return &PrinterService{
		orders:  orders,
		gateway: gateway,
		logger:  logger,
	}
}

// RefreshPrinterStatus polls the gateway once per printer order id, in order,
// and writes the first result back onto the order unless it is an error.
// Gateway failures are reported inline and never fail the call.
func (s *PrinterService) RefreshPrinterStatus(ctx context.Context, orderID string) (*PrinterRefreshResult, error) {
	order, err := s.orders.GetByID(ctx, orderID)

	if err != nil {
		return nil, storeError(err, orderNotFoundMessage)
	}

	result := &PrinterRefreshResult{
		OrderID:      order.ID,
		Statuses:     []PrinterStatusResult{},
		LatestStatus: PrinterStatusUnknown,
	}

	if len(order.PrinterOrderIDs) == 0 {
		result.Message = noPrinterOrdersMessage
		return result, nil
	}

	for _, printerOrderID := range order.PrinterOrderIDs {
		result.Statuses = append(result.Statuses, s.poll(ctx, printerOrderID))
	}

	first := result.Statuses[0]
	result.LatestStatus = first.Status

	if first.Status == PrinterStatusError {
		s.logger.Warn("First printer poll failed, keeping cached printer fields",
			"orderID", order.ID,
			"printerOrderID", first.PrinterOrderID,
			"error", first.Error)
		return result, nil
	}

	cache := models.PrinterCache{
		Status:            first.Status,
		TrackingNumber:    first.TrackingNumber,
		EstimatedDelivery: parseDeliveryDate(first.EstimatedDelivery),
	}

	if err := s.orders.UpdatePrinterCache(ctx, order.ID, cache); err != nil {
		return nil, storeError(err, orderNotFoundMessage)
	}

	result.Persisted = true

	s.logger.Info("Printer status refreshed",
		"orderID", order.ID,
		"printerStatus", first.Status,
		"polled", len(result.Statuses))

	return result, nil
}

func (s *PrinterService) poll(ctx context.Context, printerOrderID string) PrinterStatusResult {
	status, err := s.gateway.CheckOrderStatus(ctx, printerOrderID)

	if err != nil {
		return PrinterStatusResult{
			PrinterOrderID: printerOrderID,
			Status:         PrinterStatusError,
			Error:          apperrors.PublicMessage(err),
		}
	}

	out := PrinterStatusResult{
		PrinterOrderID:    printerOrderID,
		Status:            status.Status,
		TrackingNumber:    status.TrackingNumber,
		EstimatedDelivery: status.EstimatedDelivery,
	}

	if out.Status == "" {
		out.Status = PrinterStatusUnknown
	}

	return out
}

// parseDeliveryDate accepts RFC3339 or a bare date. Anything else clears the
// cached value.
func parseDeliveryDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}

	value := strings.TrimSpace(*raw)

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}

	return nil
}
