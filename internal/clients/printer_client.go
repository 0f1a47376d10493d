package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/wefi-dex/munchclub-admin/pkg/errors"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

// DefaultPrinterTimeout bounds a single gateway call
const DefaultPrinterTimeout = 5 * time.Second

// PrinterClient is a client for the print-on-demand fulfilment gateway.
// It issues exactly one request per call and never retries.
type PrinterClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     logger.Logger
}

// PrinterOrderStatus is the gateway's view of one printer order
type PrinterOrderStatus struct {
	Status            string  `json:"status"`
	TrackingNumber    *string `json:"trackingNumber"`
	EstimatedDelivery *string `json:"estimatedDelivery"`
}

// checkOrderStatusResponse is the body of GET /checkOrderStatus
type checkOrderStatusResponse struct {
	OrderStatus *PrinterOrderStatus `json:"orderStatus"`
}

// NewPrinterClient creates a new PrinterClient instance
func NewPrinterClient(baseURL string, timeout time.Duration, logger logger.Logger) *PrinterClient {
	if timeout <= 0 {
		timeout = DefaultPrinterTimeout
	}

	return &PrinterClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
		logger:  logger,
	}
}

// CheckOrderStatus fetches the current status of one printer order. Every
// failure (transport, timeout, non-2xx, bad body) is an upstream error.
func (c *PrinterClient) CheckOrderStatus(ctx context.Context, printerOrderID string) (*PrinterOrderStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/checkOrderStatus?printerOrderId=%s", c.baseURL, url.QueryEscape(printerOrderID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)

	if err != nil {
		c.logger.Error("Failed to build printer gateway request", "error", err, "printerOrderID", printerOrderID)
		return nil, apperrors.NewUpstreamError("failed to build printer gateway request").
			WithContext("cause", err.Error())
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)

	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() || errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("Printer gateway request timed out", "printerOrderID", printerOrderID)
			return nil, apperrors.NewUpstreamError("printer gateway request timed out")
		}
		c.logger.Warn("Printer gateway request failed", "error", err, "printerOrderID", printerOrderID)
		return nil, apperrors.NewUpstreamError("failed to reach printer gateway").
			WithContext("cause", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		c.logger.Warn("Failed to read printer gateway response", "error", err, "printerOrderID", printerOrderID)
		return nil, apperrors.NewUpstreamError("failed to read printer gateway response").
			WithContext("cause", err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Printer gateway returned error",
			"statusCode", resp.StatusCode,
			"printerOrderID", printerOrderID)
		return nil, apperrors.NewUpstreamError(fmt.Sprintf("printer gateway returned status %d", resp.StatusCode))
	}

	var parsed checkOrderStatusResponse

	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn("Malformed printer gateway response", "error", err, "printerOrderID", printerOrderID)
		return nil, apperrors.NewUpstreamError("failed to parse printer gateway response").
			WithContext("cause", err.Error())
	}

	if parsed.OrderStatus == nil {
		return &PrinterOrderStatus{}, nil
	}

	return parsed.OrderStatus, nil
}
