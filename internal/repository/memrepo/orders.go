// Package memrepo provides in-memory stores with the same contracts as the
// database repositories. They back service and handler tests.
package memrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/internal/repository"
)

// OrderStore is an in-memory order store
type OrderStore struct {
	mu        sync.Mutex
	orders    map[string]*models.Order
	items     map[string][]*models.BasketItemDetail
	history   map[string][]*models.StatusHistoryEntry
	payments  map[string]*models.Payment
	addresses map[string][]*models.ShippingAddress
	events    []*models.OutboxMessage
	historyID int64

	// Err, when set, is returned by every method
	Err error
}

// NewOrderStore creates an empty OrderStore
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:    make(map[string]*models.Order),
		items:     make(map[string][]*models.BasketItemDetail),
		history:   make(map[string][]*models.StatusHistoryEntry),
		payments:  make(map[string]*models.Payment),
		addresses: make(map[string][]*models.ShippingAddress),
	}
}

func copyOrder(o *models.Order) *models.Order {
	c := *o
	c.PrinterOrderIDs = append([]string(nil), o.PrinterOrderIDs...)
	return &c
}

// AddOrder seeds an order
func (s *OrderStore) AddOrder(order *models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = copyOrder(order)
}

// AddBasketItem seeds a basket line
func (s *OrderStore) AddBasketItem(item *models.BasketItemDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.OrderID] = append(s.items[item.OrderID], item)
}

// AddPayment seeds the payment of an order
func (s *OrderStore) AddPayment(payment *models.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[payment.OrderID] = payment
}

// AddShippingAddress links an address to an order, after any existing links
func (s *OrderStore) AddShippingAddress(orderID string, addr *models.ShippingAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses[orderID] = append(s.addresses[orderID], addr)
}

// AddHistory seeds a status history entry
func (s *OrderStore) AddHistory(entry *models.StatusHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyID++
	entry.ID = s.historyID
	s.history[entry.OrderID] = append(s.history[entry.OrderID], entry)
}

// Order returns a snapshot of the stored order, or nil
func (s *OrderStore) Order(id string) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil
	}
	return copyOrder(o)
}

// Events returns the outbox events recorded so far
func (s *OrderStore) Events() []*models.OutboxMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.OutboxMessage(nil), s.events...)
}

func (s *OrderStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyOrder(o), nil
}

func (s *OrderStore) List(ctx context.Context, q models.ListQuery) ([]*models.OrderSummary, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, 0, s.Err
	}

	var all []*models.OrderSummary
	for _, o := range s.orders {
		if q.Status != "" && o.Status.String() != q.Status {
			continue
		}
		all = append(all, &models.OrderSummary{
			ID:        o.ID,
			UserID:    o.UserID,
			Status:    o.Status,
			ItemCount: len(s.items[o.ID]),
			CreatedAt: o.CreatedAt,
		})
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return paginate(all, q), int64(len(all)), nil
}

func (s *OrderStore) UpdateStatus(
	ctx context.Context,
	order *models.Order,
	entry *models.StatusHistoryEntry,
	event *models.OutboxMessage,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	stored, ok := s.orders[order.ID]
	if !ok {
		return repository.ErrNotFound
	}

	stored.Status = order.Status
	stored.UpdatedAt = models.GetCurrentTime()

	s.historyID++
	entry.ID = s.historyID
	s.history[order.ID] = append(s.history[order.ID], entry)

	if event != nil {
		s.events = append(s.events, event)
	}

	return nil
}

func (s *OrderStore) UpdatePrinterCache(ctx context.Context, id string, cache models.PrinterCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	stored, ok := s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}

	status := cache.Status
	stored.PrinterStatus = &status
	stored.TrackingNumber = cache.TrackingNumber
	stored.EstimatedDelivery = cache.EstimatedDelivery
	stored.UpdatedAt = models.GetCurrentTime()

	return nil
}

func (s *OrderStore) Delete(ctx context.Context, id string, event *models.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.orders[id]; !ok {
		return repository.ErrNotFound
	}

	delete(s.orders, id)
	delete(s.items, id)
	delete(s.history, id)
	delete(s.payments, id)
	delete(s.addresses, id)

	if event != nil {
		s.events = append(s.events, event)
	}

	return nil
}

func (s *OrderStore) ListBasketItems(ctx context.Context, orderID string) ([]*models.BasketItemDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	return append([]*models.BasketItemDetail(nil), s.items[orderID]...), nil
}

// ListStatusHistory returns newest first, ties broken by id
func (s *OrderStore) ListStatusHistory(ctx context.Context, orderID string) ([]*models.StatusHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	entries := append([]*models.StatusHistoryEntry(nil), s.history[orderID]...)

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	return entries, nil
}

func (s *OrderStore) GetPayment(ctx context.Context, orderID string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	p, ok := s.payments[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (s *OrderStore) GetFirstShippingAddress(ctx context.Context, orderID string) (*models.ShippingAddress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	addrs := s.addresses[orderID]
	if len(addrs) == 0 {
		return nil, repository.ErrNotFound
	}
	return addrs[0], nil
}

func paginate[T any](all []T, q models.ListQuery) []T {
	start := q.Offset()
	if start < 0 {
		start = 0
	}
	if start >= len(all) {
		return []T{}
	}

	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}

	return all[start:end]
}
