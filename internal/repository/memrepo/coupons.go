package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CouponStore is an in-memory coupon store
type CouponStore struct {
	mu        sync.Mutex
	coupons   map[primitive.ObjectID]*models.Coupon
	lastQuery models.CouponQuery

	Err error
}

// NewCouponStore creates an empty CouponStore
func NewCouponStore() *CouponStore {
	return &CouponStore{
		coupons: make(map[primitive.ObjectID]*models.Coupon),
	}
}

// AddCoupon seeds a coupon, assigning an id when it has none
func (s *CouponStore) AddCoupon(c *models.Coupon) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	s.coupons[c.ID] = c
	return c.ID
}

// Coupon returns a snapshot of the stored coupon, or nil
func (s *CouponStore) Coupon(id primitive.ObjectID) *models.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.coupons[id]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

// LastQuery returns the query passed to the latest Find
func (s *CouponStore) LastQuery() models.CouponQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

func (s *CouponStore) Find(ctx context.Context, q models.CouponQuery) ([]*models.Coupon, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastQuery = q

	if s.Err != nil {
		return nil, 0, s.Err
	}

	term := strings.ToLower(q.Search)

	var all []*models.Coupon
	for _, c := range s.coupons {
		if term == "" || couponMatches(c, term) {
			all = append(all, c)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	page := paginate(all, models.ListQuery{Page: q.Page, Limit: q.Limit})
	return page, int64(len(all)), nil
}

func couponMatches(c *models.Coupon, term string) bool {
	for _, field := range []string{c.Code, c.PurchaserName, c.PurchaserEmail, c.RecipientName, c.RecipientEmail} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (s *CouponStore) MarkRedeemed(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrInvalidID
	}

	c, ok := s.coupons[oid]
	if !ok {
		return repository.ErrNotFound
	}

	c.Redeemed = true
	c.RedeemedAt = &at
	return nil
}

func (s *CouponStore) Counts(ctx context.Context) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return 0, 0, s.Err
	}

	var redeemed int64
	for _, c := range s.coupons {
		if c.Redeemed {
			redeemed++
		}
	}
	return int64(len(s.coupons)), redeemed, nil
}
