package memrepo

import (
	"context"
	"strings"
	"sync"

	"github.com/wefi-dex/munchclub-admin/internal/models"
)

// CatalogStore is an in-memory catalog store. Items are returned in the
// order they were added.
type CatalogStore struct {
	mu       sync.Mutex
	books    []*models.Book
	recipes  []*models.Recipe
	payments []*models.Payment

	StatsValue models.Stats
	Err        error
}

// NewCatalogStore creates an empty CatalogStore
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{}
}

func (s *CatalogStore) AddBook(b *models.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = append(s.books, b)
}

func (s *CatalogStore) AddRecipe(r *models.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = append(s.recipes, r)
}

func (s *CatalogStore) AddPayment(p *models.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, p)
}

func matches(term, value string) bool {
	return term == "" || strings.Contains(strings.ToLower(value), strings.ToLower(term))
}

func (s *CatalogStore) ListBooks(ctx context.Context, q models.ListQuery) ([]*models.Book, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, 0, s.Err
	}

	var all []*models.Book
	for _, b := range s.books {
		if matches(q.Search, b.Title) {
			all = append(all, b)
		}
	}

	return paginate(all, q), int64(len(all)), nil
}

func (s *CatalogStore) ListRecipes(ctx context.Context, q models.ListQuery) ([]*models.Recipe, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, 0, s.Err
	}

	var all []*models.Recipe
	for _, r := range s.recipes {
		if matches(q.Search, r.Title) {
			all = append(all, r)
		}
	}

	return paginate(all, q), int64(len(all)), nil
}

func (s *CatalogStore) ListPayments(ctx context.Context, q models.ListQuery) ([]*models.Payment, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, 0, s.Err
	}

	var all []*models.Payment
	for _, p := range s.payments {
		if q.Status == "" || string(p.Status) == q.Status {
			all = append(all, p)
		}
	}

	return paginate(all, q), int64(len(all)), nil
}

func (s *CatalogStore) Stats(ctx context.Context) (*models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	stats := s.StatsValue
	return &stats, nil
}
