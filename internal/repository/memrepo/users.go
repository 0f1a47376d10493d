package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/internal/repository"
)

// cleanupOrder mirrors the step order of repository.UserRepository
var cleanupOrder = []string{
	"status_history",
	"basket_items",
	"payments",
	"order_shipping",
	"orders",
	"shipping_addresses",
	"recipes",
	"books",
}

// UserStore is an in-memory user store
type UserStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	failures map[string]error
	executed []string

	Err error
}

// NewUserStore creates an empty UserStore
func NewUserStore() *UserStore {
	return &UserStore{
		users:    make(map[string]*models.User),
		failures: make(map[string]error),
	}
}

// AddUser seeds a user
func (s *UserStore) AddUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// FailStep makes the named cleanup step return err
func (s *UserStore) FailStep(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[name] = err
}

// Executed returns the names of the cleanup steps run so far
func (s *UserStore) Executed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.executed...)
}

// Has reports whether the user still exists
func (s *UserStore) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (s *UserStore) List(ctx context.Context, q models.ListQuery) ([]*models.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, 0, s.Err
	}

	term := strings.ToLower(q.Search)

	var all []*models.User
	for _, u := range s.users {
		if term != "" &&
			!strings.Contains(strings.ToLower(u.Name), term) &&
			!strings.Contains(strings.ToLower(u.Email), term) {
			continue
		}
		all = append(all, u)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return paginate(all, q), int64(len(all)), nil
}

func (s *UserStore) CleanupSteps(userID string) []models.CleanupStep {
	steps := make([]models.CleanupStep, 0, len(cleanupOrder)+1)

	for _, name := range append(append([]string(nil), cleanupOrder...), "users") {
		name := name
		steps = append(steps, models.CleanupStep{
			Name: name,
			Run: func(ctx context.Context) error {
				s.mu.Lock()
				defer s.mu.Unlock()

				s.executed = append(s.executed, name)

				if err := s.failures[name]; err != nil {
					return err
				}

				if name == "users" {
					if _, ok := s.users[userID]; !ok {
						return repository.ErrNotFound
					}
					delete(s.users, userID)
				}
				return nil
			},
		})
	}

	return steps
}
