package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/internal/repository/memrepo"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

func newAdminFixture() (*AdminService, *memrepo.UserStore, *memrepo.CatalogStore, *memrepo.CouponStore) {
	users := memrepo.NewUserStore()
	catalog := memrepo.NewCatalogStore()
	coupons := memrepo.NewCouponStore()

	return NewAdminService(users, catalog, coupons, logger.NewNop()), users, catalog, coupons
}

func TestAdminListUsersSearch(t *testing.T) {
	svc, users, _, _ := newAdminFixture()

	users.AddUser(&models.User{ID: "u1", Name: "Ada Lovelace", Email: "ada@example.com"})
	users.AddUser(&models.User{ID: "u2", Name: "Alan Turing", Email: "alan@example.com"})

	page, err := svc.ListUsers(context.Background(), models.NewListQuery("LOVE", "", 1, 10, models.MaxPageSize))
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "u1", page.Items[0].ID)
	assert.Equal(t, int64(1), page.Total)
}

func TestAdminListPaymentsByStatus(t *testing.T) {
	svc, _, catalog, _ := newAdminFixture()

	catalog.AddPayment(&models.Payment{ID: "p1", Status: models.PaymentStatusSuccessful})
	catalog.AddPayment(&models.Payment{ID: "p2", Status: models.PaymentStatusRefunded})

	page, err := svc.ListPayments(context.Background(), models.NewListQuery("", "refunded", 1, 10, models.MaxPageSize))
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "p2", page.Items[0].ID)
}

func TestAdminListBooksAndRecipes(t *testing.T) {
	svc, _, catalog, _ := newAdminFixture()

	catalog.AddBook(&models.Book{ID: "b1", Title: "Soups"})
	catalog.AddBook(&models.Book{ID: "b2", Title: "Breads"})
	catalog.AddRecipe(&models.Recipe{ID: "r1", Title: "Sourdough"})

	books, err := svc.ListBooks(context.Background(), models.NewListQuery("bread", "", 1, 10, models.MaxPageSize))
	require.NoError(t, err)
	require.Len(t, books.Items, 1)
	assert.Equal(t, "b2", books.Items[0].ID)

	recipes, err := svc.ListRecipes(context.Background(), models.NewListQuery("", "", 1, 10, models.MaxPageSize))
	require.NoError(t, err)
	assert.Equal(t, int64(1), recipes.Total)
}

func TestAdminStatsIncludesCoupons(t *testing.T) {
	svc, _, catalog, coupons := newAdminFixture()

	catalog.StatsValue = models.Stats{Users: 3, Orders: 4, Revenue: decimal.RequireFromString("99.50")}
	coupons.AddCoupon(&models.Coupon{Code: "A", Redeemed: true})
	coupons.AddCoupon(&models.Coupon{Code: "B"})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Users)
	assert.Equal(t, int64(2), stats.Coupons)
	assert.Equal(t, int64(1), stats.RedeemedCoupons)

	coupons.Err = errors.New("no reachable servers")

	stats, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Coupons)
}
