package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/internal/repository/memrepo"
	apperrors "github.com/wefi-dex/munchclub-admin/pkg/errors"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

func TestDeleteUserRunsEveryStep(t *testing.T) {
	users := memrepo.NewUserStore()
	users.AddUser(&models.User{ID: "usr-1", Name: "Ada"})
	users.FailStep("payments", errors.New("lock timeout"))

	svc := NewUserService(users, logger.NewNop())

	report, err := svc.DeleteUser(context.Background(), "usr-1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"status_history", "basket_items", "payments", "order_shipping",
		"orders", "shipping_addresses", "recipes", "books", "users",
	}, users.Executed())

	assert.True(t, report.Failed())
	require.Len(t, report.Steps, 9)
	assert.False(t, report.Steps[2].OK)
	assert.Equal(t, "lock timeout", report.Steps[2].Error)
	assert.True(t, report.Steps[8].OK)
	assert.False(t, users.Has("usr-1"))
}

func TestDeleteUserNotFound(t *testing.T) {
	users := memrepo.NewUserStore()
	svc := NewUserService(users, logger.NewNop())

	_, err := svc.DeleteUser(context.Background(), "usr-nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, users.Executed())

	_, err = svc.DeleteUser(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}
