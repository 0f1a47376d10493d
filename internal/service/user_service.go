package service

import (
	"context"
	"errors"
	"strings"

	"github.com/wefi-dex/munchclub-admin/internal/models"
	"github.com/wefi-dex/munchclub-admin/internal/repository"
	apperrors "github.com/wefi-dex/munchclub-admin/pkg/errors"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
)

// UserService handles user administration
type UserService struct {
	users  UserStore
	logger logger.Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserStore, logger logger.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// DeleteUser removes a user and the rows that depend on them. Steps run in
// order; a failing step is logged and recorded, and the rest still run.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*models.CleanupReport, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewInvalidArgumentError("User ID is required")
	}

	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, storeError(err, "User not found")
	}

	report := &models.CleanupReport{UserID: id}

	for _, step := range s.users.CleanupSteps(id) {
		res := models.CleanupResult{Name: step.Name, OK: true}

		if err := step.Run(ctx); err != nil {
			res.OK = false
			res.Error = err.Error()

			// someone else removed the user between the check and this step
			if step.Name == "users" && errors.Is(err, repository.ErrNotFound) {
				res.OK = true
				res.Error = ""
			} else {
				s.logger.Error("User cleanup step failed", "error", err, "userID", id, "step", step.Name)
			}
		}

		report.Steps = append(report.Steps, res)
	}

	s.logger.Info("User deleted", "userID", id, "failedSteps", report.Failed())

	return report, nil
}
