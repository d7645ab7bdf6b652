package user

import (
	"log/slog"

	"github.com/enviohq/envio-backend/internal"
)

type Repository interface {
	GetByID(userID int64) (*User, error)
	Delete(userID int64) error
}

// Cascader removes everything a user owns before the row itself goes.
type Cascader interface {
	DeleteUserCascade(userID int64) error
}

type Service struct {
	repo     Repository
	cascader Cascader
	logger   *slog.Logger
}

func NewService(repo Repository, cascader Cascader, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cascader: cascader,
		logger:   logger,
	}
}

func (s *Service) GetProfile(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		s.logger.Error("failed to get user profile", "error", err, "user_id", userID)
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return u, nil
}

// DeleteUser cascades delete through subscriptions, collection runs and
// cooperation documents (and transitively invoices and manifests) before
// removing the user row.
func (s *Service) DeleteUser(userID int64) error {
	if _, err := s.repo.GetByID(userID); err != nil {
		return internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if err := s.cascader.DeleteUserCascade(userID); err != nil {
		s.logger.Error("cascade delete failed", "error", err, "user_id", userID)
		return err
	}

	if err := s.repo.Delete(userID); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}
