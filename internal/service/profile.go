package service

import (
	"context"
	"errors"

	"github.com/flayve23/flayve-oficial/internal/constants"
	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/flayve23/flayve-oficial/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var decimalOne = decimal.NewFromInt(1)

// ProfileService covers streamer self-service and the admin surface. Role and
// commission changes are admin-only; the handlers enforce the role, the
// service enforces the data rules.
type ProfileService interface {
	Get(ctx context.Context, userID int64) (*ProfileResponse, error)
	GetPublic(ctx context.Context, userID int64) (*ProfileResponse, error)
	Upsert(ctx context.Context, cmd UpdateProfileCommand) (*ProfileResponse, error)
	SetOnline(ctx context.Context, userID int64, online bool) error
	ListExplorer(ctx context.Context) ([]ProfileResponse, error)
	UpdateRole(ctx context.Context, cmd UpdateRoleCommand) error
	UpdateCommission(ctx context.Context, cmd UpdateCommissionCommand) error
	ListUsers(ctx context.Context, search string, limit int) ([]model.User, error)
}

type profile struct {
	logger   *zap.Logger
	profiles repository.ProfileRepository
	users    repository.UserRepository
}

func NewProfileService(logger *zap.Logger, profiles repository.ProfileRepository, users repository.UserRepository) ProfileService {
	return &profile{logger: logger, profiles: profiles, users: users}
}

func (s *profile) Get(ctx context.Context, userID int64) (*ProfileResponse, error) {
	p, err := s.profiles.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, NewServiceError(constants.ErrCodeUserNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	resp := toProfileResponse(*p)

	return &resp, nil
}

// GetPublic resolves a profile for the discovery surface. Hidden profiles are
// indistinguishable from missing ones.
func (s *profile) GetPublic(ctx context.Context, userID int64) (*ProfileResponse, error) {
	p, err := s.profiles.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, NewServiceError(constants.ErrCodeUserNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	if !p.IsPublic {
		return nil, NewServiceError(constants.ErrCodeUserNotFound, repository.ErrProfileNotFound)
	}

	resp := toProfileResponse(*p)

	return &resp, nil
}

func (s *profile) Upsert(ctx context.Context, cmd UpdateProfileCommand) (*ProfileResponse, error) {
	if cmd.PricePerMinute.IsNegative() {
		return nil, NewServiceError(constants.ErrCodeValidationFailed,
			errors.New("price per minute cannot be negative"))
	}

	existing, err := s.profiles.GetByUserID(cmd.UserID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	p := &model.Profile{
		UserID:         cmd.UserID,
		BioName:        cmd.BioName,
		BioDescription: cmd.BioDescription,
		PhotoURL:       cmd.PhotoURL,
		PricePerMinute: cmd.PricePerMinute,
		IsPublic:       cmd.IsPublic,
	}

	if existing == nil {
		if err := s.profiles.Create(ctx, p); err != nil {
			return nil, NewServiceError(constants.ErrCodeInternalError, err)
		}
	} else {
		p.ID = existing.ID
		p.IsOnline = existing.IsOnline
		if err := s.profiles.Update(ctx, p); err != nil {
			return nil, NewServiceError(constants.ErrCodeInternalError, err)
		}
	}

	s.logger.Info("profile saved", zap.Int64("user_id", cmd.UserID))

	resp := toProfileResponse(*p)

	return &resp, nil
}

func (s *profile) SetOnline(ctx context.Context, userID int64, online bool) error {
	if err := s.profiles.SetOnline(ctx, userID, online); err != nil {
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	return nil
}

// ListExplorer returns the discovery feed: public profiles of online
// streamers, nothing else.
func (s *profile) ListExplorer(ctx context.Context) ([]ProfileResponse, error) {
	profiles, err := s.profiles.ListPublicOnline()
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	out := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}

	return out, nil
}

func (s *profile) UpdateRole(ctx context.Context, cmd UpdateRoleCommand) error {
	if !cmd.NewRole.Valid() {
		return NewServiceError(constants.ErrCodeValidationFailed,
			errors.New("unknown role"))
	}

	err := s.users.UpdateRole(ctx, cmd.UserID, cmd.NewRole)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return NewServiceError(constants.ErrCodeUserNotFound, err)
		}
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	s.logger.Info("role updated",
		zap.Int64("admin_id", cmd.AdminID),
		zap.Int64("user_id", cmd.UserID),
		zap.String("role", string(cmd.NewRole)))

	return nil
}

func (s *profile) UpdateCommission(ctx context.Context, cmd UpdateCommissionCommand) error {
	if cmd.Rate != nil && (cmd.Rate.IsNegative() || cmd.Rate.GreaterThan(decimalOne)) {
		return NewServiceError(constants.ErrCodeValidationFailed,
			errors.New("commission rate must be between 0 and 1"))
	}

	if err := s.profiles.UpdateCommissionRate(ctx, cmd.UserID, cmd.Rate); err != nil {
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	s.logger.Info("commission rate updated",
		zap.Int64("admin_id", cmd.AdminID),
		zap.Int64("user_id", cmd.UserID))

	return nil
}

func (s *profile) ListUsers(ctx context.Context, search string, limit int) ([]model.User, error) {
	users, err := s.users.List(search, limit)
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	return users, nil
}

func toProfileResponse(p model.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:         p.UserID,
		Username:       p.User.Username,
		BioName:        p.BioName,
		BioDescription: p.BioDescription,
		PhotoURL:       p.PhotoURL,
		PricePerMinute: p.PricePerMinute,
		IsOnline:       p.IsOnline,
		IsPublic:       p.IsPublic,
	}
}
