package repository

import (
	"context"
	"errors"

	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("PROFILE_NOT_FOUND")

type ProfileRepository interface {
	GetByUserID(userID int64) (*model.Profile, error)
	Create(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
	ListPublicOnline() ([]model.Profile, error)
	SetOnline(ctx context.Context, userID int64, online bool) error
	UpdateCommissionRate(ctx context.Context, userID int64, rate *decimal.Decimal) error
}

type Profile struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &Profile{db: db}
}

func (p *Profile) GetByUserID(userID int64) (*model.Profile, error) {
	var profile model.Profile

	err := p.db.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}

	return nil, err
}

func (p *Profile) Create(ctx context.Context, profile *model.Profile) error {
	db := GetTx(ctx, p.db)
	return db.Create(profile).Error
}

func (p *Profile) Update(ctx context.Context, profile *model.Profile) error {
	db := GetTx(ctx, p.db)
	return db.Model(profile).Where("user_id = ?", profile.UserID).
		Select("bio_name", "bio_description", "photo_url", "price_per_minute", "is_public", "updated_at").
		Updates(profile).Error
}

func (p *Profile) ListPublicOnline() ([]model.Profile, error) {
	var profiles []model.Profile

	err := p.db.Joins("User").
		Where("User.role = ? AND profiles.is_public = ? AND profiles.is_online = ?",
			model.RoleStreamer, true, true).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

// SetOnline flips the online flag, creating the profile row on first toggle.
func (p *Profile) SetOnline(ctx context.Context, userID int64, online bool) error {
	db := GetTx(ctx, p.db)

	result := db.Model(&model.Profile{}).Where("user_id = ?", userID).Update("is_online", online)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return db.Create(&model.Profile{UserID: userID, IsOnline: online}).Error
	}

	return nil
}

// UpdateCommissionRate sets or clears the per-streamer override, creating the
// profile row when the streamer never saved one.
func (p *Profile) UpdateCommissionRate(ctx context.Context, userID int64, rate *decimal.Decimal) error {
	db := GetTx(ctx, p.db)

	result := db.Model(&model.Profile{}).Where("user_id = ?", userID).Update("custom_commission_rate", rate)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return db.Create(&model.Profile{UserID: userID, CustomCommissionRate: rate}).Error
	}

	return nil
}
