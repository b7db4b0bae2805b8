package repository

import (
	"context"
	"errors"
	"time"

	"github.com/flayve23/flayve-oficial/internal/model"
	"gorm.io/gorm"
)

var ErrCallNotFound = errors.New("CALL_NOT_FOUND")
var ErrNoRowsAffected = errors.New("NO_ROWS_AFFECTED")

type CallRequestRepository interface {
	Create(ctx context.Context, call *model.CallRequest) error
	GetByID(id int64) (*model.CallRequest, error)
	LatestRingingForStreamer(streamerID int64, window time.Duration) (*model.CallRequest, error)
	// UpdateStatusFrom transitions status only when the row still carries the
	// expected prior status; ErrNoRowsAffected signals a lost CAS race.
	UpdateStatusFrom(ctx context.Context, id int64, from, to model.CallStatus) error
	ExpireRinging(ctx context.Context, olderThan time.Time) (int64, error)
}

type CallRequest struct {
	db *gorm.DB
}

func NewCallRequestRepository(db *gorm.DB) CallRequestRepository {
	return &CallRequest{db: db}
}

func (c *CallRequest) Create(ctx context.Context, call *model.CallRequest) error {
	db := GetTx(ctx, c.db)
	return db.Create(call).Error
}

func (c *CallRequest) GetByID(id int64) (*model.CallRequest, error) {
	var call model.CallRequest

	err := c.db.Preload("Viewer").Preload("Streamer").Where("id = ?", id).First(&call).Error
	if err == nil {
		return &call, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCallNotFound
	}

	return nil, err
}

func (c *CallRequest) LatestRingingForStreamer(streamerID int64, window time.Duration) (*model.CallRequest, error) {
	var call model.CallRequest

	cutoff := time.Now().Add(-window)

	err := c.db.Preload("Viewer").
		Where("streamer_id = ? AND status = ? AND created_at > ?",
			streamerID, model.CallStatusRinging, cutoff).
		Order("created_at DESC").
		First(&call).Error
	if err == nil {
		return &call, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCallNotFound
	}

	return nil, err
}

func (c *CallRequest) UpdateStatusFrom(ctx context.Context, id int64, from, to model.CallStatus) error {
	db := GetTx(ctx, c.db)

	result := db.Model(&model.CallRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (c *CallRequest) ExpireRinging(ctx context.Context, olderThan time.Time) (int64, error) {
	db := GetTx(ctx, c.db)

	result := db.Model(&model.CallRequest{}).
		Where("status = ? AND created_at < ?", model.CallStatusRinging, olderThan).
		Updates(map[string]interface{}{"status": model.CallStatusTimeout, "updated_at": time.Now()})

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
