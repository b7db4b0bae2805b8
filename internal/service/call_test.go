package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flayve23/flayve-oficial/internal/config"
	"github.com/flayve23/flayve-oficial/internal/constants"
	"github.com/flayve23/flayve-oficial/internal/mocks"
	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/flayve23/flayve-oficial/internal/repository"
	"github.com/flayve23/flayve-oficial/internal/service"
	"github.com/flayve23/flayve-oficial/pkg/videotoken"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type callFixture struct {
	calls    *mocks.CallRequestRepository
	users    *mocks.UserRepository
	profiles *mocks.ProfileRepository
	ledgers  *mocks.LedgerRepository
	txMgr    *mocks.TxManager
	tokens   *mocks.VideoIssuer
	svc      service.CallService
}

func newCallFixture(commissionRate float64) *callFixture {
	cfg := &config.Config{
		Billing: config.Billing{DefaultCommissionRate: commissionRate, PlatformAccountID: 1},
		Calls:   config.Calls{RingingWindow: 30 * time.Second},
	}

	f := &callFixture{
		calls:    &mocks.CallRequestRepository{},
		users:    &mocks.UserRepository{},
		profiles: &mocks.ProfileRepository{},
		ledgers:  &mocks.LedgerRepository{},
		txMgr:    &mocks.TxManager{},
		tokens:   &mocks.VideoIssuer{},
	}

	f.svc = service.NewCallService(cfg, zap.NewNop(), f.calls, f.users, f.profiles,
		f.ledgers, f.txMgr, service.NewBillingService(cfg), f.tokens)

	return f
}

func streamerProfileFixture(userID int64, price string) *model.Profile {
	return &model.Profile{
		UserID:         userID,
		PricePerMinute: decimal.RequireFromString(price),
		IsOnline:       true,
		IsPublic:       true,
	}
}

func TestCall_Request(t *testing.T) {
	cmd := service.RequestCallCommand{ViewerID: 10, StreamerID: 20}

	t.Run("creates ringing session when viewer can afford a minute", func(t *testing.T) {
		f := newCallFixture(0.30)

		f.users.On("GetByID", int64(20)).Return(&model.User{ID: 20, Role: model.RoleStreamer}, nil)
		f.profiles.On("GetByUserID", int64(20)).Return(streamerProfileFixture(20, "10.00"), nil)
		f.ledgers.On("SumCompletedByUser", mock.Anything, int64(10), false).
			Return(decimal.RequireFromString("15.00"), nil)
		f.calls.On("Create", mock.Anything, mock.MatchedBy(func(c *model.CallRequest) bool {
			return c.ViewerID == 10 && c.StreamerID == 20 && c.Status == model.CallStatusRinging
		})).Return(nil)

		resp, err := f.svc.Request(context.Background(), cmd)

		assert.NoError(t, err)
		assert.Equal(t, "ringing", resp.Status)
		f.calls.AssertExpectations(t)
	})

	t.Run("rejects viewer who cannot afford one minute", func(t *testing.T) {
		f := newCallFixture(0.30)

		f.users.On("GetByID", int64(20)).Return(&model.User{ID: 20, Role: model.RoleStreamer}, nil)
		f.profiles.On("GetByUserID", int64(20)).Return(streamerProfileFixture(20, "10.00"), nil)
		f.ledgers.On("SumCompletedByUser", mock.Anything, int64(10), false).
			Return(decimal.RequireFromString("9.99"), nil)

		_, err := f.svc.Request(context.Background(), cmd)

		var insufficient service.InsufficientFundsError
		assert.True(t, errors.As(err, &insufficient))
		assert.Equal(t, "10.00", insufficient.Required.StringFixed(2))
		assert.Equal(t, "9.99", insufficient.Available.StringFixed(2))
		f.calls.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects target who is not a streamer", func(t *testing.T) {
		f := newCallFixture(0.30)

		f.users.On("GetByID", int64(20)).Return(&model.User{ID: 20, Role: model.RoleViewer}, nil)

		_, err := f.svc.Request(context.Background(), cmd)

		var svcErr service.Error
		assert.True(t, errors.As(err, &svcErr))
		assert.Equal(t, constants.ErrCodeStreamerNotFound, svcErr.Code)
	})

	t.Run("rejects calling yourself", func(t *testing.T) {
		f := newCallFixture(0.30)

		_, err := f.svc.Request(context.Background(), service.RequestCallCommand{ViewerID: 10, StreamerID: 10})

		var svcErr service.Error
		assert.True(t, errors.As(err, &svcErr))
		assert.Equal(t, constants.ErrCodeInvalidState, svcErr.Code)
	})
}

func TestCall_PollIncoming(t *testing.T) {
	t.Run("reports newest ringing call", func(t *testing.T) {
		f := newCallFixture(0.30)

		f.calls.On("LatestRingingForStreamer", int64(20), 30*time.Second).Return(&model.CallRequest{
			ID: 7, ViewerID: 10, StreamerID: 20, Status: model.CallStatusRinging,
			Viewer: model.User{ID: 10, Username: "alice"},
		}, nil)

		resp, err := f.svc.PollIncoming(context.Background(), 20)

		assert.NoError(t, err)
		assert.True(t, resp.Active)
		assert.Equal(t, int64(7), resp.CallID)
		assert.Equal(t, "alice", resp.ViewerName)
	})

	t.Run("reports nothing when no call is ringing", func(t *testing.T) {
		f := newCallFixture(0.30)

		f.calls.On("LatestRingingForStreamer", int64(20), 30*time.Second).
			Return(nil, repository.ErrCallNotFound)

		resp, err := f.svc.PollIncoming(context.Background(), 20)

		assert.NoError(t, err)
		assert.False(t, resp.Active)
	})
}

func TestCall_Answer(t *testing.T) {
	ringing := &model.CallRequest{ID: 7, ViewerID: 10, StreamerID: 20, Status: model.CallStatusRinging}

	t.Run("accept mints credential and flips to accepted", func(t *testing.T) {
		f := newCallFixture(0.30)

		f.calls.On("GetByID", int64(7)).Return(ringing, nil)
		f.tokens.On("Mint", "call_7", "user_20", "bob", mock.MatchedBy(func(g videotoken.Grant) bool {
			return g.Room == "call_7" && g.RoomJoin && g.CanPublish && g.CanSubscribe
		})).Return(videotoken.JoinCredential{Token: "jwt", Room: "call_7"}, nil)
		f.calls.On("UpdateStatusFrom", mock.Anything, int64(7),
			model.CallStatusRinging, model.CallStatusAccepted).Return(nil)

		resp, err := f.svc.Answer(context.Background(),
			service.AnswerCallCommand{StreamerID: 20, StreamerName: "bob", CallID: 7, Accept: true})

		assert.NoError(t, err)
		assert.Equal(t, "accepted", resp.Status)
		assert.Equal(t, "jwt", resp.Credential.Token)
		f.calls.AssertExpectations(t)
	})

	t.Run("reject flips to rejected without credential", func(t *testing.T) {
		f := newCallFixture(0.30)

		f.calls.On("GetByID", int64(7)).Return(ringing, nil)
		f.calls.On("UpdateStatusFrom", mock.Anything, int64(7),
			model.CallStatusRinging, model.CallStatusRejected).Return(nil)

		resp, err := f.svc.Answer(context.Background(),
			service.AnswerCallCommand{StreamerID: 20, CallID: 7, Accept: false})

		assert.NoError(t, err)
		assert.Equal(t, "rejected", resp.Status)
		assert.Nil(t, resp.Credential)
		f.tokens.AssertNotCalled(t, "Mint", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("forbidden for a non participant", func(t *testing.T) {
		f := newCallFixture(0.30)

		f.calls.On("GetByID", int64(7)).Return(ringing, nil)

		_, err := f.svc.Answer(context.Background(),
			service.AnswerCallCommand{StreamerID: 99, CallID: 7, Accept: true})

		var svcErr service.Error
		assert.True(t, errors.As(err, &svcErr))
		assert.Equal(t, constants.ErrCodeForbidden, svcErr.Code)
	})

	t.Run("invalid state when no longer ringing", func(t *testing.T) {
		f := newCallFixture(0.30)

		f.calls.On("GetByID", int64(7)).Return(&model.CallRequest{
			ID: 7, ViewerID: 10, StreamerID: 20, Status: model.CallStatusTimeout,
		}, nil)

		_, err := f.svc.Answer(context.Background(),
			service.AnswerCallCommand{StreamerID: 20, CallID: 7, Accept: true})

		var svcErr service.Error
		assert.True(t, errors.As(err, &svcErr))
		assert.Equal(t, constants.ErrCodeInvalidState, svcErr.Code)
	})

	t.Run("lost race on the status flip surfaces invalid state", func(t *testing.T) {
		f := newCallFixture(0.30)

		f.calls.On("GetByID", int64(7)).Return(ringing, nil).Once()
		f.tokens.On("Mint", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(videotoken.JoinCredential{Token: "jwt"}, nil)
		f.calls.On("UpdateStatusFrom", mock.Anything, int64(7),
			model.CallStatusRinging, model.CallStatusAccepted).Return(repository.ErrNoRowsAffected)
		f.calls.On("GetByID", int64(7)).Return(&model.CallRequest{
			ID: 7, ViewerID: 10, StreamerID: 20, Status: model.CallStatusTimeout,
		}, nil).Once()

		_, err := f.svc.Answer(context.Background(),
			service.AnswerCallCommand{StreamerID: 20, CallID: 7, Accept: true})

		var svcErr service.Error
		assert.True(t, errors.As(err, &svcErr))
		assert.Equal(t, constants.ErrCodeInvalidState, svcErr.Code)
		assert.ErrorIs(t, svcErr.Cause, service.ErrCallAlreadySettled)
	})
}

func TestCall_PollStatus(t *testing.T) {
	t.Run("viewer gets credential once accepted", func(t *testing.T) {
		f := newCallFixture(0.30)

		f.calls.On("GetByID", int64(7)).Return(&model.CallRequest{
			ID: 7, ViewerID: 10, StreamerID: 20, Status: model.CallStatusAccepted,
		}, nil)
		f.tokens.On("Mint", "call_7", "user_10", "alice", mock.Anything).
			Return(videotoken.JoinCredential{Token: "viewer-jwt", Room: "call_7"}, nil)

		resp, err := f.svc.PollStatus(context.Background(),
			service.PollStatusCommand{ViewerID: 10, ViewerName: "alice", CallID: 7})

		assert.NoError(t, err)
		assert.Equal(t, "accepted", resp.Status)
		assert.Equal(t, "viewer-jwt", resp.Credential.Token)
	})

	t.Run("no credential while still ringing", func(t *testing.T) {
		f := newCallFixture(0.30)

		f.calls.On("GetByID", int64(7)).Return(&model.CallRequest{
			ID: 7, ViewerID: 10, StreamerID: 20, Status: model.CallStatusRinging,
		}, nil)

		resp, err := f.svc.PollStatus(context.Background(),
			service.PollStatusCommand{ViewerID: 10, CallID: 7})

		assert.NoError(t, err)
		assert.Equal(t, "ringing", resp.Status)
		assert.Nil(t, resp.Credential)
	})

	t.Run("forbidden for a non participant", func(t *testing.T) {
		f := newCallFixture(0.30)

		f.calls.On("GetByID", int64(7)).Return(&model.CallRequest{
			ID: 7, ViewerID: 10, StreamerID: 20, Status: model.CallStatusRinging,
		}, nil)

		_, err := f.svc.PollStatus(context.Background(),
			service.PollStatusCommand{ViewerID: 55, CallID: 7})

		var svcErr service.Error
		assert.True(t, errors.As(err, &svcErr))
		assert.Equal(t, constants.ErrCodeForbidden, svcErr.Code)
	})
}

func TestCall_End(t *testing.T) {
	accepted := &model.CallRequest{ID: 7, ViewerID: 10, StreamerID: 20, Status: model.CallStatusAccepted}

	t.Run("ninety seconds at ten per minute with twenty percent commission", func(t *testing.T) {
		f := newCallFixture(0.20)

		f.calls.On("GetByID", int64(7)).Return(accepted, nil)
		f.profiles.On("GetByUserID", int64(20)).Return(streamerProfileFixture(20, "10.00"), nil)
		f.txMgr.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.calls.On("UpdateStatusFrom", mock.Anything, int64(7),
			model.CallStatusAccepted, model.CallStatusCompleted).Return(nil)
		f.ledgers.On("SumCompletedByUser", mock.Anything, int64(10), true).
			Return(decimal.RequireFromString("100.00"), nil)

		f.ledgers.On("Create", mock.Anything, mock.MatchedBy(func(tx *model.Transaction) bool {
			return tx.UserID == 10 && tx.Type == model.TxTypeCallPayment &&
				tx.Amount.Equal(decimal.RequireFromString("20.00")) && tx.Status == model.TxStatusCompleted
		})).Return(nil)
		f.ledgers.On("Create", mock.Anything, mock.MatchedBy(func(tx *model.Transaction) bool {
			return tx.UserID == 20 && tx.Type == model.TxTypeCallEarning &&
				tx.Amount.Equal(decimal.RequireFromString("16.00")) && tx.Status == model.TxStatusCompleted
		})).Return(nil)
		f.ledgers.On("Create", mock.Anything, mock.MatchedBy(func(tx *model.Transaction) bool {
			return tx.UserID == 1 && tx.Type == model.TxTypePlatformFee &&
				tx.Amount.Equal(decimal.RequireFromString("4.00")) && tx.Status == model.TxStatusCompleted
		})).Return(nil)

		resp, err := f.svc.End(context.Background(),
			service.EndCallCommand{CallerID: 10, CallID: 7, DurationSeconds: 90})

		assert.NoError(t, err)
		assert.Equal(t, "20.00", resp.Charged.StringFixed(2))
		assert.Equal(t, "16.00", resp.StreamerEarned.StringFixed(2))
		assert.Equal(t, "4.00", resp.PlatformFee.StringFixed(2))
		assert.Equal(t, int64(2), resp.DurationMinutes)
		f.ledgers.AssertNumberOfCalls(t, "Create", 3)
	})

	t.Run("insufficient funds rolls back and fails the session", func(t *testing.T) {
		f := newCallFixture(0.20)

		f.calls.On("GetByID", int64(7)).Return(accepted, nil)
		f.profiles.On("GetByUserID", int64(20)).Return(streamerProfileFixture(20, "10.00"), nil)
		f.txMgr.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.calls.On("UpdateStatusFrom", mock.Anything, int64(7),
			model.CallStatusAccepted, model.CallStatusCompleted).Return(nil)
		f.ledgers.On("SumCompletedByUser", mock.Anything, int64(10), true).
			Return(decimal.RequireFromString("5.00"), nil)
		f.calls.On("UpdateStatusFrom", mock.Anything, int64(7),
			model.CallStatusAccepted, model.CallStatusFailed).Return(nil)

		_, err := f.svc.End(context.Background(),
			service.EndCallCommand{CallerID: 10, CallID: 7, DurationSeconds: 90})

		var insufficient service.InsufficientFundsError
		assert.True(t, errors.As(err, &insufficient))
		assert.Equal(t, "20.00", insufficient.Required.StringFixed(2))
		f.ledgers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.calls.AssertCalled(t, "UpdateStatusFrom", mock.Anything, int64(7),
			model.CallStatusAccepted, model.CallStatusFailed)
	})

	t.Run("double settlement is rejected", func(t *testing.T) {
		f := newCallFixture(0.20)

		completed := &model.CallRequest{ID: 7, ViewerID: 10, StreamerID: 20, Status: model.CallStatusCompleted}

		f.calls.On("GetByID", int64(7)).Return(completed, nil)
		f.profiles.On("GetByUserID", int64(20)).Return(streamerProfileFixture(20, "10.00"), nil)
		f.txMgr.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.calls.On("UpdateStatusFrom", mock.Anything, int64(7),
			model.CallStatusAccepted, model.CallStatusCompleted).Return(repository.ErrNoRowsAffected)

		_, err := f.svc.End(context.Background(),
			service.EndCallCommand{CallerID: 10, CallID: 7, DurationSeconds: 90})

		var svcErr service.Error
		assert.True(t, errors.As(err, &svcErr))
		assert.Equal(t, constants.ErrCodeInvalidState, svcErr.Code)
		assert.ErrorIs(t, svcErr.Cause, service.ErrCallAlreadySettled)
		f.ledgers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("zero duration completes without postings", func(t *testing.T) {
		f := newCallFixture(0.20)

		f.calls.On("GetByID", int64(7)).Return(accepted, nil)
		f.profiles.On("GetByUserID", int64(20)).Return(streamerProfileFixture(20, "10.00"), nil)
		f.txMgr.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.calls.On("UpdateStatusFrom", mock.Anything, int64(7),
			model.CallStatusAccepted, model.CallStatusCompleted).Return(nil)

		resp, err := f.svc.End(context.Background(),
			service.EndCallCommand{CallerID: 20, CallID: 7, DurationSeconds: 0})

		assert.NoError(t, err)
		assert.Equal(t, "0.00", resp.Charged.StringFixed(2))
		f.ledgers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("forbidden for a non participant", func(t *testing.T) {
		f := newCallFixture(0.20)

		f.calls.On("GetByID", int64(7)).Return(accepted, nil)

		_, err := f.svc.End(context.Background(),
			service.EndCallCommand{CallerID: 55, CallID: 7, DurationSeconds: 90})

		var svcErr service.Error
		assert.True(t, errors.As(err, &svcErr))
		assert.Equal(t, constants.ErrCodeForbidden, svcErr.Code)
	})
}

func TestCall_CheckBalance(t *testing.T) {
	f := newCallFixture(0.30)

	f.users.On("GetByID", int64(20)).Return(&model.User{ID: 20, Role: model.RoleStreamer}, nil)
	f.profiles.On("GetByUserID", int64(20)).Return(streamerProfileFixture(20, "10.00"), nil)
	f.ledgers.On("SumCompletedByUser", mock.Anything, int64(10), false).
		Return(decimal.RequireFromString("35.00"), nil)

	resp, err := f.svc.CheckBalance(context.Background(), 10, 20)

	assert.NoError(t, err)
	assert.True(t, resp.CanCall)
	assert.Equal(t, int64(3), resp.EstimatedMinutes)
	assert.Equal(t, "35.00", resp.Balance.StringFixed(2))
}

func TestCall_ExpireStaleRinging(t *testing.T) {
	f := newCallFixture(0.30)

	f.calls.On("ExpireRinging", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		return time.Since(cutoff) >= 30*time.Second
	})).Return(int64(3), nil)

	count, err := f.svc.ExpireStaleRinging(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
