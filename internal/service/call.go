package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flayve23/flayve-oficial/internal/config"
	"github.com/flayve23/flayve-oficial/internal/constants"
	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/flayve23/flayve-oficial/internal/repository"
	"github.com/flayve23/flayve-oficial/pkg/videotoken"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CallService drives the call session state machine:
//
//	ringing -> accepted -> completed|failed
//	ringing -> rejected | timeout
//
// Every transition goes through a conditional update, so two racing writers
// cannot both move the same session. Settlement of an accepted call posts the
// viewer debit and streamer credit atomically with the status flip.
type CallService interface {
	Request(ctx context.Context, cmd RequestCallCommand) (*RequestCallResponse, error)
	PollIncoming(ctx context.Context, streamerID int64) (*IncomingCallResponse, error)
	Answer(ctx context.Context, cmd AnswerCallCommand) (*AnswerCallResponse, error)
	PollStatus(ctx context.Context, cmd PollStatusCommand) (*CallStatusResponse, error)
	End(ctx context.Context, cmd EndCallCommand) (*EndCallResponse, error)
	CheckBalance(ctx context.Context, viewerID, streamerID int64) (*CheckBalanceResponse, error)
	ExpireStaleRinging(ctx context.Context) (int64, error)
}

type call struct {
	cfg      *config.Config
	logger   *zap.Logger
	calls    repository.CallRequestRepository
	users    repository.UserRepository
	profiles repository.ProfileRepository
	ledgers  repository.LedgerRepository
	txMgr    repository.TxManager
	billing  BillingService
	tokens   videotoken.Issuer
}

func NewCallService(
	cfg *config.Config,
	logger *zap.Logger,
	calls repository.CallRequestRepository,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	ledgers repository.LedgerRepository,
	txMgr repository.TxManager,
	billing BillingService,
	tokens videotoken.Issuer,
) CallService {
	return &call{
		cfg:      cfg,
		logger:   logger,
		calls:    calls,
		users:    users,
		profiles: profiles,
		ledgers:  ledgers,
		txMgr:    txMgr,
		billing:  billing,
		tokens:   tokens,
	}
}

func roomName(callID int64) string {
	return fmt.Sprintf("call_%d", callID)
}

// Request opens a ringing session after checking the viewer can afford at
// least one minute at the streamer's rate. The check is advisory; the binding
// check happens at settlement.
func (s *call) Request(ctx context.Context, cmd RequestCallCommand) (*RequestCallResponse, error) {
	if cmd.ViewerID == cmd.StreamerID {
		return nil, NewServiceError(constants.ErrCodeInvalidState,
			errors.New("cannot call yourself"))
	}

	profile, err := s.streamerProfile(cmd.StreamerID)
	if err != nil {
		return nil, err
	}

	balance, err := s.ledgers.SumCompletedByUser(ctx, cmd.ViewerID, false)
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}
	if balance.LessThan(profile.PricePerMinute) {
		return nil, InsufficientFundsError{Required: profile.PricePerMinute, Available: balance}
	}

	session := &model.CallRequest{
		ViewerID:   cmd.ViewerID,
		StreamerID: cmd.StreamerID,
		Status:     model.CallStatusRinging,
	}
	if err := s.calls.Create(ctx, session); err != nil {
		s.logger.Error("failed to create call request",
			zap.Int64("viewer_id", cmd.ViewerID), zap.Int64("streamer_id", cmd.StreamerID), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	s.logger.Info("call ringing",
		zap.Int64("call_id", session.ID),
		zap.Int64("viewer_id", cmd.ViewerID),
		zap.Int64("streamer_id", cmd.StreamerID))

	return &RequestCallResponse{CallID: session.ID, Status: string(session.Status)}, nil
}

// PollIncoming reports the newest session still ringing for the streamer.
// Calls older than the ringing window are invisible here even before the
// sweeper marks them timed out.
func (s *call) PollIncoming(ctx context.Context, streamerID int64) (*IncomingCallResponse, error) {
	session, err := s.calls.LatestRingingForStreamer(streamerID, s.cfg.Calls.RingingWindow)
	if err != nil {
		if errors.Is(err, repository.ErrCallNotFound) {
			return &IncomingCallResponse{Active: false}, nil
		}
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	return &IncomingCallResponse{
		Active:     true,
		CallID:     session.ID,
		ViewerID:   session.ViewerID,
		ViewerName: session.Viewer.Username,
	}, nil
}

// Answer resolves a ringing session. The room credential is minted before the
// status flip; when the conditional update loses the race the credential is
// discarded and the caller sees an invalid state error.
func (s *call) Answer(ctx context.Context, cmd AnswerCallCommand) (*AnswerCallResponse, error) {
	session, err := s.getCall(cmd.CallID)
	if err != nil {
		return nil, err
	}

	if session.StreamerID != cmd.StreamerID {
		return nil, NewServiceError(constants.ErrCodeForbidden, ErrNotParticipant)
	}

	if session.Status != model.CallStatusRinging {
		return nil, NewServiceError(constants.ErrCodeInvalidState,
			fmt.Errorf("call %d is %s, not ringing", session.ID, session.Status))
	}

	if !cmd.Accept {
		if err := s.transition(ctx, session.ID, model.CallStatusRinging, model.CallStatusRejected); err != nil {
			return nil, err
		}

		s.logger.Info("call rejected", zap.Int64("call_id", session.ID))

		return &AnswerCallResponse{CallID: session.ID, Status: string(model.CallStatusRejected)}, nil
	}

	credential, err := s.tokens.Mint(roomName(session.ID),
		fmt.Sprintf("user_%d", cmd.StreamerID), cmd.StreamerName, videotoken.Grant{
			Room:         roomName(session.ID),
			RoomJoin:     true,
			CanPublish:   true,
			CanSubscribe: true,
		})
	if err != nil {
		s.logger.Error("failed to mint room credential",
			zap.Int64("call_id", session.ID), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeExternalService, err)
	}

	if err := s.transition(ctx, session.ID, model.CallStatusRinging, model.CallStatusAccepted); err != nil {
		return nil, err
	}

	s.logger.Info("call accepted", zap.Int64("call_id", session.ID))

	return &AnswerCallResponse{
		CallID:     session.ID,
		Status:     string(model.CallStatusAccepted),
		Credential: &credential,
	}, nil
}

// PollStatus lets the viewer follow the session. Once the streamer accepts,
// the viewer receives their own room credential here.
func (s *call) PollStatus(ctx context.Context, cmd PollStatusCommand) (*CallStatusResponse, error) {
	session, err := s.getCall(cmd.CallID)
	if err != nil {
		return nil, err
	}

	if session.ViewerID != cmd.ViewerID {
		return nil, NewServiceError(constants.ErrCodeForbidden, ErrNotParticipant)
	}

	resp := &CallStatusResponse{CallID: session.ID, Status: string(session.Status)}

	if session.Status == model.CallStatusAccepted {
		credential, err := s.tokens.Mint(roomName(session.ID),
			fmt.Sprintf("user_%d", cmd.ViewerID), cmd.ViewerName, videotoken.Grant{
				Room:         roomName(session.ID),
				RoomJoin:     true,
				CanPublish:   true,
				CanSubscribe: true,
			})
		if err != nil {
			return nil, NewServiceError(constants.ErrCodeExternalService, err)
		}
		resp.Credential = &credential
	}

	return resp, nil
}

// End settles an accepted call. The status flip, the balance check and the
// three postings run in one database transaction; when the viewer cannot
// cover the charge the transaction rolls back and the session is marked
// failed instead.
func (s *call) End(ctx context.Context, cmd EndCallCommand) (*EndCallResponse, error) {
	session, err := s.getCall(cmd.CallID)
	if err != nil {
		return nil, err
	}

	if session.ViewerID != cmd.CallerID && session.StreamerID != cmd.CallerID {
		return nil, NewServiceError(constants.ErrCodeForbidden, ErrNotParticipant)
	}

	profile, err := s.profiles.GetByUserID(session.StreamerID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	price := decimal.NewFromInt(0)
	if profile != nil {
		price = profile.PricePerMinute
	}

	total, minutes := s.billing.CallCost(price, cmd.DurationSeconds)
	rate := s.billing.CommissionRate(profile)
	fee, earning := s.billing.Split(total, rate)

	err = s.txMgr.WithTx(ctx, func(ctx context.Context) error {
		if err := s.calls.UpdateStatusFrom(ctx, session.ID, model.CallStatusAccepted, model.CallStatusCompleted); err != nil {
			return err
		}

		if !total.IsPositive() {
			return nil
		}

		balance, err := s.ledgers.SumCompletedByUser(ctx, session.ViewerID, true)
		if err != nil {
			return err
		}

		if balance.LessThan(total) {
			return InsufficientFundsError{Required: total, Available: balance}
		}

		metadata, _ := json.Marshal(map[string]interface{}{
			"call_id":          session.ID,
			"duration_seconds": cmd.DurationSeconds,
			"minutes":          minutes,
		})

		postings := []*model.Transaction{
			{UserID: session.ViewerID, Type: model.TxTypeCallPayment, Amount: total, Status: model.TxStatusCompleted, Metadata: metadata},
			{UserID: session.StreamerID, Type: model.TxTypeCallEarning, Amount: earning, Status: model.TxStatusCompleted, Metadata: metadata},
			{UserID: s.cfg.Billing.PlatformAccountID, Type: model.TxTypePlatformFee, Amount: fee, Status: model.TxStatusCompleted, Metadata: metadata},
		}
		for _, p := range postings {
			if err := s.ledgers.Create(ctx, p); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		var insufficient InsufficientFundsError
		if errors.As(err, &insufficient) {
			// Charge failed; the session still has to leave accepted.
			if ferr := s.calls.UpdateStatusFrom(ctx, session.ID, model.CallStatusAccepted, model.CallStatusFailed); ferr != nil {
				s.logger.Error("failed to fail unsettleable call",
					zap.Int64("call_id", session.ID), zap.Error(ferr))
			}
			return nil, insufficient
		}
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, s.settlementConflict(session.ID)
		}
		s.logger.Error("call settlement failed",
			zap.Int64("call_id", session.ID), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	s.logger.Info("call settled",
		zap.Int64("call_id", session.ID),
		zap.Int64("minutes", minutes),
		zap.String("charged", total.StringFixed(2)),
		zap.String("earning", earning.StringFixed(2)),
		zap.String("fee", fee.StringFixed(2)))

	return &EndCallResponse{
		CallID:          session.ID,
		Charged:         total,
		DurationSeconds: cmd.DurationSeconds,
		DurationMinutes: minutes,
		StreamerEarned:  earning,
		PlatformFee:     fee,
	}, nil
}

func (s *call) CheckBalance(ctx context.Context, viewerID, streamerID int64) (*CheckBalanceResponse, error) {
	profile, err := s.streamerProfile(streamerID)
	if err != nil {
		return nil, err
	}

	balance, err := s.ledgers.SumCompletedByUser(ctx, viewerID, false)
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	var estimated int64
	if profile.PricePerMinute.IsPositive() {
		estimated = balance.Div(profile.PricePerMinute).IntPart()
	}

	return &CheckBalanceResponse{
		Balance:          balance,
		PricePerMinute:   profile.PricePerMinute,
		EstimatedMinutes: estimated,
		CanCall:          !balance.LessThan(profile.PricePerMinute),
	}, nil
}

// ExpireStaleRinging sweeps ringing sessions past the window into timeout.
// Run by the timeout worker; safe to call concurrently because the bulk
// update only touches rows still ringing.
func (s *call) ExpireStaleRinging(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.cfg.Calls.RingingWindow)

	count, err := s.calls.ExpireRinging(ctx, cutoff)
	if err != nil {
		return 0, NewServiceError(constants.ErrCodeInternalError, err)
	}

	if count > 0 {
		s.logger.Info("expired stale ringing calls", zap.Int64("count", count))
	}

	return count, nil
}

func (s *call) streamerProfile(streamerID int64) (*model.Profile, error) {
	streamer, err := s.users.GetByID(streamerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, NewServiceError(constants.ErrCodeStreamerNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}
	if streamer.Role != model.RoleStreamer {
		return nil, NewServiceError(constants.ErrCodeStreamerNotFound,
			fmt.Errorf("user %d is not a streamer", streamerID))
	}

	profile, err := s.profiles.GetByUserID(streamerID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, NewServiceError(constants.ErrCodeStreamerNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	return profile, nil
}

func (s *call) getCall(callID int64) (*model.CallRequest, error) {
	session, err := s.calls.GetByID(callID)
	if err != nil {
		if errors.Is(err, repository.ErrCallNotFound) {
			return nil, NewServiceError(constants.ErrCodeCallNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	return session, nil
}

func (s *call) transition(ctx context.Context, callID int64, from, to model.CallStatus) error {
	err := s.calls.UpdateStatusFrom(ctx, callID, from, to)
	if errors.Is(err, repository.ErrNoRowsAffected) {
		return s.settlementConflict(callID)
	}
	if err != nil {
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	return nil
}

// settlementConflict distinguishes a session that already reached a terminal
// state from one in an unexpected live state. Both map to invalid state for
// the client; the cause differs for logging.
func (s *call) settlementConflict(callID int64) error {
	session, err := s.calls.GetByID(callID)
	if err != nil {
		return NewServiceError(constants.ErrCodeInvalidState, ErrCallInvalidState)
	}

	if session.Status.Terminal() {
		return NewServiceError(constants.ErrCodeInvalidState, ErrCallAlreadySettled)
	}

	return NewServiceError(constants.ErrCodeInvalidState,
		fmt.Errorf("call %d is %s: %w", callID, session.Status, ErrCallInvalidState))
}
