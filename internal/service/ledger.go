package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flayve23/flayve-oficial/internal/config"
	"github.com/flayve23/flayve-oficial/internal/constants"
	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/flayve23/flayve-oficial/internal/repository"
	"github.com/flayve23/flayve-oficial/pkg/paygate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultLedgerPageSize = 50

// LedgerService owns every posting into the transactions table. Balances are
// never stored; they are derived from completed postings, so each write path
// here only appends rows or flips a pending row once.
type LedgerService interface {
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, query ListTransactionsQuery) ([]Transaction, error)
	// PostAtomic writes a batch of postings in one database transaction. Either
	// every posting lands or none do.
	PostAtomic(ctx context.Context, postings []*model.Transaction) error
	Deposit(ctx context.Context, cmd DepositCommand) (*DepositResponse, error)
	Tip(ctx context.Context, cmd TipCommand) (*TipResponse, error)
	Withdraw(ctx context.Context, cmd WithdrawCommand) (*WithdrawResponse, error)
	ReviewWithdrawal(ctx context.Context, cmd ReviewWithdrawalCommand) error
	PendingWithdrawals(ctx context.Context, limit int) ([]Transaction, error)
	Earnings(ctx context.Context, userID int64) (*EarningsResponse, error)
}

type ledger struct {
	cfg     *config.Config
	logger  *zap.Logger
	ledgers repository.LedgerRepository
	users   repository.UserRepository
	txMgr   repository.TxManager
	gateway paygate.Gateway
	billing BillingService
	profile repository.ProfileRepository
}

func NewLedgerService(
	cfg *config.Config,
	logger *zap.Logger,
	ledgers repository.LedgerRepository,
	users repository.UserRepository,
	txMgr repository.TxManager,
	gateway paygate.Gateway,
	billing BillingService,
	profiles repository.ProfileRepository,
) LedgerService {
	return &ledger{
		cfg:     cfg,
		logger:  logger,
		ledgers: ledgers,
		users:   users,
		txMgr:   txMgr,
		gateway: gateway,
		billing: billing,
		profile: profiles,
	}
}

func (s *ledger) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	balance, err := s.ledgers.SumCompletedByUser(ctx, userID, false)
	if err != nil {
		s.logger.Error("failed to derive balance", zap.Int64("user_id", userID), zap.Error(err))
		return decimal.Zero, NewServiceError(constants.ErrCodeInternalError, err)
	}

	return balance, nil
}

func (s *ledger) ListTransactions(ctx context.Context, query ListTransactionsQuery) ([]Transaction, error) {
	limit := query.Limit
	if limit <= 0 || limit > defaultLedgerPageSize {
		limit = defaultLedgerPageSize
	}

	rows, err := s.ledgers.ListByUser(query.UserID, limit, query.Offset)
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	return toTransactionResponses(rows), nil
}

func (s *ledger) PostAtomic(ctx context.Context, postings []*model.Transaction) error {
	err := s.txMgr.WithTx(ctx, func(ctx context.Context) error {
		return s.postBatch(ctx, postings)
	})
	if err != nil {
		s.logger.Error("atomic posting batch failed",
			zap.Int("postings", len(postings)), zap.Error(err))
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	return nil
}

func (s *ledger) postBatch(ctx context.Context, postings []*model.Transaction) error {
	for _, p := range postings {
		if err := s.ledgers.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Deposit opens a payment intent at the gateway and records it as a pending
// credit. The posting only counts toward the balance once the settlement
// notification confirms the payment as approved.
func (s *ledger) Deposit(ctx context.Context, cmd DepositCommand) (*DepositResponse, error) {
	minDeposit := decimal.NewFromFloat(s.cfg.Billing.MinDepositAmount)
	if cmd.Amount.LessThan(minDeposit) {
		return nil, NewServiceError(constants.ErrCodeAmountTooSmall,
			fmt.Errorf("deposit of %s below minimum %s", cmd.Amount.StringFixed(2), minDeposit.StringFixed(2)))
	}

	user, err := s.users.GetByID(cmd.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, NewServiceError(constants.ErrCodeUserNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	payment, err := s.gateway.CreatePayment(ctx, paygate.CreatePaymentRequest{
		Amount:          cmd.Amount,
		Description:     "wallet deposit",
		PaymentMethodID: cmd.Method,
		PayerEmail:      user.Email,
		NotificationURL: s.cfg.PayGate.CallbackURL,
		IdempotencyKey:  uuid.NewString(),
	})
	if err != nil {
		s.logger.Error("gateway refused deposit intent",
			zap.Int64("user_id", cmd.UserID), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeExternalService, err)
	}

	metadata, _ := json.Marshal(map[string]string{
		"payment_id": payment.ID,
		"method":     cmd.Method,
	})

	tx := &model.Transaction{
		UserID:   cmd.UserID,
		Type:     model.TxTypeDeposit,
		Amount:   cmd.Amount,
		Status:   model.TxStatusPending,
		Metadata: metadata,
	}
	if err := s.ledgers.Create(ctx, tx); err != nil {
		s.logger.Error("failed to record pending deposit",
			zap.Int64("user_id", cmd.UserID), zap.String("payment_id", payment.ID), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	s.logger.Info("deposit intent created",
		zap.Int64("user_id", cmd.UserID),
		zap.Int64("transaction_id", tx.ID),
		zap.String("payment_id", payment.ID))

	return &DepositResponse{
		TransactionID: tx.ID,
		PaymentID:     payment.ID,
		Status:        payment.Status,
		QRCode:        payment.QRCode,
		TicketURL:     payment.TicketURL,
	}, nil
}

// Tip moves money viewer -> streamer inside one database transaction. The
// viewer is checked against the full tip before the commission split, so a tip
// either posts all three rows or none.
func (s *ledger) Tip(ctx context.Context, cmd TipCommand) (*TipResponse, error) {
	if !cmd.Amount.IsPositive() {
		return nil, NewServiceError(constants.ErrCodeAmountTooSmall,
			errors.New("tip amount must be positive"))
	}

	streamer, err := s.users.GetByID(cmd.StreamerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, NewServiceError(constants.ErrCodeStreamerNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}
	if streamer.Role != model.RoleStreamer {
		return nil, NewServiceError(constants.ErrCodeStreamerNotFound,
			fmt.Errorf("user %d is not a streamer", cmd.StreamerID))
	}

	profile, err := s.profile.GetByUserID(cmd.StreamerID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}
	rate := s.billing.CommissionRate(profile)
	fee, earning := s.billing.Split(cmd.Amount, rate)

	var newBalance decimal.Decimal

	err = s.txMgr.WithTx(ctx, func(ctx context.Context) error {
		balance, err := s.ledgers.SumCompletedByUser(ctx, cmd.ViewerID, true)
		if err != nil {
			return err
		}

		if balance.LessThan(cmd.Amount) {
			return InsufficientFundsError{Required: cmd.Amount, Available: balance}
		}

		metadata, _ := json.Marshal(map[string]interface{}{
			"kind":        "tip",
			"gift":        cmd.GiftName,
			"viewer_id":   cmd.ViewerID,
			"streamer_id": cmd.StreamerID,
		})

		postings := []*model.Transaction{
			{UserID: cmd.ViewerID, Type: model.TxTypeCallPayment, Amount: cmd.Amount, Status: model.TxStatusCompleted, Metadata: metadata},
			{UserID: cmd.StreamerID, Type: model.TxTypeTip, Amount: earning, Status: model.TxStatusCompleted, Metadata: metadata},
			{UserID: s.cfg.Billing.PlatformAccountID, Type: model.TxTypePlatformFee, Amount: fee, Status: model.TxStatusCompleted, Metadata: metadata},
		}
		if err := s.postBatch(ctx, postings); err != nil {
			return err
		}

		newBalance = balance.Sub(cmd.Amount)

		return nil
	})
	if err != nil {
		var insufficient InsufficientFundsError
		if errors.As(err, &insufficient) {
			return nil, insufficient
		}
		s.logger.Error("tip posting failed",
			zap.Int64("viewer_id", cmd.ViewerID), zap.Int64("streamer_id", cmd.StreamerID), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	s.logger.Info("tip posted",
		zap.Int64("viewer_id", cmd.ViewerID),
		zap.Int64("streamer_id", cmd.StreamerID),
		zap.String("amount", cmd.Amount.StringFixed(2)),
		zap.String("fee", fee.StringFixed(2)))

	return &TipResponse{NewBalance: newBalance}, nil
}

// Withdraw records a pending debit request. Funds stay available until an
// admin approves the request; the approval re-checks the balance before the
// posting completes.
func (s *ledger) Withdraw(ctx context.Context, cmd WithdrawCommand) (*WithdrawResponse, error) {
	minWithdrawal := decimal.NewFromFloat(s.cfg.Billing.MinWithdrawalAmount)
	if cmd.Amount.LessThan(minWithdrawal) {
		return nil, NewServiceError(constants.ErrCodeAmountTooSmall,
			fmt.Errorf("withdrawal of %s below minimum %s", cmd.Amount.StringFixed(2), minWithdrawal.StringFixed(2)))
	}

	balance, err := s.ledgers.SumCompletedByUser(ctx, cmd.StreamerID, false)
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}
	if balance.LessThan(cmd.Amount) {
		return nil, InsufficientFundsError{Required: cmd.Amount, Available: balance}
	}

	metadata, _ := json.Marshal(map[string]string{"pix_key": cmd.PixKey})

	tx := &model.Transaction{
		UserID:   cmd.StreamerID,
		Type:     model.TxTypeWithdrawal,
		Amount:   cmd.Amount,
		Status:   model.TxStatusPending,
		Metadata: metadata,
	}
	if err := s.ledgers.Create(ctx, tx); err != nil {
		s.logger.Error("failed to record withdrawal request",
			zap.Int64("user_id", cmd.StreamerID), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	s.logger.Info("withdrawal requested",
		zap.Int64("user_id", cmd.StreamerID),
		zap.Int64("transaction_id", tx.ID),
		zap.String("amount", cmd.Amount.StringFixed(2)))

	return &WithdrawResponse{TransactionID: tx.ID}, nil
}

// ReviewWithdrawal resolves a pending withdrawal. Approval completes the debit
// under a row lock on the streamer's postings so the balance cannot go
// negative; rejection fails the posting and releases nothing because pending
// rows never held funds.
func (s *ledger) ReviewWithdrawal(ctx context.Context, cmd ReviewWithdrawalCommand) error {
	tx, err := s.ledgers.GetByID(cmd.TransactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return NewServiceError(constants.ErrCodeTransactionMissing, err)
		}
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	if tx.Type != model.TxTypeWithdrawal {
		return NewServiceError(constants.ErrCodeInvalidState,
			fmt.Errorf("transaction %d is not a withdrawal", tx.ID))
	}

	if !cmd.Approve {
		err := s.ledgers.UpdateStatusFrom(ctx, tx.ID, model.TxStatusPending, model.TxStatusFailed)
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return NewServiceError(constants.ErrCodeInvalidState, ErrPayoutAlreadySettled)
		}
		if err != nil {
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		s.logger.Info("withdrawal rejected",
			zap.Int64("admin_id", cmd.AdminID),
			zap.Int64("transaction_id", tx.ID),
			zap.String("notes", cmd.Notes))

		return nil
	}

	err = s.txMgr.WithTx(ctx, func(ctx context.Context) error {
		balance, err := s.ledgers.SumCompletedByUser(ctx, tx.UserID, true)
		if err != nil {
			return err
		}

		if balance.LessThan(tx.Amount) {
			return InsufficientFundsError{Required: tx.Amount, Available: balance}
		}

		return s.ledgers.UpdateStatusFrom(ctx, tx.ID, model.TxStatusPending, model.TxStatusCompleted)
	})
	if err != nil {
		var insufficient InsufficientFundsError
		if errors.As(err, &insufficient) {
			return insufficient
		}
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return NewServiceError(constants.ErrCodeInvalidState, ErrPayoutAlreadySettled)
		}
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	s.logger.Info("withdrawal approved",
		zap.Int64("admin_id", cmd.AdminID),
		zap.Int64("transaction_id", tx.ID),
		zap.String("amount", tx.Amount.StringFixed(2)))

	return nil
}

func (s *ledger) PendingWithdrawals(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 || limit > defaultLedgerPageSize {
		limit = defaultLedgerPageSize
	}

	rows, err := s.ledgers.FindPendingByType(model.TxTypeWithdrawal, limit)
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	return toTransactionResponses(rows), nil
}

func (s *ledger) Earnings(ctx context.Context, userID int64) (*EarningsResponse, error) {
	balance, err := s.ledgers.SumCompletedByUser(ctx, userID, false)
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	lifetime, err := s.ledgers.SumCompletedEarningsByUser(userID)
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	rows, err := s.ledgers.ListByUser(userID, defaultLedgerPageSize, 0)
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	withdrawals, err := s.ledgers.ListByUserAndType(userID, model.TxTypeWithdrawal, defaultLedgerPageSize, 0)
	if err != nil {
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	return &EarningsResponse{
		AvailableBalance:      balance,
		TotalLifetimeEarnings: lifetime,
		Ledger:                toTransactionResponses(rows),
		Withdrawals:           toTransactionResponses(withdrawals),
	}, nil
}

func toTransactionResponse(tx model.Transaction) Transaction {
	return Transaction{
		ID:        tx.ID,
		Type:      string(tx.Type),
		Amount:    tx.Amount,
		Status:    string(tx.Status),
		CreatedAt: tx.CreatedAt,
	}
}

func toTransactionResponses(rows []model.Transaction) []Transaction {
	out := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTransactionResponse(row))
	}
	return out
}
