package v1

import (
	"github.com/flayve23/flayve-oficial/internal/api/contract"
	"github.com/flayve23/flayve-oficial/internal/api/v1/middleware"
	"github.com/flayve23/flayve-oficial/internal/constants"
	"github.com/flayve23/flayve-oficial/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (h *Handler) WalletBalance(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	balance, err := h.wallet.GetBalance(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: fiber.Map{"balance": balance}})
}

func (h *Handler) WalletTransactions(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	txs, err := h.wallet.ListTransactions(c.UserContext(), service.ListTransactionsQuery{
		UserID: identity.UserID,
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	})
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: txs})
}

func (h *Handler) Deposit(c *fiber.Ctx) error {
	var handlerRequest DepositRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	amount, err := decimal.NewFromString(handlerRequest.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(contract.Response{
			Code: constants.ErrCodeInvalidRequestBody, Message: "invalid amount",
		})
	}

	identity := middleware.Identity(c)

	resp, err := h.wallet.Deposit(c.UserContext(), service.DepositCommand{
		UserID: identity.UserID,
		Amount: amount,
		Method: handlerRequest.Method,
	})
	if err != nil {
		return err
	}

	h.metrics.RecordDepositCreated()

	return c.JSON(contract.Response{Code: "success", Result: resp})
}

func (h *Handler) Tip(c *fiber.Ctx) error {
	var handlerRequest TipRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	amount, err := decimal.NewFromString(handlerRequest.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(contract.Response{
			Code: constants.ErrCodeInvalidRequestBody, Message: "invalid amount",
		})
	}

	identity := middleware.Identity(c)

	resp, err := h.wallet.Tip(c.UserContext(), service.TipCommand{
		ViewerID:   identity.UserID,
		StreamerID: handlerRequest.StreamerID,
		Amount:     amount,
		GiftName:   handlerRequest.GiftName,
	})
	if err != nil {
		return err
	}

	h.metrics.RecordTipPosted()

	return c.JSON(contract.Response{Code: "success", Result: resp})
}
