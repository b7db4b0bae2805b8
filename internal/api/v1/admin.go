package v1

import (
	"github.com/flayve23/flayve-oficial/internal/api/contract"
	"github.com/flayve23/flayve-oficial/internal/api/v1/middleware"
	"github.com/flayve23/flayve-oficial/internal/constants"
	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/flayve23/flayve-oficial/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.profiles.ListUsers(c.UserContext(), c.Query("search"), c.QueryInt("limit", 50))
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: users})
}

func (h *Handler) UpdateUserRole(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(contract.Response{
			Code: constants.ErrCodeInvalidRequestBody, Message: "invalid user id",
		})
	}

	var handlerRequest UpdateRoleRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	identity := middleware.Identity(c)

	err = h.profiles.UpdateRole(c.UserContext(), service.UpdateRoleCommand{
		AdminID: identity.UserID,
		UserID:  int64(userID),
		NewRole: model.Role(handlerRequest.Role),
	})
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success"})
}

func (h *Handler) UpdateUserCommission(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(contract.Response{
			Code: constants.ErrCodeInvalidRequestBody, Message: "invalid user id",
		})
	}

	var handlerRequest UpdateCommissionRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	var rate *decimal.Decimal
	if handlerRequest.Rate != nil {
		parsed, err := decimal.NewFromString(*handlerRequest.Rate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(contract.Response{
				Code: constants.ErrCodeInvalidRequestBody, Message: "invalid rate",
			})
		}
		rate = &parsed
	}

	identity := middleware.Identity(c)

	err = h.profiles.UpdateCommission(c.UserContext(), service.UpdateCommissionCommand{
		AdminID: identity.UserID,
		UserID:  int64(userID),
		Rate:    rate,
	})
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success"})
}

func (h *Handler) PendingWithdrawals(c *fiber.Ctx) error {
	rows, err := h.wallet.PendingWithdrawals(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: rows})
}

func (h *Handler) ReviewWithdrawal(c *fiber.Ctx) error {
	transactionID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(contract.Response{
			Code: constants.ErrCodeInvalidRequestBody, Message: "invalid transaction id",
		})
	}

	var handlerRequest ReviewWithdrawalRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	identity := middleware.Identity(c)

	err = h.wallet.ReviewWithdrawal(c.UserContext(), service.ReviewWithdrawalCommand{
		AdminID:       identity.UserID,
		TransactionID: int64(transactionID),
		Approve:       *handlerRequest.Approve,
		Notes:         handlerRequest.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success"})
}
