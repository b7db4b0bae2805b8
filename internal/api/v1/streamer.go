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

func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var handlerRequest WithdrawRequest

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

	resp, err := h.wallet.Withdraw(c.UserContext(), service.WithdrawCommand{
		StreamerID: identity.UserID,
		Amount:     amount,
		PixKey:     handlerRequest.PixKey,
	})
	if err != nil {
		return err
	}

	h.metrics.RecordWithdrawalOpened()

	return c.JSON(contract.Response{Code: "success", Result: resp})
}

func (h *Handler) Earnings(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	resp, err := h.wallet.Earnings(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: resp})
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var handlerRequest UpdateProfileRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	price, err := decimal.NewFromString(handlerRequest.PricePerMinute)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(contract.Response{
			Code: constants.ErrCodeInvalidRequestBody, Message: "invalid price",
		})
	}

	identity := middleware.Identity(c)

	resp, err := h.profiles.Upsert(c.UserContext(), service.UpdateProfileCommand{
		UserID:         identity.UserID,
		BioName:        handlerRequest.BioName,
		BioDescription: handlerRequest.BioDescription,
		PhotoURL:       handlerRequest.PhotoURL,
		PricePerMinute: price,
		IsPublic:       handlerRequest.IsPublic,
	})
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: resp})
}

func (h *Handler) SetOnline(c *fiber.Ctx) error {
	var handlerRequest SetOnlineRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	identity := middleware.Identity(c)

	if err := h.profiles.SetOnline(c.UserContext(), identity.UserID, *handlerRequest.Online); err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success"})
}

func (h *Handler) MyProfile(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	resp, err := h.profiles.Get(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: resp})
}
