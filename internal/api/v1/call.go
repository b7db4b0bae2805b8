package v1

import (
	"github.com/flayve23/flayve-oficial/internal/api/contract"
	"github.com/flayve23/flayve-oficial/internal/api/v1/middleware"
	"github.com/flayve23/flayve-oficial/internal/constants"
	"github.com/flayve23/flayve-oficial/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) RequestCall(c *fiber.Ctx) error {
	var handlerRequest RequestCallRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	identity := middleware.Identity(c)

	resp, err := h.calls.Request(c.UserContext(), service.RequestCallCommand{
		ViewerID:   identity.UserID,
		StreamerID: handlerRequest.StreamerID,
	})
	if err != nil {
		return err
	}

	h.metrics.RecordCallRequested()

	return c.JSON(contract.Response{Code: "success", Result: resp})
}

func (h *Handler) IncomingCall(c *fiber.Ctx) error {
	identity := middleware.Identity(c)

	resp, err := h.calls.PollIncoming(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: resp})
}

func (h *Handler) AnswerCall(c *fiber.Ctx) error {
	callID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(contract.Response{
			Code: constants.ErrCodeInvalidRequestBody, Message: "invalid call id",
		})
	}

	var handlerRequest AnswerCallRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	identity := middleware.Identity(c)

	resp, err := h.calls.Answer(c.UserContext(), service.AnswerCallCommand{
		StreamerID:   identity.UserID,
		StreamerName: identity.Username,
		CallID:       int64(callID),
		Accept:       *handlerRequest.Accept,
	})
	if err != nil {
		return err
	}

	h.metrics.RecordCallAnswered(resp.Status)

	return c.JSON(contract.Response{Code: "success", Result: resp})
}

func (h *Handler) CallStatus(c *fiber.Ctx) error {
	callID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(contract.Response{
			Code: constants.ErrCodeInvalidRequestBody, Message: "invalid call id",
		})
	}

	identity := middleware.Identity(c)

	resp, err := h.calls.PollStatus(c.UserContext(), service.PollStatusCommand{
		ViewerID:   identity.UserID,
		ViewerName: identity.Username,
		CallID:     int64(callID),
	})
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: resp})
}

func (h *Handler) EndCall(c *fiber.Ctx) error {
	callID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(contract.Response{
			Code: constants.ErrCodeInvalidRequestBody, Message: "invalid call id",
		})
	}

	var handlerRequest EndCallRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	identity := middleware.Identity(c)

	resp, err := h.calls.End(c.UserContext(), service.EndCallCommand{
		CallerID:        identity.UserID,
		CallID:          int64(callID),
		DurationSeconds: handlerRequest.DurationSeconds,
	})
	if err != nil {
		h.metrics.RecordCallSettled("failed", 0)
		return err
	}

	h.metrics.RecordCallSettled("completed", resp.DurationMinutes)

	return c.JSON(contract.Response{Code: "success", Result: resp})
}

func (h *Handler) CheckCallBalance(c *fiber.Ctx) error {
	streamerID, err := c.ParamsInt("streamerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(contract.Response{
			Code: constants.ErrCodeInvalidRequestBody, Message: "invalid streamer id",
		})
	}

	identity := middleware.Identity(c)

	resp, err := h.calls.CheckBalance(c.UserContext(), identity.UserID, int64(streamerID))
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: resp})
}
