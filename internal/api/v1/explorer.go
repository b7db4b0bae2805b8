package v1

import (
	"github.com/flayve23/flayve-oficial/internal/api/contract"
	"github.com/flayve23/flayve-oficial/internal/constants"
	"github.com/gofiber/fiber/v2"
)

// Explorer is the discovery feed: public profiles of streamers currently
// online.
func (h *Handler) Explorer(c *fiber.Ctx) error {
	profiles, err := h.profiles.ListExplorer(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: profiles})
}

func (h *Handler) PublicProfile(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(contract.Response{
			Code: constants.ErrCodeInvalidRequestBody, Message: "invalid user id",
		})
	}

	profile, err := h.profiles.GetPublic(c.UserContext(), int64(userID))
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: profile})
}
