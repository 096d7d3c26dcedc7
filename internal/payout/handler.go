package payout

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/affipay/payout-api/internal/wallet"
)

// Handler exposes the payout query endpoint.
type Handler struct {
	service *Service
}

// NewHandler builds a payout HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /payouts. Authentication and the admin check run in
// middleware before this handler.
func (h *Handler) List(c *fiber.Ctx) error {
	var page *int
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "page must be an integer")
		}
		page = &n
	}

	f := Filter{UserType: c.Query("userType")}
	if v := c.Query("statuses"); v != "" {
		f.Statuses = ParseStatuses(v)
	}

	var err error
	if f.CreatedFrom, err = parseTimeParam(c, "startDate"); err != nil {
		return err
	}
	if f.CreatedTo, err = parseTimeParam(c, "endDate"); err != nil {
		return err
	}
	if f.PaidFrom, err = parseTimeParam(c, "paymentStartDate"); err != nil {
		return err
	}
	if f.PaidTo, err = parseTimeParam(c, "paymentEndDate"); err != nil {
		return err
	}

	includeWallet := c.QueryBool("includeWallet")

	envelope, err := h.service.List(c.UserContext(), page, f, includeWallet)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidID):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, wallet.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		default:
			return err
		}
	}

	return c.Status(http.StatusOK).JSON(envelope)
}

func parseTimeParam(c *fiber.Ctx, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fiber.NewError(http.StatusBadRequest, name+" must be an RFC3339 timestamp or YYYY-MM-DD date")
}
