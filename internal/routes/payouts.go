package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/affipay/payout-api/internal/payout"
)

// RegisterPayoutRoutes wires the payout query endpoint behind the rate
// limiter and the admin gate.
func RegisterPayoutRoutes(r fiber.Router, h *payout.Handler, rateLimiter, adminOnly fiber.Handler) {
	if rateLimiter != nil {
		r.Get("/payouts", rateLimiter, adminOnly, h.List)
	} else {
		r.Get("/payouts", adminOnly, h.List)
	}
}
