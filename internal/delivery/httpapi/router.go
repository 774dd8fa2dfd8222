package httpapi

import (
	"github.com/edupay-labs/school-payment-service/internal/delivery/httpapi/middleware"
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the public webhook ingress and the authenticated
// order and reporting APIs. The webhook routes carry no auth: the gateway
// calls them directly and payloads are verified by correlation, not tokens.
func RegisterRoutes(app *fiber.App, jwtSecret string, webhooks *WebhookHandler, orders *OrderHandler, txns *TransactionHandler) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "School payment service is running",
		})
	})

	api := app.Group("/api")

	payments := api.Group("/payments")
	payments.Post("/webhook", webhooks.HandlePost)
	payments.Get("/webhook", webhooks.HandleGet)

	authed := middleware.RequireRoles(jwtSecret, middleware.RoleAdmin, middleware.RoleTrustee)

	payments.Post("/create-payment", authed, orders.CreatePayment)
	payments.Get("/status/:collect_request_id", authed, orders.CheckStatus)

	transactions := api.Group("/transactions", authed)
	transactions.Get("/", txns.List)
	transactions.Get("/summary", txns.Summary)
	transactions.Get("/school/:school_id", txns.BySchool)
	transactions.Get("/status/:custom_order_id", txns.StatusByCustomOrderID)
}
