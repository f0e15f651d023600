package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorhive/tutorhive/internal/realtime"
	"go.uber.org/zap"
)

// Register wires all routes onto the fiber app
func Register(
	app *fiber.App,
	jwtSecret string,
	slotHandler *SlotHandler,
	userHandler *UserHandler,
	notificationHandler *NotificationHandler,
	hub *realtime.Hub,
	logger *zap.Logger,
) {
	auth := AuthMiddleware(jwtSecret)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	slots := app.Group("/slots")
	slots.Post("/create", auth, slotHandler.CreateSlots)
	slots.Get("/tutor/:tutorId", slotHandler.ListTutorSlots)
	slots.Get("/mine", auth, slotHandler.ListMySlots)
	slots.Get("/my-bookings", auth, slotHandler.ListMyBookings)
	slots.Post("/:slotId/disable", auth, slotHandler.DisableSlot)
	slots.Post("/:slotId/book", auth, slotHandler.BookSlot)
	slots.Delete("/:slotId", auth, slotHandler.DeleteSlot)

	users := app.Group("/users", auth)
	users.Get("/:userId", userHandler.GetProfile)
	users.Put("/:userId", userHandler.UpdateProfile)

	notifications := app.Group("/notifications", auth)
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/:notificationId/read", notificationHandler.MarkRead)

	app.Get("/ws", realtime.UpgradeRequired, realtime.Handler(hub, jwtSecret, logger))
}
