package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	auth := app.Group("/auth")
	auth.Post("/signup", h.Signup)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)

	auth.Get("/me", h.RequireAuth(), h.Me)
	auth.Post("/logout", h.RequireAuth(), h.Logout)
}
