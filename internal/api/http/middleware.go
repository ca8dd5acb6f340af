package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

// APIKeyAuth gates every data-bearing endpoint on the X-API-Key header. An
// unknown or missing key short-circuits with 403 before any handler runs.
func APIKeyAuth(keys map[string]struct{}) fiber.Handler {
	return keyauth.New(keyauth.Config{
		KeyLookup: "header:X-API-Key",
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			if _, ok := keys[key]; ok {
				return true, nil
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fiber.NewError(fiber.StatusForbidden, "invalid API key")
		},
	})
}
