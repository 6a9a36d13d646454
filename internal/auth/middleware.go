package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/submission-service/pkg/util/errorutil"
)

const credentialKey = "auth_credential"

// RequireCredential rejects requests without an Authorization header and keeps
// the raw value so it can be forwarded to collaborating services.
func RequireCredential() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if header == "" {
			return apperrors.NewUnauthorized("missing authorization header")
		}
		c.Locals(credentialKey, header)
		return c.Next()
	}
}

// CredentialFromContext retrieves the caller credential stored by RequireCredential.
func CredentialFromContext(c *fiber.Ctx) (string, bool) {
	credential, ok := c.Locals(credentialKey).(string)
	return credential, ok && credential != ""
}
