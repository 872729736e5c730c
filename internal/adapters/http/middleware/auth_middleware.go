package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"hospicare/internal/config"
	"hospicare/internal/core/domain"
	"hospicare/internal/pkg/jwt"
	"hospicare/internal/pkg/response"
)

// AuthMiddleware authenticates the request. Failures here are always
// reported as 401, never as a role failure.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("name", claims.Name)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RoleMiddleware is the capability check composed ahead of every protected
// operation: authorize(identity, allowedRoles). Runs only after
// AuthMiddleware has authenticated the request.
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if domain.Role(role) == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// PatientOnly middleware allows only the patient role
func PatientOnly() fiber.Handler {
	return RoleMiddleware(domain.RolePatient)
}

// DoctorOnly middleware allows only the doctor role
func DoctorOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleDoctor)
}

// Authenticated middleware allows any authenticated role
func Authenticated() fiber.Handler {
	return RoleMiddleware(domain.RolePatient, domain.RoleDoctor, domain.RoleAdmin)
}

// ActorFromContext rebuilds the acting identity from the request context.
// Services still re-check record ownership themselves.
func ActorFromContext(c *fiber.Ctx) domain.Actor {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)
	return domain.Actor{ID: userID, Role: domain.Role(role)}
}
