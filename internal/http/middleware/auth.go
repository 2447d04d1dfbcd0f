package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// ActorIDLocalKey holds the authenticated subject in Fiber's locals.
	ActorIDLocalKey = "actor_id"
	// ActorRoleLocalKey holds the subject's role claim.
	ActorRoleLocalKey = "actor_role"

	// RoleAdmin marks back-office actors; estimation, completion, direct
	// rejection and dispute resolution require it.
	RoleAdmin = "admin"
)

// Actor verifies the bearer token issued by the external identity service
// and stores subject and role in context locals. Token issuance, sessions
// and password flows all live outside this core.
func Actor(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization header required")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header format")
		}

		actorID, role, err := parseToken(parts[1], key)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(ActorIDLocalKey, actorID)
		c.Locals(ActorRoleLocalKey, role)
		return c.Next()
	}
}

// RequireAdmin rejects non-admin actors. Must run after Actor.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(ActorRoleLocalKey).(string)
		if role != RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "administrator role required")
		}
		return c.Next()
	}
}

// ActorID returns the authenticated subject stored by Actor.
func ActorID(c *fiber.Ctx) string {
	id, _ := c.Locals(ActorIDLocalKey).(string)
	return id
}

func parseToken(tokenString string, key []byte) (actorID, role string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return "", "", err
	}
	if !token.Valid {
		return "", "", errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("unexpected claims type")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", "", errors.New("missing sub claim")
	}
	r, _ := claims["role"].(string)
	return sub, r, nil
}
