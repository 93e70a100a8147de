package handlers

import (
	"errors"

	"educycle-api/internal/adapters/http/middleware"
	"educycle-api/internal/core/domain"
	"educycle-api/internal/core/services"
	"educycle-api/internal/pkg/logger"
	"educycle-api/internal/pkg/response"
	"educycle-api/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps a service error to the response envelope by its kind.
// Unclassified errors are logged and answered with fallback only.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrDuplicateEntry), errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrVersionConflict):
		return response.Conflict(c, err.Error())
	}

	logger.L().Error(fallback,
		zap.String("request_id", response.RequestID(c)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return response.InternalServerError(c, fallback)
}

var errInvalidBody = errors.New("invalid request body")

// bind parses the JSON body into dst and validates its tags
func bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	return validator.Struct(dst)
}

// actorFrom builds the acting identity from the verified token
func actorFrom(c *fiber.Ctx) services.Actor {
	claims := middleware.Claims(c)
	if claims == nil {
		return services.Actor{}
	}
	return services.Actor{
		UserID:  claims.UserID,
		IsAdmin: claims.HasRole(domain.RoleAdmin),
	}
}

// actingFor honours a requested user id only for admins; everyone else acts as themselves
func actingFor(c *fiber.Ctx, requested string) string {
	actor := actorFrom(c)
	if actor.IsAdmin && requested != "" {
		return requested
	}
	return actor.UserID
}
