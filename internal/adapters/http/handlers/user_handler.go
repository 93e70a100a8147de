package handlers

import (
	"strings"

	"educycle-api/internal/core/services"
	"educycle-api/internal/pkg/pagination"
	"educycle-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	authService   *services.AuthService
	userService   *services.UserService
	ledgerService *services.LedgerService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *services.AuthService, userService *services.UserService, ledgerService *services.LedgerService) *UserHandler {
	return &UserHandler{
		authService:   authService,
		userService:   userService,
		ledgerService: ledgerService,
	}
}

// ListUsers handles listing all users
// @Summary List all users
// @Tags Users
// @Produce json
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to list users")
	}
	return response.Success(c, "Users retrieved successfully", users)
}

// ListUsersPaged handles the admin paginated user list
// @Summary List users (paginated)
// @Description Paginated user list (Admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/users [get]
func (h *UserHandler) ListUsersPaged(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.userService.ListUsersPaged(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return respondError(c, err, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", pagination.NewResponse(result.Users, params, result.Total))
}

// GetUser handles getting a user by ID
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get user")
	}
	return response.Success(c, "User retrieved successfully", user)
}

// CreateUser lets an admin register an account with explicit roles
// @Summary Create user
// @Description Register a user with any roles (Admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RegisterInput true "User data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := bind(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	user, err := h.authService.Register(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create user")
	}

	return response.Created(c, "User created successfully", h.userService.ToResponse(user))
}

// UpdateUser handles a partial profile update
// @Summary Update user
// @Description Partially update a profile. Users may edit themselves; status and roles are admin-only.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body services.UpdateUserInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var req services.UpdateUserInput
	if err := bind(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.ChangeProfile(c.Context(), actorFrom(c), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err, "Failed to update user")
	}

	return response.Success(c, "User updated successfully", user)
}

// DeleteUser handles deleting a user (Admin only)
// @Summary Delete user
// @Tags Users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete user")
	}
	return response.NoContent(c)
}

// ListUserTransactions lists the ledger entries recorded by a user
// @Summary List a user's transactions
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Router /users/{id}/transactions [get]
func (h *UserHandler) ListUserTransactions(c *fiber.Ctx) error {
	txns, err := h.ledgerService.ListByUser(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to list transactions")
	}
	return response.Success(c, "Transactions retrieved successfully", txns)
}
