package handlers

import (
	"educycle-api/internal/core/services"
	"educycle-api/internal/pkg/response"
	"educycle-api/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// ListingHandler handles sell/exchange post endpoints
type ListingHandler struct {
	listingService *services.ListingService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// GetAll lists every post
// @Summary List posts
// @Tags Posts
// @Produce json
// @Success 200 {object} response.Response
// @Router /posts [get]
func (h *ListingHandler) GetAll(c *fiber.Ctx) error {
	posts, err := h.listingService.GetAll(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to list posts")
	}
	return response.Success(c, "Posts retrieved successfully", posts)
}

// GetByID gets a post by ID
// @Summary Get post
// @Tags Posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /posts/{id} [get]
func (h *ListingHandler) GetByID(c *fiber.Ctx) error {
	post, err := h.listingService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get post")
	}
	return response.Success(c, "Post retrieved successfully", post)
}

// GetBySeller lists posts of one seller
// @Summary List posts by seller
// @Tags Posts
// @Produce json
// @Param id path string true "Seller ID"
// @Success 200 {object} response.Response
// @Router /posts/seller/{id} [get]
func (h *ListingHandler) GetBySeller(c *fiber.Ctx) error {
	posts, err := h.listingService.GetBySeller(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to list posts")
	}
	return response.Success(c, "Posts retrieved successfully", posts)
}

// GetByCategory lists posts whose item belongs to a category
// @Summary List posts by category
// @Tags Posts
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} response.Response
// @Router /posts/category/{id} [get]
func (h *ListingHandler) GetByCategory(c *fiber.Ctx) error {
	posts, err := h.listingService.GetByCategory(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to list posts")
	}
	return response.Success(c, "Posts retrieved successfully", posts)
}

// GetByType lists posts of one type
// @Summary List posts by type
// @Tags Posts
// @Produce json
// @Param type path string true "Liquidation, Exchange or Fundraiser"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /posts/type/{type} [get]
func (h *ListingHandler) GetByType(c *fiber.Ctx) error {
	posts, err := h.listingService.GetByType(c.Context(), c.Params("type"))
	if err != nil {
		return respondError(c, err, "Failed to list posts")
	}
	return response.Success(c, "Posts retrieved successfully", posts)
}

// GetByStatus lists posts with one status
// @Summary List posts by status
// @Tags Posts
// @Produce json
// @Param status path string true "Pending, Approved, Rejected or Completed"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /posts/status/{status} [get]
func (h *ListingHandler) GetByStatus(c *fiber.Ctx) error {
	posts, err := h.listingService.GetByStatus(c.Context(), c.Params("status"))
	if err != nil {
		return respondError(c, err, "Failed to list posts")
	}
	return response.Success(c, "Posts retrieved successfully", posts)
}

// GetByState lists posts in one exchange state
// @Summary List posts by state
// @Tags Posts
// @Produce json
// @Param state path string true "Exchange state"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /posts/state/{state} [get]
func (h *ListingHandler) GetByState(c *fiber.Ctx) error {
	posts, err := h.listingService.GetByState(c.Context(), c.Params("state"))
	if err != nil {
		return respondError(c, err, "Failed to list posts")
	}
	return response.Success(c, "Posts retrieved successfully", posts)
}

// Create creates a post and its backing item; only admins may name another seller
// @Summary Create post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateListingInput true "Post"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /posts [post]
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var req services.CreateListingInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, errInvalidBody.Error())
	}
	req.SellerID = actingFor(c, req.SellerID)
	if err := validator.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	post, err := h.listingService.Create(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create post")
	}
	return response.Created(c, "Post created successfully", post)
}

// Update overwrites price, status, state and type
// @Summary Update post
// @Description Send version to fail with 409 when the post changed since it was read
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param body body services.UpdateListingInput true "Post fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /posts/{id} [put]
func (h *ListingHandler) Update(c *fiber.Ctx) error {
	var req services.UpdateListingInput
	if err := bind(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	post, err := h.listingService.Update(c.Context(), actorFrom(c), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err, "Failed to update post")
	}
	return response.Success(c, "Post updated successfully", post)
}

// Patch applies an arbitrary field map (Admin only)
// @Summary Patch post
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param body body object true "Field map"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/posts/{id} [patch]
func (h *ListingHandler) Patch(c *fiber.Ctx) error {
	var fields services.Patch
	if err := c.BodyParser(&fields); err != nil {
		return response.BadRequest(c, errInvalidBody.Error())
	}

	post, err := h.listingService.Patch(c.Context(), c.Params("id"), fields)
	if err != nil {
		return respondError(c, err, "Failed to patch post")
	}
	return response.Success(c, "Post patched successfully", post)
}

// Delete removes a post
// @Summary Delete post
// @Tags Posts
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 204
// @Failure 404 {object} response.Response
// @Router /posts/{id} [delete]
func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.listingService.Delete(c.Context(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to delete post")
	}
	if !deleted {
		return response.NotFound(c, "post not found")
	}
	return response.NoContent(c)
}
