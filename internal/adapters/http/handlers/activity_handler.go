package handlers

import (
	"educycle-api/internal/core/services"
	"educycle-api/internal/pkg/response"
	"educycle-api/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// ActivityHandler handles fundraising activity endpoints
type ActivityHandler struct {
	activityService *services.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// List lists every activity
// @Summary List activities
// @Tags Activities
// @Produce json
// @Success 200 {object} response.Response
// @Router /activities [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	activities, err := h.activityService.List(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to list activities")
	}
	return response.Success(c, "Activities retrieved successfully", activities)
}

// GetByID gets an activity by ID
// @Summary Get activity
// @Tags Activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /activities/{id} [get]
func (h *ActivityHandler) GetByID(c *fiber.Ctx) error {
	activity, err := h.activityService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get activity")
	}
	return response.Success(c, "Activity retrieved successfully", activity)
}

// Create creates an activity; only admins may name another organizer
// @Summary Create activity
// @Tags Activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateActivityInput true "Activity"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /activities [post]
func (h *ActivityHandler) Create(c *fiber.Ctx) error {
	var req services.CreateActivityInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, errInvalidBody.Error())
	}
	req.OrganizerID = actingFor(c, req.OrganizerID)
	if err := validator.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	activity, err := h.activityService.Create(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create activity")
	}
	return response.Created(c, "Activity created successfully", activity)
}

// Update overwrites an activity
// @Summary Update activity
// @Tags Activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param body body services.UpdateActivityInput true "Activity"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /activities/{id} [put]
func (h *ActivityHandler) Update(c *fiber.Ctx) error {
	var req services.UpdateActivityInput
	if err := bind(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	activity, err := h.activityService.Update(c.Context(), actorFrom(c), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err, "Failed to update activity")
	}
	return response.Success(c, "Activity updated successfully", activity)
}

// Patch applies an arbitrary field map (Admin only)
// @Summary Patch activity
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param body body object true "Field map"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/activities/{id} [patch]
func (h *ActivityHandler) Patch(c *fiber.Ctx) error {
	var fields services.Patch
	if err := c.BodyParser(&fields); err != nil {
		return response.BadRequest(c, errInvalidBody.Error())
	}

	activity, err := h.activityService.Patch(c.Context(), c.Params("id"), fields)
	if err != nil {
		return respondError(c, err, "Failed to patch activity")
	}
	return response.Success(c, "Activity patched successfully", activity)
}

// Delete removes an activity
// @Summary Delete activity
// @Tags Activities
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 204
// @Failure 404 {object} response.Response
// @Router /activities/{id} [delete]
func (h *ActivityHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.activityService.Delete(c.Context(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to delete activity")
	}
	if !deleted {
		return response.NotFound(c, "activity not found")
	}
	return response.NoContent(c)
}

// ListPosts lists the posts linked to an activity
// @Summary List activity posts
// @Tags Activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /activities/{id}/posts [get]
func (h *ActivityHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.activityService.ListListings(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to list activity posts")
	}
	return response.Success(c, "Posts retrieved successfully", posts)
}

// LinkPost attaches a post to an activity
// @Summary Link post
// @Tags Activities
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param postId path string true "Post ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /activities/{id}/posts/{postId} [post]
func (h *ActivityHandler) LinkPost(c *fiber.Ctx) error {
	if err := h.activityService.LinkListing(c.Context(), actorFrom(c), c.Params("id"), c.Params("postId")); err != nil {
		return respondError(c, err, "Failed to link post")
	}
	return response.Success(c, "Post linked successfully", nil)
}

// UnlinkPost detaches a post from an activity
// @Summary Unlink post
// @Tags Activities
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param postId path string true "Post ID"
// @Success 204
// @Failure 404 {object} response.Response
// @Router /activities/{id}/posts/{postId} [delete]
func (h *ActivityHandler) UnlinkPost(c *fiber.Ctx) error {
	removed, err := h.activityService.UnlinkListing(c.Context(), actorFrom(c), c.Params("id"), c.Params("postId"))
	if err != nil {
		return respondError(c, err, "Failed to unlink post")
	}
	if !removed {
		return response.NotFound(c, "post is not linked to this activity")
	}
	return response.NoContent(c)
}
