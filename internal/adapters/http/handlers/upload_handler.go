package handlers

import (
	"educycle-api/internal/core/services"
	"educycle-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler issues signed upload parameters for the image CDN
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// SignatureRequest represents upload signature request body
type SignatureRequest struct {
	Timestamp string `json:"timestamp"`
}

// Signature signs an upload timestamp
// @Summary Sign upload
// @Tags Uploads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SignatureRequest true "Timestamp"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /uploads/signature [post]
func (h *UploadHandler) Signature(c *fiber.Ctx) error {
	var req SignatureRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, errInvalidBody.Error())
	}

	sig, err := h.uploadService.Sign(req.Timestamp)
	if err != nil {
		return respondError(c, err, "Failed to sign upload")
	}
	return response.Success(c, "Signature created", sig)
}
