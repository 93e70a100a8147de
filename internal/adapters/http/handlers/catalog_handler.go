package handlers

import (
	"educycle-api/internal/core/services"
	"educycle-api/internal/pkg/response"
	"educycle-api/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles category and item endpoints
type CatalogHandler struct {
	categoryService *services.CategoryService
	itemService     *services.ItemService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(categoryService *services.CategoryService, itemService *services.ItemService) *CatalogHandler {
	return &CatalogHandler{
		categoryService: categoryService,
		itemService:     itemService,
	}
}

// ListCategories lists every category
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categoryService.List(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to list categories")
	}
	return response.Success(c, "Categories retrieved successfully", categories)
}

// GetCategory gets a category by ID
// @Summary Get category
// @Tags Catalog
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /categories/{id} [get]
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	category, err := h.categoryService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get category")
	}
	return response.Success(c, "Category retrieved successfully", category)
}

// CreateCategory creates a category (Admin only)
// @Summary Create category
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateCategoryInput true "Category"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req services.CreateCategoryInput
	if err := bind(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	category, err := h.categoryService.Create(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create category")
	}
	return response.Created(c, "Category created successfully", category)
}

// UpdateCategory renames or re-describes a category (Admin only)
// @Summary Update category
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param body body services.UpdateCategoryInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	var req services.UpdateCategoryInput
	if err := bind(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	category, err := h.categoryService.Update(c.Context(), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err, "Failed to update category")
	}
	return response.Success(c, "Category updated successfully", category)
}

// DeleteCategory deletes an unreferenced category (Admin only)
// @Summary Delete category
// @Tags Catalog
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.categoryService.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete category")
	}
	return response.NoContent(c)
}

// ListItems lists every item
// @Summary List items
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response
// @Router /items [get]
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	items, err := h.itemService.List(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to list items")
	}
	return response.Success(c, "Items retrieved successfully", items)
}

// GetItem gets an item by ID
// @Summary Get item
// @Tags Catalog
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /items/{id} [get]
func (h *CatalogHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.itemService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get item")
	}
	return response.Success(c, "Item retrieved successfully", item)
}

// CreateItem creates an item; only admins may name another owner
// @Summary Create item
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ItemInput true "Item"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /items [post]
func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	req, err := h.itemInput(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	item, err := h.itemService.Create(c.Context(), req)
	if err != nil {
		return respondError(c, err, "Failed to create item")
	}
	return response.Created(c, "Item created successfully", item)
}

// UpdateItem replaces every field of an item
// @Summary Update item
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Param body body services.ItemInput true "Item"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /items/{id} [put]
func (h *CatalogHandler) UpdateItem(c *fiber.Ctx) error {
	req, err := h.itemInput(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	item, err := h.itemService.Update(c.Context(), actorFrom(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, err, "Failed to update item")
	}
	return response.Success(c, "Item updated successfully", item)
}

// DeleteItem deletes an item not backing any post
// @Summary Delete item
// @Tags Catalog
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 204
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /items/{id} [delete]
func (h *CatalogHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.itemService.Delete(c.Context(), actorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete item")
	}
	return response.NoContent(c)
}

func (h *CatalogHandler) itemInput(c *fiber.Ctx) (*services.ItemInput, error) {
	var req services.ItemInput
	if err := c.BodyParser(&req); err != nil {
		return nil, errInvalidBody
	}
	req.OwnerID = actingFor(c, req.OwnerID)
	if err := validator.Struct(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
