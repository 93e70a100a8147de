package handlers

import (
	"fmt"
	"time"

	"educycle-api/internal/core/services"
	"educycle-api/internal/pkg/export"
	"educycle-api/internal/pkg/pagination"
	"educycle-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler handles ledger endpoints
type TransactionHandler struct {
	ledgerService *services.LedgerService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(ledgerService *services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

// RecordPost records an entry against a post. Only admins may act for another user.
// @Summary Record post transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordListingInput true "Entry"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transactions [post]
func (h *TransactionHandler) RecordPost(c *fiber.Ctx) error {
	var req services.RecordListingInput
	if err := bind(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}
	req.UserID = actingFor(c, req.UserID)

	txn, err := h.ledgerService.RecordListingTransaction(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to record transaction")
	}
	return response.Created(c, "Transaction recorded successfully", txn)
}

// RecordActivity records an entry against an activity
// @Summary Record activity transaction
// @Description In ledger mode a positive amount is added to the activity's raised total
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordActivityInput true "Entry"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transactions/activity [post]
func (h *TransactionHandler) RecordActivity(c *fiber.Ctx) error {
	var req services.RecordActivityInput
	if err := bind(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}
	req.UserID = actingFor(c, req.UserID)

	txn, err := h.ledgerService.RecordActivityTransaction(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "Failed to record transaction")
	}
	return response.Created(c, "Transaction recorded successfully", txn)
}

// List returns every entry for admins and the caller's own entries otherwise
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	actor := actorFrom(c)

	var (
		txns interface{}
		err  error
	)
	if actor.IsAdmin {
		txns, err = h.ledgerService.ListAll(c.Context())
	} else {
		txns, err = h.ledgerService.ListByUser(c.Context(), actor.UserID)
	}
	if err != nil {
		return respondError(c, err, "Failed to list transactions")
	}
	return response.Success(c, "Transactions retrieved successfully", txns)
}

// GetByID gets one entry; non-admins only see their own
// @Summary Get transaction
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	txn, err := h.ledgerService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get transaction")
	}

	actor := actorFrom(c)
	if !actor.IsAdmin && txn.UserID != actor.UserID {
		return response.Forbidden(c, "You don't have permission to view this transaction")
	}
	return response.Success(c, "Transaction retrieved successfully", txn)
}

// ListPaged is the admin paginated ledger view
// @Summary List transactions (paginated)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /admin/transactions [get]
func (h *TransactionHandler) ListPaged(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	txns, total, err := h.ledgerService.ListPaged(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return respondError(c, err, "Failed to list transactions")
	}
	return response.Success(c, "Transactions retrieved successfully", pagination.NewResponse(txns, params, total))
}

// Export downloads the whole ledger as a spreadsheet
// @Summary Export transactions
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /admin/transactions/export [get]
func (h *TransactionHandler) Export(c *fiber.Ctx) error {
	txns, err := h.ledgerService.ListAll(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to export transactions")
	}

	filename := fmt.Sprintf("transactions-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, export.ContentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := export.WriteTransactionsXLSX(c.Response().BodyWriter(), txns); err != nil {
		return respondError(c, err, "Failed to export transactions")
	}
	return nil
}

// Reconcile recomputes every activity's raised total from the ledger
// @Summary Reconcile raised totals
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/ledger/reconcile [post]
func (h *TransactionHandler) Reconcile(c *fiber.Ctx) error {
	updated, err := h.ledgerService.Reconcile(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to reconcile ledger")
	}
	return response.Success(c, "Ledger reconciled", fiber.Map{"activities_updated": updated})
}
