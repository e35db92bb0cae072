package handler

import (
	"net/http"

	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/service"

	"github.com/gin-gonic/gin"
)

type ReceiptsHandler struct {
	svc      service.ReceiptService
	dispatch service.DispatchService
}

func NewReceiptsHandler(svc service.ReceiptService, dispatch service.DispatchService) *ReceiptsHandler {
	return &ReceiptsHandler{svc: svc, dispatch: dispatch}
}

// List godoc
// @Summary   List receipts
// @Tags      receipts
// @Produce   json
// @Security  BearerAuth
// @Param     client query int    false "Client ID"
// @Param     status query string false "PAID | PENDING | CANCELLED"
// @Param     page   query int    false "Page (default 1)"
// @Param     limit  query int    false "Page size (default 50, max 200)"
// @Success   200    {object} dto.ReceiptListResponse
// @Router    /api/receipts [get]
func (h *ReceiptsHandler) List(c *gin.Context) {
	var filter dto.DocumentFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary      Create a receipt with its items
// @Description  The number, subtotal and totals are computed by the server.
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateReceiptRequest true "Receipt"
// @Success      201  {object} dto.ReceiptResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/receipts [post]
func (h *ReceiptsHandler) Create(c *gin.Context) {
	var req dto.CreateReceiptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary   Retrieve a receipt
// @Tags      receipts
// @Produce   json
// @Security  BearerAuth
// @Param     id  path int true "Receipt ID"
// @Success   200 {object} dto.ReceiptResponse
// @Failure   404 {object} apierror.APIError
// @Router    /api/receipts/{id} [get]
func (h *ReceiptsHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Replace godoc
// @Summary      Replace a receipt
// @Description  An items list, even empty, replaces every item. Without it items are kept.
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int                        true "Receipt ID"
// @Param        body body dto.UpdateReceiptRequest true "Receipt"
// @Success      200  {object} dto.ReceiptResponse
// @Router       /api/receipts/{id} [put]
func (h *ReceiptsHandler) Replace(c *gin.Context) { h.update(c, true) }

// Patch godoc
// @Summary   Partially update a receipt
// @Tags      receipts
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id   path int                        true "Receipt ID"
// @Param     body body dto.UpdateReceiptRequest true "Fields to change"
// @Success   200  {object} dto.ReceiptResponse
// @Router    /api/receipts/{id} [patch]
func (h *ReceiptsHandler) Patch(c *gin.Context) { h.update(c, false) }

func (h *ReceiptsHandler) update(c *gin.Context, full bool) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateReceiptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req, full)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary   Delete a receipt
// @Tags      receipts
// @Security  BearerAuth
// @Param     id path int true "Receipt ID"
// @Success   204
// @Router    /api/receipts/{id} [delete]
func (h *ReceiptsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SendEmail godoc
// @Summary      Email the receipt PDF to its client
// @Description  Not deduplicated: each call sends one email.
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path int true "Receipt ID"
// @Success      200 {object} dto.MessageResponse
// @Failure      502 {object} apierror.APIError
// @Router       /api/receipts/{id}/send_email [post]
func (h *ReceiptsHandler) SendEmail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.dispatch.SendReceipt(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Receipt " + res.Number + " sent to " + res.Recipient})
}

// Export godoc
// @Summary   Export every receipt as an XLSX workbook
// @Tags      receipts
// @Produce   application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security  BearerAuth
// @Success   200
// @Router    /api/receipts/export [get]
func (h *ReceiptsHandler) Export(c *gin.Context) {
	receipts, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	docs := make([]*model.Document, len(receipts))
	for i := range receipts {
		docs[i] = receipts[i].Document()
	}
	writeWorkbook(c, "receipts.xlsx", model.KindReceipt, docs)
}
