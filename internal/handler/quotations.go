package handler

import (
	"net/http"

	"eventdesk/internal/dto"
	"eventdesk/internal/infra"
	"eventdesk/internal/model"
	"eventdesk/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type QuotationsHandler struct {
	svc      service.QuotationService
	dispatch service.DispatchService
}

func NewQuotationsHandler(svc service.QuotationService, dispatch service.DispatchService) *QuotationsHandler {
	return &QuotationsHandler{svc: svc, dispatch: dispatch}
}

// List godoc
// @Summary   List quotations
// @Tags      quotations
// @Produce   json
// @Security  BearerAuth
// @Param     client query int    false "Client ID"
// @Param     status query string false "DRAFT | SENT | ACCEPTED | REJECTED"
// @Param     page   query int    false "Page (default 1)"
// @Param     limit  query int    false "Page size (default 50, max 200)"
// @Success   200    {object} dto.QuotationListResponse
// @Router    /api/quotations [get]
func (h *QuotationsHandler) List(c *gin.Context) {
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
// @Summary      Create a quotation with its items
// @Description  The number, subtotal and totals are computed by the server.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateQuotationRequest true "Quotation"
// @Success      201  {object} dto.QuotationResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/quotations [post]
func (h *QuotationsHandler) Create(c *gin.Context) {
	var req dto.CreateQuotationRequest
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
// @Summary   Retrieve a quotation
// @Tags      quotations
// @Produce   json
// @Security  BearerAuth
// @Param     id  path int true "Quotation ID"
// @Success   200 {object} dto.QuotationResponse
// @Failure   404 {object} apierror.APIError
// @Router    /api/quotations/{id} [get]
func (h *QuotationsHandler) Get(c *gin.Context) {
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
// @Summary      Replace a quotation
// @Description  An items list, even empty, replaces every item. Without it items are kept.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int                        true "Quotation ID"
// @Param        body body dto.UpdateQuotationRequest true "Quotation"
// @Success      200  {object} dto.QuotationResponse
// @Router       /api/quotations/{id} [put]
func (h *QuotationsHandler) Replace(c *gin.Context) { h.update(c, true) }

// Patch godoc
// @Summary   Partially update a quotation
// @Tags      quotations
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id   path int                        true "Quotation ID"
// @Param     body body dto.UpdateQuotationRequest true "Fields to change"
// @Success   200  {object} dto.QuotationResponse
// @Router    /api/quotations/{id} [patch]
func (h *QuotationsHandler) Patch(c *gin.Context) { h.update(c, false) }

func (h *QuotationsHandler) update(c *gin.Context, full bool) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateQuotationRequest
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
// @Summary   Delete a quotation
// @Tags      quotations
// @Security  BearerAuth
// @Param     id path int true "Quotation ID"
// @Success   204
// @Router    /api/quotations/{id} [delete]
func (h *QuotationsHandler) Delete(c *gin.Context) {
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
// @Summary      Email the quotation PDF to its client
// @Description  Not deduplicated: each call sends one email.
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path int true "Quotation ID"
// @Success      200 {object} dto.MessageResponse
// @Failure      502 {object} apierror.APIError
// @Router       /api/quotations/{id}/send_email [post]
func (h *QuotationsHandler) SendEmail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.dispatch.SendQuotation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Quotation " + res.Number + " sent to " + res.Recipient})
}

// Export godoc
// @Summary   Export every quotation as an XLSX workbook
// @Tags      quotations
// @Produce   application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security  BearerAuth
// @Success   200
// @Router    /api/quotations/export [get]
func (h *QuotationsHandler) Export(c *gin.Context) {
	quotations, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	docs := make([]*model.Document, len(quotations))
	for i := range quotations {
		docs[i] = quotations[i].Document()
	}
	writeWorkbook(c, "quotations.xlsx", model.KindQuotation, docs)
}

func writeWorkbook(c *gin.Context, filename string, kind model.DocumentKind, docs []*model.Document) {
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if err := infra.WriteDocumentsXLSX(c.Writer, kind, docs); err != nil {
		_ = c.Error(err)
	}
}
