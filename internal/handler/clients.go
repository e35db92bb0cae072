package handler

import (
	"net/http"

	"eventdesk/internal/dto"
	"eventdesk/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientsHandler struct{ svc service.ClientService }

func NewClientsHandler(svc service.ClientService) *ClientsHandler {
	return &ClientsHandler{svc: svc}
}

// List godoc
// @Summary   List clients
// @Tags      clients
// @Produce   json
// @Security  BearerAuth
// @Param     search query string false "Name, email or company contains"
// @Param     page   query int    false "Page (default 1)"
// @Param     limit  query int    false "Page size (default 50, max 200)"
// @Success   200    {object} dto.ClientListResponse
// @Router    /api/clients [get]
func (h *ClientsHandler) List(c *gin.Context) {
	var filter dto.ListFilter
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
// @Summary   Create a client
// @Tags      clients
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body body dto.CreateClientRequest true "Client"
// @Success   201  {object} dto.ClientResponse
// @Failure   400  {object} apierror.APIError
// @Failure   409  {object} apierror.APIError
// @Router    /api/clients [post]
func (h *ClientsHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
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
// @Summary   Retrieve a client
// @Tags      clients
// @Produce   json
// @Security  BearerAuth
// @Param     id  path int true "Client ID"
// @Success   200 {object} dto.ClientResponse
// @Failure   404 {object} apierror.APIError
// @Router    /api/clients/{id} [get]
func (h *ClientsHandler) Get(c *gin.Context) {
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
// @Summary   Replace a client
// @Tags      clients
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id   path int                     true "Client ID"
// @Param     body body dto.UpdateClientRequest true "Client"
// @Success   200  {object} dto.ClientResponse
// @Router    /api/clients/{id} [put]
func (h *ClientsHandler) Replace(c *gin.Context) { h.update(c, true) }

// Patch godoc
// @Summary   Partially update a client
// @Tags      clients
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id   path int                     true "Client ID"
// @Param     body body dto.UpdateClientRequest true "Fields to change"
// @Success   200  {object} dto.ClientResponse
// @Router    /api/clients/{id} [patch]
func (h *ClientsHandler) Patch(c *gin.Context) { h.update(c, false) }

func (h *ClientsHandler) update(c *gin.Context, full bool) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateClientRequest
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
// @Summary      Delete a client
// @Description  Also deletes the client's quotations and receipts.
// @Tags         clients
// @Security     BearerAuth
// @Param        id path int true "Client ID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /api/clients/{id} [delete]
func (h *ClientsHandler) Delete(c *gin.Context) {
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
