package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aquadesk/aquadesk/internal/domain/model"
	"github.com/aquadesk/aquadesk/internal/server/http/dto"
)

// RequestHandler manages delivery request endpoints.
type RequestHandler struct {
	facade RequestFacade
}

// NewRequestHandler constructs RequestHandler.
func NewRequestHandler(facade RequestFacade) *RequestHandler {
	return &RequestHandler{facade: facade}
}

// Create handles POST /api/requests.
func (h *RequestHandler) Create(c *gin.Context) {
	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CustomerID <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	request, err := h.facade.CreateRequest(c.Request.Context(), req.CustomerID, req.Cans, model.RequestPriority(req.Priority))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRequestResponse(request))
}

// List handles GET /api/requests with an optional ?status= filter. Like the
// rule list, it doubles as an opportunistic sweep trigger.
func (h *RequestHandler) List(c *gin.Context) {
	go h.facade.TriggerSweepNow()

	requests, err := h.facade.Requests(c.Request.Context(), model.RequestStatus(c.Query("status")))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		response = append(response, toRequestResponse(&requests[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Status handles POST /api/requests/:id/status.
func (h *RequestHandler) Status(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return
	}

	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	request, err := h.facade.TransitionRequest(c.Request.Context(), id, model.RequestStatus(req.Status))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRequestResponse(request))
}

// Cancel handles POST /api/requests/:id/cancel.
func (h *RequestHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return
	}

	var req dto.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	request, err := h.facade.CancelRequest(c.Request.Context(), id, model.CancelActor(req.Actor), req.Reason, req.Notes)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRequestResponse(request))
}

func toRequestResponse(request *model.DeliveryRequest) dto.RequestResponse {
	return dto.RequestResponse{
		ID:                 request.ID,
		CustomerID:         request.CustomerID,
		CustomerName:       request.CustomerName,
		Address:            request.Address,
		PricePerCan:        request.PricePerCan,
		PaymentType:        string(request.PaymentType),
		Cans:               request.Cans,
		Priority:           string(request.Priority),
		Status:             string(request.Status),
		RequestedAt:        request.RequestedAt,
		DeliveredAt:        request.DeliveredAt,
		CompletedAt:        request.CompletedAt,
		CancelledAt:        request.CancelledAt,
		CancelledBy:        string(request.CancelledBy),
		CancellationReason: request.CancellationReason,
		CancellationNotes:  request.CancellationNotes,
	}
}
