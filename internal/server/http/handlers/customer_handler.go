package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aquadesk/aquadesk/internal/domain/model"
	"github.com/aquadesk/aquadesk/internal/server/http/dto"
)

// CustomerHandler manages customer endpoints.
type CustomerHandler struct {
	facade CustomerFacade
}

// NewCustomerHandler constructs CustomerHandler.
func NewCustomerHandler(facade CustomerFacade) *CustomerHandler {
	return &CustomerHandler{facade: facade}
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	customer, err := h.facade.CreateCustomer(c.Request.Context(), &model.Customer{
		Name:        req.Name,
		Address:     req.Address,
		PricePerCan: req.PricePerCan,
		PaymentType: model.PaymentType(req.PaymentType),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

// Get handles GET /api/customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return
	}

	customer, err := h.facade.Customer(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// List handles GET /api/customers.
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.facade.Customers(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		response = append(response, toCustomerResponse(&customers[i]))
	}
	c.JSON(http.StatusOK, response)
}

func toCustomerResponse(customer *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:          customer.ID,
		Name:        customer.Name,
		Address:     customer.Address,
		PricePerCan: customer.PricePerCan,
		PaymentType: string(customer.PaymentType),
		CreatedAt:   customer.CreatedAt,
	}
}
