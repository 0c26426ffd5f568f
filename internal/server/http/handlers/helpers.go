package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/aquadesk/aquadesk/internal/domain/errors"
	"github.com/aquadesk/aquadesk/internal/server/http/dto"
)

// pathID extracts a numeric :id path parameter. The second return value is
// false when the parameter is not a positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeDomainError maps domain errors onto HTTP statuses. Duplicate
// rejections carry the conflicting request so the caller can link to it.
func writeDomainError(c *gin.Context, err error) {
	var dup *domainErrors.DuplicateActiveRequestError
	var invalid *domainErrors.InvalidTransitionError

	switch {
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, dto.ConflictResponse{
			Error:          "customer already has an active request",
			ExistingID:     dup.ExistingID,
			ExistingStatus: dup.ExistingStatus,
		})
	case errors.Is(err, domainErrors.ErrDuplicateActiveRequest):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "customer already has an active request"})
	case errors.Is(err, domainErrors.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "request creation rate limited"})
	case errors.As(err, &invalid):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: invalid.Error()})
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "invalid status transition"})
	case errors.Is(err, domainErrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrCustomerNotFound), errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	default:
		c.Status(http.StatusInternalServerError)
	}
}
