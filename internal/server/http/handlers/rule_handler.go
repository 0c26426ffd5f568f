package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aquadesk/aquadesk/internal/domain/model"
	"github.com/aquadesk/aquadesk/internal/server/http/dto"
)

// RuleHandler manages recurrence rule endpoints.
type RuleHandler struct {
	facade RuleFacade
}

// NewRuleHandler constructs RuleHandler.
func NewRuleHandler(facade RuleFacade) *RuleHandler {
	return &RuleHandler{facade: facade}
}

// Create handles POST /api/rules.
func (h *RuleHandler) Create(c *gin.Context) {
	var req dto.RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	rule, err := h.facade.CreateRule(c.Request.Context(), ruleFromRequest(&req))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ToRuleResponse(rule))
}

// List handles GET /api/rules. Reading the rule list is also an
// opportunistic trigger site: clients polling it keep the sweep alive even
// if the cron cadence died.
func (h *RuleHandler) List(c *gin.Context) {
	go h.facade.TriggerSweepNow()

	rules, err := h.facade.Rules(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}

	response := make([]dto.RuleResponse, 0, len(rules))
	for i := range rules {
		response = append(response, ToRuleResponse(&rules[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Update handles PUT /api/rules/:id.
func (h *RuleHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return
	}

	var req dto.RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	rule, err := h.facade.UpdateRule(c.Request.Context(), id, ruleFromRequest(&req))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToRuleResponse(rule))
}

// Delete handles DELETE /api/rules/:id.
func (h *RuleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return
	}

	if err := h.facade.DeleteRule(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Advance handles POST /api/rules/:id/advance: the rule is moved past its
// current occurrence without firing, for callers that created the delivery
// themselves. one_time rules are deleted and answered with 204.
func (h *RuleHandler) Advance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return
	}

	rule, err := h.facade.AdvanceRule(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if rule == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, ToRuleResponse(rule))
}

func ruleFromRequest(req *dto.RuleRequest) *model.RecurrenceRule {
	return &model.RecurrenceRule{
		CustomerID: req.CustomerID,
		Type:       model.RuleType(req.Type),
		Days:       req.Days,
		Date:       req.Date,
		Time:       req.Time,
		Cans:       req.Cans,
		Priority:   model.RequestPriority(req.Priority),
	}
}

// ToRuleResponse converts a rule to its wire representation. Exported
// because the degraded-mode client decodes the same shape.
func ToRuleResponse(rule *model.RecurrenceRule) dto.RuleResponse {
	return dto.RuleResponse{
		ID:              rule.ID,
		CustomerID:      rule.CustomerID,
		Type:            string(rule.Type),
		Days:            rule.Days,
		Date:            rule.Date,
		Time:            rule.Time,
		Cans:            rule.Cans,
		Priority:        string(rule.Priority),
		NextRun:         rule.NextRun,
		LastTriggeredAt: rule.LastTriggeredAt,
	}
}
