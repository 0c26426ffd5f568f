package dto

import "time"

// RuleRequest is the recurrence rule creation/update payload.
type RuleRequest struct {
	CustomerID int64  `json:"customer_id"`
	Type       string `json:"type"`
	Days       []int  `json:"days,omitempty"`
	Date       string `json:"date,omitempty"`
	Time       string `json:"time"`
	Cans       int    `json:"cans"`
	Priority   string `json:"priority,omitempty"`
}

// RuleResponse represents a recurrence rule with its computed schedule.
type RuleResponse struct {
	ID              int64      `json:"id"`
	CustomerID      int64      `json:"customer_id"`
	Type            string     `json:"type"`
	Days            []int      `json:"days,omitempty"`
	Date            string     `json:"date,omitempty"`
	Time            string     `json:"time"`
	Cans            int        `json:"cans"`
	Priority        string     `json:"priority"`
	NextRun         *time.Time `json:"next_run,omitempty"`
	LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty"`
}
