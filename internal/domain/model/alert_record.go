package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Alert is one produced security alert ready for dispatch. Record carries the
// triggering log record verbatim; the dispatch core never interprets its
// contents beyond serializing them for downstream services.
type Alert struct {
	ID              string         `json:"id"`
	RuleName        string         `json:"rule_name"`
	RuleDescription string         `json:"rule_description,omitempty"`
	Severity        string         `json:"severity,omitempty"`
	Source          string         `json:"source,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	Record          map[string]any `json:"record"`
}

// NewAlert builds an alert with a generated ID and creation timestamp.
func NewAlert(ruleName string, record map[string]any) *Alert {
	return &Alert{
		ID:        uuid.NewString(),
		RuleName:  ruleName,
		CreatedAt: time.Now().UTC(),
		Record:    record,
	}
}

// Validate checks the minimum fields required before an alert may be dispatched.
func (a *Alert) Validate() error {
	if a == nil {
		return errors.New("alert is required")
	}
	if strings.TrimSpace(a.RuleName) == "" {
		return errors.New("alert rule_name is required")
	}
	if a.Record == nil {
		return errors.New("alert record is required")
	}
	return nil
}

// Output returns the canonical payload sent to destinations.
func (a *Alert) Output() map[string]any {
	out := map[string]any{
		"id":         a.ID,
		"rule_name":  a.RuleName,
		"created_at": a.CreatedAt.UTC().Format(time.RFC3339),
		"record":     a.Record,
	}
	if a.RuleDescription != "" {
		out["rule_description"] = a.RuleDescription
	}
	if a.Severity != "" {
		out["severity"] = a.Severity
	}
	if a.Source != "" {
		out["source"] = a.Source
	}
	return out
}

// OutputJSON serializes the canonical payload.
func (a *Alert) OutputJSON() ([]byte, error) {
	return json.Marshal(a.Output())
}
