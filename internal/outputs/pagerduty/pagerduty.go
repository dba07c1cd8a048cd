// Package pagerduty delivers alerts through the PagerDuty events APIs. Two
// variants are registered: "pagerduty" for the v1 events API and
// "pagerduty-v2" for the Events API v2.
package pagerduty

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/target/alert-dispatch/internal/domain/model"
	"github.com/target/alert-dispatch/internal/outputs"
)

// Registry keys for the two events API generations.
const (
	ServiceKey   = "pagerduty"
	ServiceKeyV2 = "pagerduty-v2"
)

const defaultSeverity = "critical"

// Output triggers incidents via the v1 events API.
type Output struct {
	outputs.Base
	sender *outputs.HTTPSender
}

// New constructs the v1 output from deployment context.
func New(opts outputs.Options) outputs.Dispatcher {
	opts.ServiceKey = ServiceKey
	return &Output{
		Base:   outputs.NewBase(opts),
		sender: outputs.NewHTTPSender(nil, 0),
	}
}

// UserDefinedProperties declares the configurable fields for the v1 API.
func (o *Output) UserDefinedProperties() map[string]outputs.OutputProperty {
	return map[string]outputs.OutputProperty{
		"descriptor": outputs.NewOutputProperty(
			"a short and unique descriptor for this PagerDuty integration", ""),
		"url": outputs.CredProperty(
			"the PagerDuty events API v1 endpoint url"),
		"service_key": outputs.CredProperty(
			"the integration key for this PagerDuty service"),
	}
}

// Dispatch triggers a v1 event for the destination named by descriptor.
func (o *Output) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load pagerduty credentials",
			"descriptor", descriptor,
			"error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	event := map[string]any{
		"service_key": creds["service_key"],
		"event_type":  "trigger",
		"description": summaryFor(alert),
		"details":     alert.Output(),
		"client":      o.FunctionName,
	}
	success := o.send(ctx, creds["url"], event, descriptor)
	o.LogOutcome(ctx, success, descriptor)
	return success
}

func (o *Output) send(ctx context.Context, url string, event map[string]any, descriptor string) bool {
	body, err := json.Marshal(event)
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode pagerduty payload", "error", err)
		return false
	}
	status, err := o.sender.Send(ctx, outputs.HTTPRequest{URL: url, Body: body})
	if err != nil {
		o.Logger().ErrorContext(ctx, "pagerduty request failed",
			"descriptor", descriptor,
			"status", status,
			"error", err)
	}
	return err == nil && o.ValidateResponse(status)
}

// OutputV2 triggers incidents via the Events API v2.
type OutputV2 struct {
	outputs.Base
	sender *outputs.HTTPSender
}

// NewV2 constructs the Events API v2 output from deployment context.
func NewV2(opts outputs.Options) outputs.Dispatcher {
	opts.ServiceKey = ServiceKeyV2
	return &OutputV2{
		Base:   outputs.NewBase(opts),
		sender: outputs.NewHTTPSender(nil, 0),
	}
}

// UserDefinedProperties declares the configurable fields for the v2 API.
func (o *OutputV2) UserDefinedProperties() map[string]outputs.OutputProperty {
	return map[string]outputs.OutputProperty{
		"descriptor": outputs.NewOutputProperty(
			"a short and unique descriptor for this PagerDuty integration", ""),
		"url": outputs.CredProperty(
			"the PagerDuty events API v2 enqueue url"),
		"routing_key": outputs.CredProperty(
			"the integration routing key for this PagerDuty service"),
	}
}

// Dispatch enqueues a v2 trigger event for the destination named by descriptor.
func (o *OutputV2) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load pagerduty credentials",
			"descriptor", descriptor,
			"error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	event := map[string]any{
		"routing_key":  creds["routing_key"],
		"event_action": "trigger",
		"client":       o.FunctionName,
		"payload": map[string]any{
			"summary":        summaryFor(alert),
			"source":         sourceFor(alert),
			"severity":       severityFor(alert),
			"custom_details": alert.Output(),
		},
	}

	body, err := json.Marshal(event)
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode pagerduty payload", "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	status, err := o.sender.Send(ctx, outputs.HTTPRequest{URL: creds["url"], Body: body})
	if err != nil {
		o.Logger().ErrorContext(ctx, "pagerduty request failed",
			"descriptor", descriptor,
			"status", status,
			"error", err)
	}

	success := err == nil && o.ValidateResponse(status)
	o.LogOutcome(ctx, success, descriptor)
	return success
}

func summaryFor(alert *model.Alert) string {
	return "Security alert: " + alert.RuleName
}

func sourceFor(alert *model.Alert) string {
	if strings.TrimSpace(alert.Source) != "" {
		return alert.Source
	}
	return "alert-dispatch"
}

func severityFor(alert *model.Alert) string {
	severity := strings.ToLower(strings.TrimSpace(alert.Severity))
	switch severity {
	case "critical", "error", "warning", "info":
		return severity
	default:
		return defaultSeverity
	}
}
