package pagerduty

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/target/alert-dispatch/internal/domain/model"
	"github.com/target/alert-dispatch/internal/outputs"
)

// ServiceKeyIncident is the registry key for the REST incidents variant.
const ServiceKeyIncident = "pagerduty-incident"

const defaultIncidentsAPI = "https://api.pagerduty.com"

// OutputIncident opens incidents directly through the REST API, bypassing
// the events pipeline. Unlike the events variants, the REST API requires an
// account token and a requester identity, not just an integration key.
type OutputIncident struct {
	outputs.Base
	sender *outputs.HTTPSender
}

// NewIncident constructs the REST incidents output from deployment context.
func NewIncident(opts outputs.Options) outputs.Dispatcher {
	opts.ServiceKey = ServiceKeyIncident
	return &OutputIncident{
		Base:   outputs.NewBase(opts),
		sender: outputs.NewHTTPSender(nil, 0),
	}
}

// UserDefinedProperties declares the configurable fields for the REST API.
func (o *OutputIncident) UserDefinedProperties() map[string]outputs.OutputProperty {
	api := outputs.CredProperty("the PagerDuty REST API base url")
	api.Value = defaultIncidentsAPI
	return map[string]outputs.OutputProperty{
		"descriptor": outputs.NewOutputProperty(
			"a short and unique descriptor for this PagerDuty integration", ""),
		"api": api,
		"token": outputs.CredProperty(
			"the account API token authorized to create incidents"),
		"service_id": outputs.CredProperty(
			"the id of the PagerDuty service incidents are opened against"),
		"email_from": outputs.CredProperty(
			"the email of a valid user to record as the incident requester"),
	}
}

// Dispatch opens an incident against the service configured for descriptor.
func (o *OutputIncident) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load pagerduty credentials",
			"descriptor", descriptor,
			"error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	if creds["token"] == "" || creds["service_id"] == "" || creds["email_from"] == "" {
		o.Logger().ErrorContext(ctx, "pagerduty incident credentials incomplete",
			"descriptor", descriptor)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	details := alert.RuleDescription
	if strings.TrimSpace(details) == "" {
		details = summaryFor(alert)
	}
	body, err := json.Marshal(map[string]any{
		"incident": map[string]any{
			"type":  "incident",
			"title": summaryFor(alert),
			"service": map[string]any{
				"id":   creds["service_id"],
				"type": "service_reference",
			},
			"body": map[string]any{
				"type":    "incident_body",
				"details": details,
			},
		},
	})
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode pagerduty payload", "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	api := creds["api"]
	if api == "" {
		api = defaultIncidentsAPI
	}
	status, err := o.sender.Send(ctx, outputs.HTTPRequest{
		URL:  strings.TrimRight(api, "/") + "/incidents",
		Body: body,
		Headers: map[string]string{
			"Authorization": "Token token=" + creds["token"],
			"From":          creds["email_from"],
			"Accept":        "application/vnd.pagerduty+json;version=2",
		},
	})
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
