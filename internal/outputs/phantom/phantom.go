// Package phantom forwards alerts to a Phantom security-orchestration
// instance as a container with one artifact carrying the alert record.
package phantom

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/target/alert-dispatch/internal/domain/model"
	"github.com/target/alert-dispatch/internal/outputs"
)

// ServiceKey is the registry key for this variant.
const ServiceKey = "phantom"

// Output sends alerts to one Phantom instance per descriptor.
type Output struct {
	outputs.Base
	sender *outputs.HTTPSender
}

// New constructs the Phantom output from deployment context.
func New(opts outputs.Options) outputs.Dispatcher {
	opts.ServiceKey = ServiceKey
	return &Output{
		Base:   outputs.NewBase(opts),
		sender: outputs.NewHTTPSender(nil, 0),
	}
}

// UserDefinedProperties declares the configurable fields for Phantom.
func (o *Output) UserDefinedProperties() map[string]outputs.OutputProperty {
	return map[string]outputs.OutputProperty{
		"descriptor": outputs.NewOutputProperty(
			"a short and unique descriptor for this Phantom integration", ""),
		"url": outputs.CredProperty(
			"the base url of the Phantom instance"),
		"ph_auth_token": outputs.CredProperty(
			"the automation auth token for the Phantom REST API"),
	}
}

// Dispatch creates a container for the alert, then attaches the record as an
// artifact. Both calls must succeed for the send to count as delivered.
func (o *Output) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load phantom credentials",
			"descriptor", descriptor,
			"error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	baseURL := strings.TrimRight(creds["url"], "/")
	headers := map[string]string{"ph-auth-token": creds["ph_auth_token"]}

	containerID, ok := o.createContainer(ctx, baseURL, headers, alert)
	if !ok {
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	success := o.attachArtifact(ctx, baseURL, headers, containerID, alert)
	o.LogOutcome(ctx, success, descriptor)
	return success
}

func (o *Output) createContainer(
	ctx context.Context,
	baseURL string,
	headers map[string]string,
	alert *model.Alert,
) (int, bool) {
	body, err := json.Marshal(map[string]any{
		"name":        alert.RuleName,
		"description": alert.RuleDescription,
		"label":       "events",
	})
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode phantom container", "error", err)
		return 0, false
	}

	status, respBody, err := o.sender.SendForBody(ctx, outputs.HTTPRequest{
		URL:     baseURL + "/rest/container",
		Body:    body,
		Headers: headers,
	})
	if err != nil || !o.ValidateResponse(status) {
		o.Logger().ErrorContext(ctx, "phantom container creation failed",
			"status", status,
			"error", err)
		return 0, false
	}

	var created struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(respBody, &created); err != nil || created.ID == 0 {
		o.Logger().ErrorContext(ctx, "phantom container response missing id", "error", err)
		return 0, false
	}
	return created.ID, true
}

func (o *Output) attachArtifact(
	ctx context.Context,
	baseURL string,
	headers map[string]string,
	containerID int,
	alert *model.Alert,
) bool {
	body, err := json.Marshal(map[string]any{
		"container_id":   containerID,
		"name":           "alert record",
		"label":          "alert",
		"cef":            alert.Record,
		"run_automation": false,
	})
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode phantom artifact", "error", err)
		return false
	}

	status, err := o.sender.Send(ctx, outputs.HTTPRequest{
		URL:     baseURL + "/rest/artifact",
		Body:    body,
		Headers: headers,
	})
	if err != nil {
		o.Logger().ErrorContext(ctx, "phantom artifact creation failed",
			"status", status,
			"error", err)
	}
	return err == nil && o.ValidateResponse(status)
}
