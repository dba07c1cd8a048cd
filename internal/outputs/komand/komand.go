// Package komand triggers Komand automation workflows with the alert
// envelope.
package komand

import (
	"context"
	"encoding/json"

	"github.com/target/alert-dispatch/internal/domain/model"
	"github.com/target/alert-dispatch/internal/outputs"
)

// ServiceKey is the registry key for this variant.
const ServiceKey = "komand"

// Output posts alerts to one Komand webhook trigger per descriptor.
type Output struct {
	outputs.Base
	sender *outputs.HTTPSender
}

// New constructs the Komand output from deployment context.
func New(opts outputs.Options) outputs.Dispatcher {
	opts.ServiceKey = ServiceKey
	return &Output{
		Base:   outputs.NewBase(opts),
		sender: outputs.NewHTTPSender(nil, 0),
	}
}

// UserDefinedProperties declares the configurable fields for Komand.
func (o *Output) UserDefinedProperties() map[string]outputs.OutputProperty {
	return map[string]outputs.OutputProperty{
		"descriptor": outputs.NewOutputProperty(
			"a short and unique descriptor for this Komand workflow", ""),
		"url": outputs.CredProperty(
			"the Komand workflow webhook trigger url"),
		"komand_auth_token": outputs.CredProperty(
			"the authorization token for the webhook trigger"),
	}
}

// Dispatch posts the alert to the workflow trigger named by descriptor. The
// envelope rides under a "data" key, the shape the trigger step unwraps.
func (o *Output) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load komand credentials",
			"descriptor", descriptor,
			"error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	body, err := json.Marshal(map[string]any{"data": alert.Output()})
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode komand payload", "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	status, err := o.sender.Send(ctx, outputs.HTTPRequest{
		URL:     creds["url"],
		Body:    body,
		Headers: map[string]string{"Authorization": creds["komand_auth_token"]},
	})
	if err != nil {
		o.Logger().ErrorContext(ctx, "komand request failed",
			"descriptor", descriptor,
			"status", status,
			"error", err)
	}

	success := err == nil && o.ValidateResponse(status)
	o.LogOutcome(ctx, success, descriptor)
	return success
}
