// Package carbonblack bans file hashes on a Carbon Black Response server.
// Unlike the notification variants, dispatching here takes an enforcement
// action: the binary named by the alert record's md5 is added to the
// server's banning blacklist.
package carbonblack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/target/alert-dispatch/internal/domain/model"
	"github.com/target/alert-dispatch/internal/outputs"
)

// ServiceKey is the registry key for this variant.
const ServiceKey = "carbonblack"

const banEndpoint = "/api/v1/banning/blacklist"

// Output bans binaries on one Carbon Black server per descriptor.
type Output struct {
	outputs.Base
	sender *outputs.HTTPSender
}

// New constructs the Carbon Black output from deployment context.
func New(opts outputs.Options) outputs.Dispatcher {
	opts.ServiceKey = ServiceKey
	return &Output{
		Base:   outputs.NewBase(opts),
		sender: outputs.NewHTTPSender(nil, 0),
	}
}

// UserDefinedProperties declares the configurable fields for Carbon Black.
func (o *Output) UserDefinedProperties() map[string]outputs.OutputProperty {
	return map[string]outputs.OutputProperty{
		"descriptor": outputs.NewOutputProperty(
			"a short and unique descriptor for this Carbon Black server", ""),
		"url": outputs.CredProperty(
			"the base url of the Carbon Black Response server"),
		"token": outputs.CredProperty(
			"the API token authorized to manage the banning blacklist"),
	}
}

// Dispatch bans the md5 carried by the alert record. Alerts whose record has
// no md5 fail the send; there is nothing to enforce.
func (o *Output) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load carbonblack credentials",
			"descriptor", descriptor,
			"error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	md5, _ := alert.Record["md5"].(string)
	if strings.TrimSpace(md5) == "" {
		o.Logger().ErrorContext(ctx, "alert record carries no md5 to ban",
			"descriptor", descriptor,
			"rule", alert.RuleName)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	body, err := json.Marshal(map[string]any{
		"md5hash": md5,
		"text":    "Banned by security alert rule " + alert.RuleName,
		"enabled": true,
	})
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode carbonblack payload", "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	status, err := o.sender.Send(ctx, outputs.HTTPRequest{
		URL:     strings.TrimRight(creds["url"], "/") + banEndpoint,
		Body:    body,
		Headers: map[string]string{"X-Auth-Token": creds["token"]},
	})
	if err != nil {
		o.Logger().ErrorContext(ctx, "carbonblack request failed",
			"descriptor", descriptor,
			"status", status,
			"error", fmt.Errorf("ban %s: %w", md5, err))
	}

	success := err == nil && o.ValidateResponse(status)
	o.LogOutcome(ctx, success, descriptor)
	return success
}
