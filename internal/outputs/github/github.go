// Package github opens a GitHub issue per alert.
package github

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/target/alert-dispatch/internal/domain/model"
	"github.com/target/alert-dispatch/internal/outputs"
)

// ServiceKey is the registry key for this variant.
const ServiceKey = "github"

const apiBaseURL = "https://api.github.com"

// Output files issues in one repository per descriptor.
type Output struct {
	outputs.Base
	sender *outputs.HTTPSender
}

// New constructs the GitHub output from deployment context.
func New(opts outputs.Options) outputs.Dispatcher {
	opts.ServiceKey = ServiceKey
	return &Output{
		Base:   outputs.NewBase(opts),
		sender: outputs.NewHTTPSender(nil, 0),
	}
}

// UserDefinedProperties declares the configurable fields for GitHub.
func (o *Output) UserDefinedProperties() map[string]outputs.OutputProperty {
	repo := outputs.NewOutputProperty("the owner/name of the repository issues are filed in", "")
	repo.CredRequirement = true

	apiURL := outputs.NewOutputProperty("the GitHub API root, for GitHub Enterprise instances", apiBaseURL)
	apiURL.CredRequirement = true

	return map[string]outputs.OutputProperty{
		"descriptor": outputs.NewOutputProperty(
			"a short and unique descriptor for this GitHub integration", ""),
		"repository":   repo,
		"api_url":      apiURL,
		"username":     outputs.CredProperty("the GitHub username used for issue creation"),
		"access_token": outputs.CredProperty("a personal access token with repo scope"),
	}
}

// Dispatch opens an issue for the destination named by descriptor.
func (o *Output) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load github credentials",
			"descriptor", descriptor,
			"error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	record, err := json.MarshalIndent(alert.Record, "", "  ")
	if err != nil {
		record = []byte(fmt.Sprintf("%v", alert.Record))
	}
	issue := map[string]any{
		"title": "Security alert: " + alert.RuleName,
		"body":  fmt.Sprintf("Alert ID: %s\n\n```\n%s\n```", alert.ID, record),
	}
	body, err := json.Marshal(issue)
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode github payload", "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	apiURL := creds["api_url"]
	if apiURL == "" {
		apiURL = apiBaseURL
	}
	status, err := o.sender.Send(ctx, outputs.HTTPRequest{
		URL:           fmt.Sprintf("%s/repos/%s/issues", apiURL, creds["repository"]),
		Body:          body,
		BasicAuthUser: creds["username"],
		BasicAuthPass: creds["access_token"],
	})
	if err != nil {
		o.Logger().ErrorContext(ctx, "github issue creation failed",
			"descriptor", descriptor,
			"status", status,
			"error", err)
	}

	success := err == nil && o.ValidateResponse(status)
	o.LogOutcome(ctx, success, descriptor)
	return success
}
