// Package jira creates a ticket per alert through the Jira REST API.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/target/alert-dispatch/internal/domain/model"
	"github.com/target/alert-dispatch/internal/outputs"
)

// ServiceKey is the registry key for this variant.
const ServiceKey = "jira"

const defaultIssueType = "Task"

// Output files one Jira issue per dispatched alert.
type Output struct {
	outputs.Base
	sender *outputs.HTTPSender
}

// New constructs the Jira output from deployment context.
func New(opts outputs.Options) outputs.Dispatcher {
	opts.ServiceKey = ServiceKey
	return &Output{
		Base:   outputs.NewBase(opts),
		sender: outputs.NewHTTPSender(nil, 0),
	}
}

// UserDefinedProperties declares the configurable fields for Jira.
func (o *Output) UserDefinedProperties() map[string]outputs.OutputProperty {
	issueType := outputs.NewOutputProperty("the Jira issue type created for alerts", defaultIssueType)
	issueType.CredRequirement = true

	projectKey := outputs.NewOutputProperty("the Jira project key alerts are filed under", "")
	projectKey.CredRequirement = true

	return map[string]outputs.OutputProperty{
		"descriptor": outputs.NewOutputProperty(
			"a short and unique descriptor for this Jira integration", ""),
		"url":         outputs.CredProperty("the base url of the Jira instance"),
		"username":    outputs.CredProperty("the Jira username used for issue creation"),
		"password":    outputs.CredProperty("the Jira password or API token"),
		"project_key": projectKey,
		"issue_type":  issueType,
	}
}

// Dispatch files an issue for the destination named by descriptor.
func (o *Output) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load jira credentials",
			"descriptor", descriptor,
			"error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	issueType := creds["issue_type"]
	if issueType == "" {
		issueType = defaultIssueType
	}

	issue := map[string]any{
		"fields": map[string]any{
			"project":     map[string]string{"key": creds["project_key"]},
			"summary":     "Security alert: " + alert.RuleName,
			"description": issueDescription(alert),
			"issuetype":   map[string]string{"name": issueType},
		},
	}
	body, err := json.Marshal(issue)
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode jira payload", "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	status, err := o.sender.Send(ctx, outputs.HTTPRequest{
		URL:           strings.TrimRight(creds["url"], "/") + "/rest/api/2/issue",
		Body:          body,
		BasicAuthUser: creds["username"],
		BasicAuthPass: creds["password"],
	})
	if err != nil {
		o.Logger().ErrorContext(ctx, "jira issue creation failed",
			"descriptor", descriptor,
			"status", status,
			"error", err)
	}

	success := err == nil && o.ValidateResponse(status)
	o.LogOutcome(ctx, success, descriptor)
	return success
}

func issueDescription(alert *model.Alert) string {
	record, err := json.MarshalIndent(alert.Record, "", "  ")
	if err != nil {
		record = []byte(fmt.Sprintf("%v", alert.Record))
	}
	text := strings.Builder{}
	text.WriteString("Alert ID: ")
	text.WriteString(alert.ID)
	text.WriteByte('\n')
	if alert.RuleDescription != "" {
		text.WriteString(alert.RuleDescription)
		text.WriteByte('\n')
	}
	text.WriteString("{code}")
	text.Write(record)
	text.WriteString("{code}")
	return text.String()
}
