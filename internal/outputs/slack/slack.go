// Package slack delivers alerts to a Slack incoming webhook.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/target/alert-dispatch/internal/domain/model"
	"github.com/target/alert-dispatch/internal/outputs"
)

// ServiceKey is the registry key for this variant.
const ServiceKey = "slack"

// Slack truncates messages past this length.
const maxMessageLength = 4000

// Output sends alerts to one Slack webhook per descriptor.
type Output struct {
	outputs.Base
	sender *outputs.HTTPSender
}

// New constructs the Slack output from deployment context.
func New(opts outputs.Options) outputs.Dispatcher {
	opts.ServiceKey = ServiceKey
	return &Output{
		Base:   outputs.NewBase(opts),
		sender: outputs.NewHTTPSender(nil, 0),
	}
}

// UserDefinedProperties declares the configurable fields for Slack.
func (o *Output) UserDefinedProperties() map[string]outputs.OutputProperty {
	return map[string]outputs.OutputProperty{
		"descriptor": outputs.NewOutputProperty(
			"a short and unique descriptor for this Slack integration (e.g. channel or team name)", ""),
		"url": outputs.CredProperty(
			"the full Slack webhook url, including the secret"),
	}
}

// Dispatch posts the alert to the webhook configured for descriptor.
func (o *Output) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load slack credentials",
			"descriptor", descriptor,
			"error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	body, err := json.Marshal(map[string]any{
		"text":       formatMessage(alert),
		"mrkdwn":     true,
		"icon_emoji": ":rotating_light:",
	})
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode slack payload", "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	status, err := o.sender.Send(ctx, outputs.HTTPRequest{URL: creds["url"], Body: body})
	if err != nil {
		o.Logger().ErrorContext(ctx, "slack webhook request failed",
			"descriptor", descriptor,
			"status", status,
			"error", err)
	}

	success := err == nil && o.ValidateResponse(status)
	o.LogOutcome(ctx, success, descriptor)
	return success
}

func formatMessage(alert *model.Alert) string {
	text := strings.Builder{}
	text.WriteString("*Security alert*: `")
	text.WriteString(alert.RuleName)
	text.WriteString("`\n")

	appendField(&text, "Severity", alert.Severity)
	appendField(&text, "Source", alert.Source)
	appendField(&text, "Alert ID", alert.ID)
	if alert.RuleDescription != "" {
		appendField(&text, "Description", alert.RuleDescription)
	}
	appendRecord(&text, alert.Record)

	msg := text.String()
	if len(msg) > maxMessageLength {
		// Back up to a rune boundary so truncation never emits invalid UTF-8.
		cut := maxMessageLength - 3
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut] + "..."
	}
	return msg
}

func appendField(text *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	text.WriteString("• ")
	text.WriteString(label)
	text.WriteString(": ")
	text.WriteString(escapeText(value))
	text.WriteByte('\n')
}

func appendRecord(text *strings.Builder, record map[string]any) {
	if len(record) == 0 {
		return
	}
	text.WriteString("• Record:\n")
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		text.WriteString("    • ")
		text.WriteString(escapeText(k))
		text.WriteString(": ")
		text.WriteString(escapeText(fmt.Sprintf("%v", record[k])))
		text.WriteByte('\n')
	}
}

func escapeText(value string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	).Replace(value)
}
