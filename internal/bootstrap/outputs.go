package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/target/alert-dispatch/internal/core"
	"github.com/target/alert-dispatch/internal/outputs"
	"github.com/target/alert-dispatch/internal/outputs/aws"
	"github.com/target/alert-dispatch/internal/outputs/carbonblack"
	"github.com/target/alert-dispatch/internal/outputs/github"
	"github.com/target/alert-dispatch/internal/outputs/jira"
	"github.com/target/alert-dispatch/internal/outputs/komand"
	"github.com/target/alert-dispatch/internal/outputs/pagerduty"
	"github.com/target/alert-dispatch/internal/outputs/phantom"
	"github.com/target/alert-dispatch/internal/outputs/slack"
)

// OutputDeps carries the cloud ports the aws variants deliver through.
type OutputDeps struct {
	ObjectStore     core.ObjectStore
	TopicPublisher  core.TopicPublisher
	QueuePublisher  core.QueuePublisher
	StreamPublisher core.StreamPublisher
	LogEventWriter  core.LogEventWriter
	FunctionInvoker core.FunctionInvoker
	Logger          *slog.Logger
}

// NewOutputRegistry assembles the full output catalog. The list below is the
// compile-time source of truth for supported service keys; the catalog
// regression test asserts it stays exact.
func NewOutputRegistry(deps OutputDeps) (*outputs.Registry, error) {
	registry := outputs.NewRegistry(deps.Logger)

	catalog := map[string]outputs.Factory{
		aws.S3ServiceKey:             aws.NewS3Factory(deps.ObjectStore),
		aws.SNSServiceKey:            aws.NewSNSFactory(deps.TopicPublisher),
		aws.SQSServiceKey:            aws.NewSQSFactory(deps.QueuePublisher),
		aws.FirehoseServiceKey:       aws.NewFirehoseFactory(deps.StreamPublisher),
		aws.CloudWatchLogServiceKey:  aws.NewCloudWatchLogFactory(deps.LogEventWriter),
		aws.LambdaServiceKey:         aws.NewLambdaFactory(deps.FunctionInvoker),
		carbonblack.ServiceKey:       carbonblack.New,
		github.ServiceKey:            github.New,
		jira.ServiceKey:              jira.New,
		komand.ServiceKey:            komand.New,
		pagerduty.ServiceKey:         pagerduty.New,
		pagerduty.ServiceKeyV2:       pagerduty.NewV2,
		pagerduty.ServiceKeyIncident: pagerduty.NewIncident,
		phantom.ServiceKey:           phantom.New,
		slack.ServiceKey:             slack.New,
	}

	for serviceKey, factory := range catalog {
		if err := registry.Register(serviceKey, factory); err != nil {
			return nil, fmt.Errorf("assemble output catalog: %w", err)
		}
	}
	return registry, nil
}
