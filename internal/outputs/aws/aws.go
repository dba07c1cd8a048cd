// Package aws holds the output variants that deliver alerts to cloud
// targets: an object-storage bucket, a notification topic, a queue, a
// delivery stream, a log group, and a managed-function invocation. The
// remote services themselves sit behind the ports in internal/core; this
// package only shapes payloads and keys.
package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/target/alert-dispatch/internal/core"
	"github.com/target/alert-dispatch/internal/domain/model"
	"github.com/target/alert-dispatch/internal/outputs"
)

// Registry keys for the cloud variants.
const (
	S3ServiceKey            = "aws-s3"
	SNSServiceKey           = "aws-sns"
	SQSServiceKey           = "aws-sqs"
	LambdaServiceKey        = "aws-lambda"
	FirehoseServiceKey      = "aws-firehose"
	CloudWatchLogServiceKey = "aws-cloudwatch-log"
)

// ErrServiceUnavailable wraps failures from the cloud ports. It extends the
// retry-eligible set for every variant in this package: a cloud put that
// fails is worth retrying, unlike a malformed payload.
var ErrServiceUnavailable = errors.New("cloud service unavailable")

func extraRetryable() []error {
	return []error{ErrServiceUnavailable}
}

func descriptorProperty(service string) outputs.OutputProperty {
	return outputs.NewOutputProperty(
		fmt.Sprintf("a short and unique descriptor for this %s integration", service), "")
}

// S3Output writes each alert as a JSON object into a bucket.
type S3Output struct {
	outputs.Base
	store core.ObjectStore
}

// NewS3Factory builds the aws-s3 factory around an object store.
func NewS3Factory(store core.ObjectStore) outputs.Factory {
	return func(opts outputs.Options) outputs.Dispatcher {
		opts.ServiceKey = S3ServiceKey
		opts.ExtraRetryable = extraRetryable()
		return &S3Output{Base: outputs.NewBase(opts), store: store}
	}
}

// UserDefinedProperties declares the configurable fields for aws-s3.
func (o *S3Output) UserDefinedProperties() map[string]outputs.OutputProperty {
	bucket := outputs.NewOutputProperty("the bucket alerts are written to", "")
	bucket.CredRequirement = true
	return map[string]outputs.OutputProperty{
		"descriptor": descriptorProperty("S3"),
		"bucket":     bucket,
	}
}

// Dispatch writes the alert under alerts/{rule_name}/{date}/{id}.json.
func (o *S3Output) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load s3 credentials",
			"descriptor", descriptor, "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	payload, err := alert.OutputJSON()
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode alert payload", "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	key := objectKey(alert)
	if putErr := o.store.Put(ctx, creds["bucket"], key, payload); putErr != nil {
		o.Logger().ErrorContext(ctx, "s3 put failed",
			"descriptor", descriptor,
			"bucket", creds["bucket"],
			"key", key,
			"error", fmt.Errorf("%w: %w", ErrServiceUnavailable, putErr))
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	o.LogOutcome(ctx, true, descriptor)
	return true
}

func objectKey(alert *model.Alert) string {
	day := alert.CreatedAt.UTC().Format(time.DateOnly)
	id := alert.ID
	if id == "" {
		id = uuid.NewString()
	}
	return fmt.Sprintf("alerts/%s/%s/%s.json", alert.RuleName, day, id)
}

// SNSOutput publishes each alert to a notification topic.
type SNSOutput struct {
	outputs.Base
	topics core.TopicPublisher
}

// NewSNSFactory builds the aws-sns factory around a topic publisher.
func NewSNSFactory(topics core.TopicPublisher) outputs.Factory {
	return func(opts outputs.Options) outputs.Dispatcher {
		opts.ServiceKey = SNSServiceKey
		opts.ExtraRetryable = extraRetryable()
		return &SNSOutput{Base: outputs.NewBase(opts), topics: topics}
	}
}

// UserDefinedProperties declares the configurable fields for aws-sns.
func (o *SNSOutput) UserDefinedProperties() map[string]outputs.OutputProperty {
	topic := outputs.NewOutputProperty("the topic alerts are published to", "")
	topic.CredRequirement = true
	return map[string]outputs.OutputProperty{
		"descriptor": descriptorProperty("SNS"),
		"topic":      topic,
	}
}

// Dispatch publishes the alert with the rule name as subject.
func (o *SNSOutput) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load sns credentials",
			"descriptor", descriptor, "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	payload, err := alert.OutputJSON()
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode alert payload", "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	subject := "Security alert: " + alert.RuleName
	if pubErr := o.topics.Publish(ctx, creds["topic"], subject, payload); pubErr != nil {
		o.Logger().ErrorContext(ctx, "sns publish failed",
			"descriptor", descriptor,
			"topic", creds["topic"],
			"error", fmt.Errorf("%w: %w", ErrServiceUnavailable, pubErr))
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	o.LogOutcome(ctx, true, descriptor)
	return true
}

// SQSOutput enqueues each alert onto a queue.
type SQSOutput struct {
	outputs.Base
	queues core.QueuePublisher
}

// NewSQSFactory builds the aws-sqs factory around a queue publisher.
func NewSQSFactory(queues core.QueuePublisher) outputs.Factory {
	return func(opts outputs.Options) outputs.Dispatcher {
		opts.ServiceKey = SQSServiceKey
		opts.ExtraRetryable = extraRetryable()
		return &SQSOutput{Base: outputs.NewBase(opts), queues: queues}
	}
}

// UserDefinedProperties declares the configurable fields for aws-sqs.
func (o *SQSOutput) UserDefinedProperties() map[string]outputs.OutputProperty {
	queue := outputs.NewOutputProperty("the queue alerts are enqueued onto", "")
	queue.CredRequirement = true
	return map[string]outputs.OutputProperty{
		"descriptor": descriptorProperty("SQS"),
		"queue":      queue,
	}
}

// Dispatch enqueues the alert record.
func (o *SQSOutput) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load sqs credentials",
			"descriptor", descriptor, "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	// Queue consumers expect the raw record, not the full alert envelope.
	payload, err := json.Marshal(alert.Record)
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode alert record", "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	if enqErr := o.queues.Enqueue(ctx, creds["queue"], payload); enqErr != nil {
		o.Logger().ErrorContext(ctx, "sqs enqueue failed",
			"descriptor", descriptor,
			"queue", creds["queue"],
			"error", fmt.Errorf("%w: %w", ErrServiceUnavailable, enqErr))
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	o.LogOutcome(ctx, true, descriptor)
	return true
}

// FirehoseOutput appends each alert record onto a delivery stream.
type FirehoseOutput struct {
	outputs.Base
	streams core.StreamPublisher
}

// NewFirehoseFactory builds the aws-firehose factory around a stream publisher.
func NewFirehoseFactory(streams core.StreamPublisher) outputs.Factory {
	return func(opts outputs.Options) outputs.Dispatcher {
		opts.ServiceKey = FirehoseServiceKey
		opts.ExtraRetryable = extraRetryable()
		return &FirehoseOutput{Base: outputs.NewBase(opts), streams: streams}
	}
}

// UserDefinedProperties declares the configurable fields for aws-firehose.
func (o *FirehoseOutput) UserDefinedProperties() map[string]outputs.OutputProperty {
	stream := outputs.NewOutputProperty("the delivery stream alert records are appended to", "")
	stream.CredRequirement = true
	return map[string]outputs.OutputProperty{
		"descriptor": descriptorProperty("Firehose"),
		"stream":     stream,
	}
}

// Dispatch puts the alert record onto the configured delivery stream.
func (o *FirehoseOutput) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load firehose credentials",
			"descriptor", descriptor, "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	record, err := json.Marshal(alert.Record)
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode alert record", "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}
	// Stream consumers expect newline-delimited records.
	record = append(record, '\n')

	if putErr := o.streams.PutRecord(ctx, creds["stream"], record); putErr != nil {
		o.Logger().ErrorContext(ctx, "firehose put failed",
			"descriptor", descriptor,
			"stream", creds["stream"],
			"error", fmt.Errorf("%w: %w", ErrServiceUnavailable, putErr))
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	o.LogOutcome(ctx, true, descriptor)
	return true
}

// CloudWatchLogOutput writes each alert into a log group.
type CloudWatchLogOutput struct {
	outputs.Base
	logs core.LogEventWriter
}

// NewCloudWatchLogFactory builds the aws-cloudwatch-log factory around a log
// event writer.
func NewCloudWatchLogFactory(logs core.LogEventWriter) outputs.Factory {
	return func(opts outputs.Options) outputs.Dispatcher {
		opts.ServiceKey = CloudWatchLogServiceKey
		opts.ExtraRetryable = extraRetryable()
		return &CloudWatchLogOutput{Base: outputs.NewBase(opts), logs: logs}
	}
}

// UserDefinedProperties declares the configurable fields for aws-cloudwatch-log.
func (o *CloudWatchLogOutput) UserDefinedProperties() map[string]outputs.OutputProperty {
	group := outputs.NewOutputProperty("the log group alerts are written to", "")
	group.CredRequirement = true
	return map[string]outputs.OutputProperty{
		"descriptor": descriptorProperty("CloudWatch Logs"),
		"log_group":  group,
	}
}

// Dispatch writes the full alert envelope to the configured log group.
func (o *CloudWatchLogOutput) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load cloudwatch credentials",
			"descriptor", descriptor, "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	payload, err := alert.OutputJSON()
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode alert payload", "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	if writeErr := o.logs.WriteEvent(ctx, creds["log_group"], payload); writeErr != nil {
		o.Logger().ErrorContext(ctx, "cloudwatch write failed",
			"descriptor", descriptor,
			"log_group", creds["log_group"],
			"error", fmt.Errorf("%w: %w", ErrServiceUnavailable, writeErr))
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	o.LogOutcome(ctx, true, descriptor)
	return true
}

// LambdaOutput invokes a managed function with the alert payload.
type LambdaOutput struct {
	outputs.Base
	functions core.FunctionInvoker
}

// NewLambdaFactory builds the aws-lambda factory around a function invoker.
func NewLambdaFactory(functions core.FunctionInvoker) outputs.Factory {
	return func(opts outputs.Options) outputs.Dispatcher {
		opts.ServiceKey = LambdaServiceKey
		opts.ExtraRetryable = extraRetryable()
		return &LambdaOutput{Base: outputs.NewBase(opts), functions: functions}
	}
}

// UserDefinedProperties declares the configurable fields for aws-lambda.
func (o *LambdaOutput) UserDefinedProperties() map[string]outputs.OutputProperty {
	function := outputs.NewOutputProperty("the function alerts are delivered to", "")
	function.CredRequirement = true

	qualifier := outputs.NewOutputProperty("an optional function alias or version qualifier", "")
	qualifier.CredRequirement = true

	return map[string]outputs.OutputProperty{
		"descriptor": descriptorProperty("Lambda"),
		"function":   function,
		"qualifier":  qualifier,
	}
}

// Dispatch invokes the configured function with the alert payload.
func (o *LambdaOutput) Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool {
	if o.functions == nil {
		o.Logger().ErrorContext(ctx, "function invoker not configured", "descriptor", descriptor)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	creds, err := o.LoadCredentials(ctx, descriptor)
	if err != nil {
		o.Logger().ErrorContext(ctx, "unable to load lambda credentials",
			"descriptor", descriptor, "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	payload, err := alert.OutputJSON()
	if err != nil {
		o.Logger().ErrorContext(ctx, "encode alert payload", "error", err)
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	if invErr := o.functions.Invoke(ctx, creds["function"], creds["qualifier"], payload); invErr != nil {
		o.Logger().ErrorContext(ctx, "lambda invoke failed",
			"descriptor", descriptor,
			"function", creds["function"],
			"error", fmt.Errorf("%w: %w", ErrServiceUnavailable, invErr))
		o.LogOutcome(ctx, false, descriptor)
		return false
	}

	o.LogOutcome(ctx, true, descriptor)
	return true
}
