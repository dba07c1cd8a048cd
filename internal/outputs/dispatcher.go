package outputs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/alert-dispatch/internal/domain/model"
)

// Dispatcher is the contract every output variant implements. Dispatch sends
// one alert to one configured destination and returns true on confirmed
// delivery. Ordinary transport failures never escape Dispatch as panics or
// crashes; they are logged and classified through RetryableErrors.
type Dispatcher interface {
	// ServiceKey returns the stable identifier for this variant, unique
	// across all registered variants (e.g. "aws-s3", "slack").
	ServiceKey() string
	// UserDefinedProperties returns the configurable fields for this
	// variant. Every variant must include a "descriptor" property.
	UserDefinedProperties() map[string]OutputProperty
	// Dispatch sends the alert to the destination named by descriptor.
	Dispatch(ctx context.Context, alert *model.Alert, descriptor string) bool
}

// RetryClassifier exposes the retry-eligible failure kinds of a variant.
// Every variant built on Base implements it; callers consult it to decide
// whether a failed send is worth retrying.
type RetryClassifier interface {
	RetryableErrors() []error
}

// CredentialStore is the slice of the credential vault the contract needs.
type CredentialStore interface {
	Store(ctx context.Context, serviceKey, descriptor string, creds map[string]string) error
	Retrieve(ctx context.Context, serviceKey, descriptor string) (map[string]string, error)
}

// Options carries the deployment context injected into every dispatcher
// instance at construction time.
type Options struct {
	ServiceKey   string
	Region       string
	AccountID    string
	FunctionName string
	Config       model.OutputConfig
	Creds        CredentialStore
	Logger       *slog.Logger

	// ExtraRetryable extends the base retry-eligible error kinds for this
	// variant. Duplicates of the base kinds are dropped.
	ExtraRetryable []error
}

// SecretsBucket derives the credential bucket name from the deployment
// account identifier and region.
func SecretsBucket(accountID, region string) string {
	return fmt.Sprintf("%s.%s.alert-dispatch.secrets", accountID, region)
}

// Base supplies the default contract behavior shared by all variants:
// credential access, response validation, failure classification, and
// outcome logging. Variants embed it and provide UserDefinedProperties and
// Dispatch themselves. The service key is an explicit constructor parameter.
type Base struct {
	serviceKey    string
	Region        string
	AccountID     string
	FunctionName  string
	Config        model.OutputConfig
	SecretsBucket string

	creds  CredentialStore
	logger *slog.Logger
	extra  []error
}

// NewBase builds the shared dispatcher state from deployment context.
func NewBase(opts Options) Base {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Base{
		serviceKey:    opts.ServiceKey,
		Region:        opts.Region,
		AccountID:     opts.AccountID,
		FunctionName:  opts.FunctionName,
		Config:        opts.Config,
		SecretsBucket: SecretsBucket(opts.AccountID, opts.Region),
		creds:         opts.Creds,
		logger:        logger,
		extra:         opts.ExtraRetryable,
	}
}

// ServiceKey returns the variant's registered service key.
func (b *Base) ServiceKey() string {
	return b.serviceKey
}

// CredentialName returns the vault key for a destination of this variant.
func (b *Base) CredentialName(descriptor string) string {
	return b.serviceKey + "/" + descriptor
}

// LoadCredentials fetches and decrypts the credential bundle for descriptor.
func (b *Base) LoadCredentials(ctx context.Context, descriptor string) (map[string]string, error) {
	if b.creds == nil {
		return nil, fmt.Errorf("load credentials for %s: no credential store configured", b.CredentialName(descriptor))
	}
	return b.creds.Retrieve(ctx, b.serviceKey, descriptor)
}

// StoreCredentials encrypts and persists the credential bundle for descriptor.
func (b *Base) StoreCredentials(ctx context.Context, descriptor string, creds map[string]string) error {
	if b.creds == nil {
		return fmt.Errorf("store credentials for %s: no credential store configured", b.CredentialName(descriptor))
	}
	return b.creds.Store(ctx, b.serviceKey, descriptor, creds)
}

// ValidateResponse reports whether an HTTP status code confirms delivery.
// True only inside [200, 299].
func (b *Base) ValidateResponse(statusCode int) bool {
	return statusCode >= 200 && statusCode <= 299
}

// RetryableErrors returns the retry-eligible failure kinds for this variant:
// the base set plus any variant extension, each kind appearing once. Callers
// must treat the result as an unordered set.
func (b *Base) RetryableErrors() []error {
	kinds := baseRetryableErrors()
	for _, extra := range b.extra {
		dup := false
		for _, kind := range kinds {
			if kind == extra {
				dup = true
				break
			}
		}
		if !dup && extra != nil {
			kinds = append(kinds, extra)
		}
	}
	return kinds
}

// LogOutcome emits exactly one structured record for a send attempt. It
// never fails and never returns anything.
func (b *Base) LogOutcome(ctx context.Context, success bool, descriptor string) {
	if success {
		b.logger.InfoContext(ctx, "successfully sent alert",
			"service", b.serviceKey,
			"descriptor", descriptor)
		return
	}
	b.logger.ErrorContext(ctx, "failed to send alert",
		"service", b.serviceKey,
		"descriptor", descriptor)
}

// Logger exposes the instance logger to embedding variants.
func (b *Base) Logger() *slog.Logger {
	return b.logger
}
