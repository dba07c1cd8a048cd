// Package dispatch fans one alert out to its configured destinations.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/target/alert-dispatch/internal/core"
	"github.com/target/alert-dispatch/internal/domain/model"
	"github.com/target/alert-dispatch/internal/outputs"
)

// Target names one destination: a service key plus the descriptor configured
// for it.
type Target struct {
	ServiceKey string
	Descriptor string
}

func (t Target) String() string {
	return t.ServiceKey + ":" + t.Descriptor
}

// RouterOptions groups the router's collaborators and deployment context.
type RouterOptions struct {
	Registry    *outputs.Registry
	ConfigStore core.OutputConfigStore
	Creds       outputs.CredentialStore

	Region       string
	AccountID    string
	FunctionName string

	// Concurrency caps parallel sends; defaults to 4.
	Concurrency int
	Logger      *slog.Logger

	// RecordPath optionally narrows the alert record with a JMESPath
	// expression before any send. The expression must select an object.
	RecordPath string
	Evaluator  JMESPathEvaluator
}

// Result summarizes one fan-out.
type Result struct {
	Succeeded []Target
	Failed    []Target
	Skipped   []Target
}

// Router resolves dispatchers from the registry and sends one alert to many
// destinations concurrently. Destinations share no mutable state, so the
// fan-out is safe to parallelize; an unknown service key is logged and
// skipped so it never aborts delivery to the valid destinations.
type Router struct {
	registry    *outputs.Registry
	configStore core.OutputConfigStore
	creds       outputs.CredentialStore

	region       string
	accountID    string
	functionName string

	concurrency int
	logger      *slog.Logger

	recordPath string
	evaluator  JMESPathEvaluator
}

// NewRouter validates options and builds a router.
func NewRouter(opts RouterOptions) (*Router, error) {
	if opts.Registry == nil {
		return nil, errors.New("dispatch router: registry is required")
	}
	if opts.ConfigStore == nil {
		return nil, errors.New("dispatch router: output config store is required")
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	evaluator := opts.Evaluator
	if evaluator == nil {
		evaluator = LibEvaluator{}
	}
	if opts.RecordPath != "" {
		if err := evaluator.Validate(opts.RecordPath); err != nil {
			return nil, fmt.Errorf("dispatch router: invalid record path: %w", err)
		}
	}

	return &Router{
		registry:     opts.Registry,
		configStore:  opts.ConfigStore,
		creds:        opts.Creds,
		region:       opts.Region,
		accountID:    opts.AccountID,
		functionName: opts.FunctionName,
		concurrency:  concurrency,
		logger:       logger,
		recordPath:   opts.RecordPath,
		evaluator:    evaluator,
	}, nil
}

// DispatchAll sends the alert to every destination in the persisted output
// configuration.
func (r *Router) DispatchAll(ctx context.Context, alert *model.Alert) (*Result, error) {
	cfg, err := r.configStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("dispatch: load output configuration: %w", err)
	}

	var targets []Target
	for _, serviceKey := range cfg.Services() {
		for _, descriptor := range cfg.Descriptors(serviceKey) {
			targets = append(targets, Target{ServiceKey: serviceKey, Descriptor: descriptor})
		}
	}
	return r.dispatch(ctx, alert, targets, cfg)
}

// Dispatch sends the alert to the given targets concurrently. It returns an
// error only for setup problems (invalid alert, config load failure); send
// failures are reported in the Result and logged per destination.
func (r *Router) Dispatch(ctx context.Context, alert *model.Alert, targets []Target) (*Result, error) {
	cfg, err := r.configStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("dispatch: load output configuration: %w", err)
	}
	return r.dispatch(ctx, alert, targets, cfg)
}

// dispatch fans the alert out with an already-loaded configuration. The
// configuration is read exactly once per fan-out, whichever entrypoint
// started it.
func (r *Router) dispatch(ctx context.Context, alert *model.Alert, targets []Target, cfg model.OutputConfig) (*Result, error) {
	if err := alert.Validate(); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}

	prepared, err := r.prepareAlert(alert)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		result Result
	)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	for _, target := range targets {
		dispatcher := r.registry.Create(target.ServiceKey, outputs.Options{
			Region:       r.region,
			AccountID:    r.accountID,
			FunctionName: r.functionName,
			Config:       cfg,
			Creds:        r.creds,
			Logger:       r.logger,
		})
		if dispatcher == nil {
			// Registry.Create already logged the unknown key.
			mu.Lock()
			result.Skipped = append(result.Skipped, target)
			mu.Unlock()
			continue
		}

		group.Go(func() error {
			ok := dispatcher.Dispatch(gctx, prepared, target.Descriptor)
			mu.Lock()
			if ok {
				result.Succeeded = append(result.Succeeded, target)
			} else {
				result.Failed = append(result.Failed, target)
			}
			mu.Unlock()
			return nil
		})
	}

	if waitErr := group.Wait(); waitErr != nil {
		return &result, waitErr
	}

	r.logger.InfoContext(ctx, "alert fan-out complete",
		"alert_id", alert.ID,
		"targets", len(targets),
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed),
		"skipped", len(result.Skipped))
	return &result, nil
}

// prepareAlert applies the optional record path, returning a copy so the
// caller's alert is never mutated.
func (r *Router) prepareAlert(alert *model.Alert) (*model.Alert, error) {
	if r.recordPath == "" {
		return alert, nil
	}

	selected, err := r.evaluator.Evaluate(r.recordPath, alert.Record)
	if err != nil {
		return nil, fmt.Errorf("dispatch: evaluate record path: %w", err)
	}
	record, ok := selected.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("dispatch: record path %q did not select an object", r.recordPath)
	}

	narrowed := *alert
	narrowed.Record = record
	return &narrowed, nil
}
