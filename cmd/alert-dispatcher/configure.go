package main

import (
	"errors"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/target/alert-dispatch/internal/outputs"
)

// propFlags collects repeatable -prop name=value pairs.
type propFlags map[string]string

func (p propFlags) String() string {
	pairs := make([]string, 0, len(p))
	for name, value := range p {
		pairs = append(pairs, name+"="+value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (p propFlags) Set(raw string) error {
	name, value, ok := strings.Cut(raw, "=")
	if !ok || name == "" {
		return fmt.Errorf("property %q must be name=value", raw)
	}
	p[name] = value
	return nil
}

// runConfigure registers a new destination for one output service: it merges
// the descriptor into the persisted output configuration and stores the
// credential-flagged properties in the vault.
func runConfigure(cctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("configure", flag.ContinueOnError)
	descriptor := fs.String("descriptor", "", "unique descriptor for the new destination")
	props := propFlags{}
	fs.Var(props, "prop", "property value as name=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("configure: exactly one service key is required, got %d", fs.NArg())
	}
	serviceKey := fs.Arg(0)

	cfg, err := cctx.Stack.ConfigStore.Load(cctx.Ctx)
	if err != nil {
		return fmt.Errorf("load output configuration: %w", err)
	}

	dispatcher := cctx.Stack.Registry.Create(serviceKey, outputs.Options{
		Region:       cctx.Config.Region,
		AccountID:    cctx.Config.AccountID,
		FunctionName: cctx.Config.FunctionName,
		Config:       cfg,
		Creds:        cctx.Stack.Vault,
		Logger:       cctx.Logger,
	})
	if dispatcher == nil {
		return fmt.Errorf("configure: unknown output service %q", serviceKey)
	}

	defined := dispatcher.UserDefinedProperties()
	for name := range props {
		if _, known := defined[name]; !known {
			return fmt.Errorf("configure %s: unknown property %q", serviceKey, name)
		}
	}

	// Flag values override property defaults; unset properties keep theirs.
	filled := make(map[string]outputs.OutputProperty, len(defined))
	for name, prop := range defined {
		if value, set := props[name]; set {
			prop.Value = value
		}
		if name == "descriptor" && *descriptor != "" {
			prop.Value = *descriptor
		}
		filled[name] = prop
	}

	descriptors, err := outputs.FormatOutputConfig(cfg, serviceKey, filled)
	if err != nil {
		return err
	}

	// Persist the descriptor sequence before the credential bundle so a
	// failed persist never strands an orphaned blob in the vault.
	if err = cctx.Stack.ConfigStore.ReplaceService(cctx.Ctx, serviceKey, descriptors); err != nil {
		return fmt.Errorf("persist output configuration: %w", err)
	}

	newDescriptor := filled["descriptor"].Value
	if err = cctx.Stack.Vault.Store(cctx.Ctx, serviceKey, newDescriptor, outputs.CredBundle(filled)); err != nil {
		// Restore the previous descriptor sequence so the configuration
		// never references a destination without credentials.
		if rbErr := cctx.Stack.ConfigStore.ReplaceService(cctx.Ctx, serviceKey, cfg.Descriptors(serviceKey)); rbErr != nil {
			return errors.Join(err, fmt.Errorf("roll back output configuration: %w", rbErr))
		}
		return err
	}

	cctx.Logger.InfoContext(cctx.Ctx, "destination configured",
		"service", serviceKey,
		"descriptor", newDescriptor)
	return nil
}
