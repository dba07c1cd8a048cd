package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/target/alert-dispatch/internal/dispatch"
	"github.com/target/alert-dispatch/internal/domain/model"
)

// runSend reads an alert from a JSON file (or stdin) and fans it out. With no
// -target flags the alert goes to every configured destination.
func runSend(cctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	file := fs.String("file", "-", "alert JSON file, or - for stdin")
	var targets targetFlags
	fs.Var(&targets, "target", "destination as service:descriptor (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	alert, err := readAlert(*file)
	if err != nil {
		return err
	}

	var result *dispatch.Result
	if len(targets) == 0 {
		result, err = cctx.Stack.Router.DispatchAll(cctx.Ctx, alert)
	} else {
		result, err = cctx.Stack.Router.Dispatch(cctx.Ctx, alert, targets)
	}
	if err != nil {
		return err
	}

	if len(result.Failed) > 0 {
		return fmt.Errorf("send: %d of %d destinations failed",
			len(result.Failed), len(result.Succeeded)+len(result.Failed)+len(result.Skipped))
	}
	return nil
}

func readAlert(path string) (*model.Alert, error) {
	var (
		body []byte
		err  error
	)
	if path == "-" {
		body, err = io.ReadAll(os.Stdin)
	} else {
		body, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read alert: %w", err)
	}

	var alert model.Alert
	if err = json.Unmarshal(body, &alert); err != nil {
		return nil, fmt.Errorf("decode alert: %w", err)
	}
	if err = alert.Validate(); err != nil {
		return nil, err
	}
	return &alert, nil
}

// targetFlags collects repeatable -target service:descriptor pairs.
type targetFlags []dispatch.Target

func (t *targetFlags) String() string {
	parts := make([]string, 0, len(*t))
	for _, target := range *t {
		parts = append(parts, target.String())
	}
	return strings.Join(parts, ",")
}

func (t *targetFlags) Set(raw string) error {
	service, descriptor, ok := strings.Cut(raw, ":")
	if !ok || service == "" || descriptor == "" {
		return fmt.Errorf("target %q must be service:descriptor", raw)
	}
	*t = append(*t, dispatch.Target{ServiceKey: service, Descriptor: descriptor})
	return nil
}
