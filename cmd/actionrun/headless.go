package main

import (
	"context"
	"fmt"
	"io"

	"github.com/unkn0wn-root/actionrun/internal/jsonutil"
	"github.com/unkn0wn-root/actionrun/internal/panel"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type headlessRequest struct {
	Action  string
	Headers string
	Params  string
}

// runHeadless drives one invocation through the controller and prints the
// response on stdout, or the error on stderr.
func runHeadless(
	ctx context.Context,
	ctrl *panel.Controller,
	req headlessRequest,
	stdout, stderr io.Writer,
) int {
	if !ctrl.HasActions() {
		fmt.Fprintln(stderr, "You have no actions !")
		return exitFailed
	}
	if err := ctrl.SelectAction(req.Action); err != nil {
		fmt.Fprintf(stderr, "select %q: %v\n", req.Action, err)
		return exitUsage
	}
	for _, f := range []struct {
		id  panel.FieldID
		raw string
	}{
		{panel.FieldHeaders, req.Headers},
		{panel.FieldParams, req.Params},
	} {
		if field := ctrl.SetField(f.id, f.raw); field.Validity == panel.ValidityInvalid {
			fmt.Fprintf(stderr, "%s: not a JSON object\n", f.id)
			return exitUsage
		}
	}

	if err := ctrl.Invoke(ctx); err != nil {
		fmt.Fprintf(stderr, "invoke %s: %v\n", req.Action, err)
		return exitFailed
	}

	st := ctrl.State()
	switch st.Outcome() {
	case panel.OutcomeSucceeded:
		if out := jsonutil.Pretty(st.Response); out != "" {
			fmt.Fprintln(stdout, out)
		}
		return exitOK
	default:
		fmt.Fprintln(stderr, st.Err)
		return exitFailed
	}
}
