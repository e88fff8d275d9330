// Package logctx provides the shared go-kit logger construction used by
// propulsion and cmd/byulsim for warning/event logging, grounded on
// estimate.go's kitlog.Logger field and NewLogfmtLogger usage.
package logctx

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// New returns a logfmt logger writing to stdout, tagged with the given
// component name.
func New(component string) kitlog.Logger {
	l := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	return kitlog.With(l, "component", component)
}

// NoOp returns a logger that discards everything, used as the nil-safe
// default when a caller never wires one in.
func NoOp() kitlog.Logger {
	return kitlog.NewNopLogger()
}

// OrNoOp returns l unchanged if non-nil, otherwise NoOp(). Every package
// that accepts an optional kitlog.Logger should route it through this so
// a nil logger never needs a guard at every call site.
func OrNoOp(l kitlog.Logger) kitlog.Logger {
	if l == nil {
		return NoOp()
	}
	return l
}
