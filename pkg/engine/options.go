package engine

import (
	"io"
	"runtime"

	"github.com/charmbracelet/log"

	bterrors "github.com/matzehuels/branchtime/pkg/errors"
	"github.com/matzehuels/branchtime/pkg/observability"
)

// Options configures an Engine. The zero value is ready to use.
type Options struct {
	// Workers bounds the goroutines used per tree level.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int

	// Logger receives pass timings at debug level and one line per run at
	// info level. Nil means discard.
	Logger *log.Logger

	// Hooks receives run and pass events. Nil means the hooks registered
	// with observability.SetEngineHooks at the time of the run.
	Hooks observability.EngineHooks

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks o and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Workers < 0 {
		return bterrors.New(bterrors.ErrCodeInvalidParameter, "workers must not be negative, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (o *Options) hooks() observability.EngineHooks {
	if o.Hooks != nil {
		return o.Hooks
	}
	return observability.Engine()
}
