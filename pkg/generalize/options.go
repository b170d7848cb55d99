package generalize

import (
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultCacheSize is the number of head-symbol sets whose common
// proximates are memoised when Options.CacheSize is not set.
const DefaultCacheSize = 4096

// Options configures a Solver.
type Options struct {
	// TNorm aggregates proximity degrees. Nil selects Minimum.
	TNorm TNorm

	// Merge enables the MERGE post-processing step.
	Merge bool

	// Witness enables witness computation for every solution.
	Witness bool

	// MaxBranches caps the number of configurations a solve may create.
	// Zero means no cap.
	MaxBranches int

	// CacheSize bounds the common-proximates memo.
	CacheSize int

	// Logger receives progress output. Nil discards it.
	Logger logrus.FieldLogger

	// Monitor collects search statistics when set.
	Monitor *Monitor
}

// DefaultOptions returns the defaults: minimum t-norm, merging and
// witnesses enabled, no branch cap.
func DefaultOptions() *Options {
	return &Options{
		TNorm:     Minimum,
		Merge:     true,
		Witness:   true,
		CacheSize: DefaultCacheSize,
	}
}

func (o *Options) withDefaults() *Options {
	out := *o
	if out.TNorm == nil {
		out.TNorm = Minimum
	}
	if out.CacheSize <= 0 {
		out.CacheSize = DefaultCacheSize
	}
	if out.Logger == nil {
		out.Logger = discardLogger()
	}
	return &out
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
