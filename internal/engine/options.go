package engine

import "log"

// Options configures an Engine. It replaces the C original's
// process-global `struct options` (REDESIGN FLAG, spec.md §9): a value
// constructed once at startup and threaded explicitly into the engine,
// rather than read from package-level mutable state.
type Options struct {
	// DoubleAllocateDirs preserves the current on-disk behavior of
	// allocating two consecutive blocks per directory even though one
	// block holds a full entry array (spec.md §3.3, §9 Open
	// Questions). Defaults to true to match existing images; set to
	// false to allocate the single block the layout actually needs.
	DoubleAllocateDirs bool

	// Logger receives one line per operation when non-nil, mirroring
	// the C original's verbose `log()` macro. A nil Logger disables
	// logging entirely (the zero value of Options is silent).
	Logger *log.Logger
}

// Option mutates an Options value during construction, following the
// functional-options pattern the teacher library uses for both
// Superblock (Option) and Writer (WriterOption).
type Option func(*Options)

// WithVerbose attaches a logger that receives one line per operation.
func WithVerbose(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithSingleBlockDirs disables the two-block directory allocation quirk:
// every directory this Engine's Mkdir creates gets a single block.
// Directories already on the image keep the blocks they were created
// with.
func WithSingleBlockDirs() Option {
	return func(o *Options) { o.DoubleAllocateDirs = false }
}

func defaultOptions() Options {
	return Options{DoubleAllocateDirs: true}
}

func (o Options) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}
