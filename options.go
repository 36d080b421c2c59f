package linearhashmap

import "log/slog"

// Options carries the knobs Open/OpenNew accept beyond the two channels
// themselves. A nil *Options is equivalent to the zero value: no
// load-factor hint, discard logging.
type Options struct {
	// LoadFactorThreshold feeds internal/growth.Tracker.ShouldSplit. It has
	// no effect unless the caller also calls Split - see growth.Tracker. A
	// value of 0 disables the hint entirely.
	LoadFactorThreshold float64

	// Logger receives the map's diagnostic output. A nil Logger discards it.
	Logger *slog.Logger
}

func (o *Options) loadFactorThreshold() float64 {
	if o == nil {
		return 0
	}
	return o.LoadFactorThreshold
}

func (o *Options) logger() *slog.Logger {
	if o == nil {
		return nil
	}
	return o.Logger
}
