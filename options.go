package gofat12

import (
	"time"

	"go.uber.org/zap"
)

type options struct {
	layout   Layout
	logger   *zap.Logger
	location *time.Location
}

// Option configures a Builder or an Extractor.
type Option func(*options)

// WithLayout selects how the data region of a built image is sized.
// The default is TightPack.
func WithLayout(l Layout) Option {
	return func(o *options) {
		o.layout = l
	}
}

// WithLogger sets the logger used to report skipped files and per-file
// failures. By default nothing is logged.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLocation sets the time zone DOS timestamps are written and read in.
// The default is time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		layout:   TightPack,
		logger:   zap.NewNop(),
		location: time.Local,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
