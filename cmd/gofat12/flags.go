package main

import (
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// registerFlags adds the flags shared by all subcommands.
func registerFlags(fs *pflag.FlagSet, a *app) {
	fs.BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages")
	fs.BoolVar(&a.utc, "utc", false, "read and write DOS timestamps in UTC instead of local time")
}

func newLogger(verbose bool) (*zap.Logger, error) {
	lc := zap.NewDevelopmentConfig()
	lc.EncoderConfig.TimeKey = ""
	if !verbose {
		lc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return lc.Build()
}
