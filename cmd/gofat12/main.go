// Command gofat12 builds 1.44 MB FAT12 floppy images from a directory and
// reads files back out of them.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aligator/gofat12"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	fs      afero.Fs
	logger  *zap.Logger
	verbose bool
	utc     bool
}

func (a *app) options(opts ...gofat12.Option) []gofat12.Option {
	loc := time.Local
	if a.utc {
		loc = time.UTC
	}
	return append([]gofat12.Option{
		gofat12.WithLogger(a.logger),
		gofat12.WithLocation(loc),
	}, opts...)
}

func (a *app) openImage(name string) (*gofat12.Fs, error) {
	f, err := a.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return gofat12.NewFromReader(f, a.options()...)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "gofat12",
		Short: "Build and read 1.44 MB FAT12 floppy images",
		Long: `gofat12 packs the regular files of a host directory into the root
directory of a 1.44 MB FAT12 floppy image and extracts them again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if a.logger != nil {
				return nil
			}
			logger, err := newLogger(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}
	registerFlags(root.PersistentFlags(), a)

	root.AddCommand(
		newBuildCmd(a),
		newExtractCmd(a),
		newLsCmd(a),
		newCatCmd(a),
	)
	return root
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs the command line args and flushes the logger afterwards,
// also when the command failed. Nil args means os.Args[1:].
func execute(a *app, args []string) error {
	root := newRootCmd(a)
	if args != nil {
		root.SetArgs(args)
	}
	err := root.Execute()
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

func main() {
	must(execute(&app{fs: afero.NewOsFs()}, nil))
}
