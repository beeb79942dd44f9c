package main

import (
	"fmt"

	"github.com/aligator/gofat12"
	"github.com/aligator/gofat12/internal/humanize"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newBuildCmd(a *app) *cobra.Command {
	var output string
	layout := gofat12.TightPack

	cmd := &cobra.Command{
		Use:   "build <dir>",
		Short: "Build a floppy image from the regular files of a directory",
		Long: `build copies every regular file directly inside <dir> into the root
directory of a new image. Subdirectories are ignored. Files that no longer
fit are skipped with a warning.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := gofat12.NewBuilder(a.fs, a.options(gofat12.WithLayout(layout))...).Build(args[0])
			if err != nil {
				return err
			}
			if err := a.writeImage(img, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", output,
				humanize.Sectors(uint64(img.NumSectors()), gofat12.SectorSize))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "image file to write")
	cmd.Flags().Var(&layout, "layout", "size of the data region: tight or fixed")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) writeImage(img *gofat12.Image, name string) (err error) {
	f, err := a.fs.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	_, err = img.WriteTo(f)
	return err
}
