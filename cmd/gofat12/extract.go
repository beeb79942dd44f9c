package main

import (
	"github.com/aligator/gofat12"
	"github.com/spf13/cobra"
)

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <image> <outdir>",
		Short: "Write the files of an image into a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			fat, err := a.openImage(args[0])
			if err != nil {
				return err
			}
			return gofat12.NewExtractor(a.fs, a.options()...).Extract(fat.Image(), args[1])
		},
	}
}
