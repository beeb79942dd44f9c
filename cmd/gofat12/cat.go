package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newCatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <image> <name>",
		Short: "Print a file of an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fat, err := a.openImage(args[0])
			if err != nil {
				return err
			}
			f, err := fat.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			_, err = io.Copy(cmd.OutOrStdout(), f)
			return err
		},
	}
}
