package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aligator/gofat12"
	"github.com/aligator/gofat12/internal/humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <image>",
		Short: "List the files in the root directory of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fat, err := a.openImage(args[0])
			if err != nil {
				return err
			}
			infos, err := afero.ReadDir(fat, "/")
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			for _, info := range infos {
				var cluster int
				if h, ok := info.Sys().(gofat12.EntryHeader); ok {
					cluster = h.StartCluster()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
					info.Name(),
					humanize.Bytes(uint64(info.Size())),
					info.ModTime().Format("2006-01-02 15:04:05"),
					cluster)
			}
			return w.Flush()
		},
	}
}
