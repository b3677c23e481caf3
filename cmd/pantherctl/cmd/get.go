package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newGetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a single listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id < 1 {
				return usageError("invalid listing id %q", args[0])
			}
			format, err := opts.format()
			if err != nil {
				return err
			}
			client, err := opts.client()
			if err != nil {
				return usageError("%v", err)
			}

			listing, err := client.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeListing(cmd.OutOrStdout(), format, listing)
		},
	}
}
