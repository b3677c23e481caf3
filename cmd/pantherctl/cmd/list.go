package cmd

import (
	"github.com/spf13/cobra"

	"pantherexchange/internal/models"
)

func newListCommand(opts *options) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List listings, optionally within one category",
		Example: `  pantherctl list
  pantherctl list --category Books -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.format()
			if err != nil {
				return err
			}
			client, err := opts.client()
			if err != nil {
				return usageError("%v", err)
			}

			listings, err := client.List(cmd.Context(), models.Category(category))
			if err != nil {
				return err
			}
			return writeListings(cmd.OutOrStdout(), format, listings)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category filter ("+models.CategoryNames()+" or All)")
	return cmd
}
