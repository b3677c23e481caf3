package cmd

import (
	"github.com/spf13/cobra"

	"pantherexchange/internal/models"
)

type categoryRow struct {
	Name       models.Category `json:"name"`
	FilterOnly bool            `json:"filter_only"`
}

func newCategoriesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the listing categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.format()
			if err != nil {
				return err
			}

			categories := []categoryRow{{Name: models.CategoryAll, FilterOnly: true}}
			for _, c := range models.Categories {
				categories = append(categories, categoryRow{Name: c})
			}

			if format != FormatTable {
				return writeStructured(cmd.OutOrStdout(), format, categories)
			}
			rows := make([][]string, 0, len(categories))
			for _, c := range categories {
				usage := "filter and create"
				if c.FilterOnly {
					usage = "filter only"
				}
				rows = append(rows, []string{string(c.Name), usage})
			}
			return renderTable(cmd.OutOrStdout(), []string{"Category", "Usage"}, rows)
		},
	}
}
