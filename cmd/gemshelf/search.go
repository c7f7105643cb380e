// Search and faceted filtering over published specimens.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchPage int
	filterPage int
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search published specimens",
	Long: `Search matches the term against specimen names, descriptions, and
attribute values. Only published specimens are returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := store.Specimens().Search(args[0], searchPage, store.Config().PerPage)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		return printPage(page, searchPage)
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter <field=value[,value...]>...",
	Short: "Filter published specimens by attribute values",
	Long: `Filter combines attribute conditions: a specimen must match every
given field, and within one field any listed value counts as a match.

Example:
  gemshelf filter mohs_hardness=7 color=purple,violet`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := parseFilterArgs(args)
		if err != nil {
			return err
		}
		page, err := store.Specimens().Filter(filters, filterPage, store.Config().PerPage)
		if err != nil {
			return fmt.Errorf("filter: %w", err)
		}
		return printPage(page, filterPage)
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "page number")
	filterCmd.Flags().IntVar(&filterPage, "page", 1, "page number")
}
