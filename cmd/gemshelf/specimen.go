// Specimen commands: listing, full projections, and core-field CRUD.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/webfeathers/gemshelf/pkg/types"
)

var specimenCmd = &cobra.Command{
	Use:   "specimen",
	Short: "Manage specimens",
}

var (
	specimenPage      int
	specimenAll       bool
	specimenDesc      string
	specimenPublished bool
	specimenSort      int
	specimenSet       []string
)

var specimenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List specimens",
	Long: `List shows one page of specimens ordered by sort order, then name.

Example:
  gemshelf specimen list
  gemshelf specimen list --all --page 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := store.Specimens().Paginate(specimenPage, store.Config().PerPage, !specimenAll)
		if err != nil {
			return fmt.Errorf("list specimens: %w", err)
		}
		return printPage(page, specimenPage)
	},
}

var specimenShowCmd = &cobra.Command{
	Use:   "show <id|slug>",
	Short: "Show a specimen with its field values and photos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := findSpecimenArg(args[0])
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(s)
		}
		printSpecimen(s)
		return nil
	},
}

var specimenCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a specimen",
	Long: `Create adds a specimen. The URL slug is derived from the name.

Field values may be set in the same call:
  gemshelf specimen create "Smoky Quartz" --set mohs_hardness=7 --set color=gray,brown`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := store.Specimens().Create(types.Specimen{
			Name:        args[0],
			Description: specimenDesc,
			Published:   specimenPublished,
			SortOrder:   specimenSort,
		})
		if err != nil {
			return fmt.Errorf("create specimen: %w", err)
		}

		if len(specimenSet) > 0 {
			values, err := parseAssignments(specimenSet)
			if err != nil {
				return err
			}
			if err := store.Specimens().SaveFieldValues(id, values); err != nil {
				return fmt.Errorf("save field values: %w", err)
			}
		}

		s, err := store.Specimens().FindByID(id)
		if err != nil {
			return err
		}
		fmt.Printf("Created specimen %d (%s)\n", id, s.Slug)
		return nil
	},
}

var specimenUpdateCmd = &cobra.Command{
	Use:   "update <id> <name>",
	Short: "Update a specimen's core fields",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		err = store.Specimens().Update(id, types.Specimen{
			Name:        args[1],
			Description: specimenDesc,
			Published:   specimenPublished,
			SortOrder:   specimenSort,
		})
		if err != nil {
			return fmt.Errorf("update specimen %d: %w", id, err)
		}

		if len(specimenSet) > 0 {
			values, err := parseAssignments(specimenSet)
			if err != nil {
				return err
			}
			if err := store.Specimens().SaveFieldValues(id, values); err != nil {
				return fmt.Errorf("save field values: %w", err)
			}
		}

		fmt.Printf("Updated specimen %d\n", id)
		return nil
	},
}

var specimenSetCmd = &cobra.Command{
	Use:   "set <id> <field=value>...",
	Short: "Set attribute values on a specimen",
	Long: `Set upserts one value per field. Fields are referenced by machine
name or numeric ID. Multi-select values are comma-separated.

Example:
  gemshelf specimen set 3 locality="Brazil" color=purple,violet`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		values, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}
		if err := store.Specimens().SaveFieldValues(id, values); err != nil {
			return fmt.Errorf("save field values: %w", err)
		}
		fmt.Printf("Saved %d value(s) on specimen %d\n", len(values), id)
		return nil
	},
}

var specimenDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a specimen, its values, and its photos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := store.Specimens().Delete(id); err != nil {
			return fmt.Errorf("delete specimen %d: %w", id, err)
		}
		fmt.Printf("Deleted specimen %d\n", id)
		return nil
	},
}

func init() {
	specimenListCmd.Flags().IntVar(&specimenPage, "page", 1, "page number")
	specimenListCmd.Flags().BoolVar(&specimenAll, "all", false, "include unpublished specimens")

	for _, c := range []*cobra.Command{specimenCreateCmd, specimenUpdateCmd} {
		c.Flags().StringVar(&specimenDesc, "description", "", "specimen description")
		c.Flags().BoolVar(&specimenPublished, "published", false, "publish the specimen")
		c.Flags().IntVar(&specimenSort, "sort", 0, "sort order")
		c.Flags().StringArrayVar(&specimenSet, "set", nil, "field=value assignment (repeatable)")
	}

	specimenCmd.AddCommand(specimenListCmd)
	specimenCmd.AddCommand(specimenShowCmd)
	specimenCmd.AddCommand(specimenCreateCmd)
	specimenCmd.AddCommand(specimenUpdateCmd)
	specimenCmd.AddCommand(specimenSetCmd)
	specimenCmd.AddCommand(specimenDeleteCmd)
}

// findSpecimenArg resolves an ID or slug argument to a full projection.
func findSpecimenArg(arg string) (*types.Specimen, error) {
	if id, err := parseID(arg); err == nil {
		return store.Specimens().FindByID(id)
	}
	return store.Specimens().FindBySlug(arg, false)
}

// printSpecimen prints a full specimen projection.
func printSpecimen(s *types.Specimen) {
	fmt.Printf("%s (#%d, /%s)\n", s.Name, s.ID, s.Slug)
	fmt.Printf("Published: %s  Sort: %d  Updated: %s\n",
		yesNo(s.Published), s.SortOrder, s.UpdatedAt.Format("2006-01-02"))
	if s.Description != "" {
		fmt.Println(s.Description)
	}

	if len(s.Fields) > 0 {
		fmt.Println("\nFields:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, fv := range s.Fields {
			value := fv.Value
			if fv.Field.Type == types.FieldTypeMultiSelect && fv.Set {
				value = strings.Join(fv.MultiValues(), ", ")
			}
			if !fv.Set {
				value = "-"
			}
			fmt.Fprintf(w, "  %s\t%s\n", fv.Field.Label, value)
		}
		w.Flush()
	}

	if len(s.Photos) > 0 {
		fmt.Printf("\nPhotos (%d):\n", len(s.Photos))
		for _, p := range s.Photos {
			marker := " "
			if p.Primary {
				marker = "*"
			}
			fmt.Printf("  %s %d %s (%dx%d) %s\n",
				marker, p.ID, p.Filename, p.Width, p.Height, p.Caption)
		}
	}
}
