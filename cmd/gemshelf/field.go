// Field catalog commands: the user-definable attribute schema.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/webfeathers/gemshelf/pkg/types"
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Manage the attribute schema",
}

var (
	fieldAll        bool
	fieldName       string
	fieldType       string
	fieldOptions    string
	fieldRequired   bool
	fieldFilterable bool
	fieldPublic     bool
	fieldSort       int
)

var fieldListCmd = &cobra.Command{
	Use:   "list",
	Short: "List field definitions in catalog order",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			fields []types.Field
			err    error
		)
		if fieldAll {
			fields, err = store.Fields().ListAll()
		} else {
			fields, err = store.Fields().ListActive()
		}
		if err != nil {
			return fmt.Errorf("list fields: %w", err)
		}
		return printFields(fields)
	},
}

var fieldCreateCmd = &cobra.Command{
	Use:   "create <label>",
	Short: "Create a field definition",
	Long: `Create adds a field to the attribute schema. The machine name is
derived from the label unless --name is given.

Types: text, textarea, number, select, multi_select, date, url, color.

Example:
  gemshelf field create "Mohs Hardness" --type number --filterable
  gemshelf field create "Color" --type multi_select --options red,blue,green`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := store.Fields().Create(types.Field{
			Name:          fieldName,
			Label:         args[0],
			Type:          fieldType,
			Options:       splitValues(fieldOptions),
			Required:      fieldRequired,
			Filterable:    fieldFilterable,
			PublicVisible: fieldPublic,
			SortOrder:     fieldSort,
		})
		if err != nil {
			return fmt.Errorf("create field: %w", err)
		}
		f, err := store.Fields().Find(id)
		if err != nil {
			return err
		}
		fmt.Printf("Created field %d (%s)\n", id, f.Name)
		return nil
	},
}

var fieldUpdateCmd = &cobra.Command{
	Use:   "update <id> <label>",
	Short: "Update a field definition",
	Long: `Update overwrites a field's label, type, options, flags, and sort
order. The machine name and active state are left untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		err = store.Fields().Update(id, types.Field{
			Label:         args[1],
			Type:          fieldType,
			Options:       splitValues(fieldOptions),
			Required:      fieldRequired,
			Filterable:    fieldFilterable,
			PublicVisible: fieldPublic,
			SortOrder:     fieldSort,
		})
		if err != nil {
			return fmt.Errorf("update field %d: %w", id, err)
		}
		fmt.Printf("Updated field %d\n", id)
		return nil
	},
}

var fieldToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Deactivate or reactivate a field",
	Long: `Toggle flips a field's active state. Deactivation is a soft
delete: stored specimen values are preserved and return when the field is
reactivated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		f, err := store.Fields().Find(id)
		if err != nil {
			return err
		}
		if f.Active {
			err = store.Fields().Deactivate(id)
		} else {
			err = store.Fields().Activate(id)
		}
		if err != nil {
			return fmt.Errorf("toggle field %d: %w", id, err)
		}
		fmt.Printf("Field %d active: %s\n", id, yesNo(!f.Active))
		return nil
	},
}

var fieldReorderCmd = &cobra.Command{
	Use:   "reorder <id>...",
	Short: "Replace the catalog display order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		if err := store.Fields().Reorder(ids); err != nil {
			return fmt.Errorf("reorder fields: %w", err)
		}
		fmt.Printf("Reordered %d field(s)\n", len(ids))
		return nil
	},
}

var fieldValuesCmd = &cobra.Command{
	Use:   "values <id|name>",
	Short: "List distinct values in use across published specimens",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := lookupField(args[0])
		if err != nil {
			return err
		}
		values, err := store.Fields().DistinctValues(f.ID)
		if err != nil {
			return fmt.Errorf("distinct values: %w", err)
		}
		if flagJSON {
			return printJSON(values)
		}
		if len(values) == 0 {
			fmt.Println("No values in use.")
			return nil
		}
		fmt.Println(strings.Join(values, "\n"))
		return nil
	},
}

func init() {
	fieldListCmd.Flags().BoolVar(&fieldAll, "all", false, "include deactivated fields")

	for _, c := range []*cobra.Command{fieldCreateCmd, fieldUpdateCmd} {
		c.Flags().StringVar(&fieldType, "type", types.FieldTypeText, "field type")
		c.Flags().StringVar(&fieldOptions, "options", "", "comma-separated options (select types)")
		c.Flags().BoolVar(&fieldRequired, "required", false, "value is required on forms")
		c.Flags().BoolVar(&fieldFilterable, "filterable", false, "offer as a faceted filter")
		c.Flags().BoolVar(&fieldPublic, "public", true, "show on public detail views")
		c.Flags().IntVar(&fieldSort, "sort", 0, "sort order (0 = append)")
	}
	fieldCreateCmd.Flags().StringVar(&fieldName, "name", "", "machine name (derived from label if empty)")

	fieldCmd.AddCommand(fieldListCmd)
	fieldCmd.AddCommand(fieldCreateCmd)
	fieldCmd.AddCommand(fieldUpdateCmd)
	fieldCmd.AddCommand(fieldToggleCmd)
	fieldCmd.AddCommand(fieldReorderCmd)
	fieldCmd.AddCommand(fieldValuesCmd)
}
