// Shared helpers for gemshelf CLI commands: argument parsing, field
// resolution, and table output.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/webfeathers/gemshelf/pkg/types"
)

// parseID parses a numeric entity ID argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, arg)
	}
	return id, nil
}

// parseIDs parses a sequence of numeric ID arguments.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, len(args))
	for i, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// lookupField resolves a field reference that is either a numeric ID or a
// machine name.
func lookupField(ref string) (types.Field, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return store.Fields().Find(id)
	}
	return store.Fields().FindByName(ref)
}

// parseAssignments turns field=value arguments into the value map consumed
// by SaveFieldValues. Multi-select values are given comma-separated and are
// serialized here; the repository stores them as opaque text.
func parseAssignments(args []string) (map[int64]string, error) {
	values := make(map[int64]string, len(args))
	for _, arg := range args {
		ref, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		field, err := lookupField(ref)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", ref, err)
		}
		if field.Type == types.FieldTypeMultiSelect {
			value = types.EncodeMultiValue(splitValues(value))
		}
		values[field.ID] = value
	}
	return values, nil
}

// parseFilterArgs turns field=value[,value...] arguments into the filter
// map consumed by Specimens.Filter.
func parseFilterArgs(args []string) (map[int64][]string, error) {
	filters := make(map[int64][]string, len(args))
	for _, arg := range args {
		ref, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		field, err := lookupField(ref)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", ref, err)
		}
		filters[field.ID] = splitValues(value)
	}
	return filters, nil
}

func splitValues(value string) []string {
	parts := strings.Split(value, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// printPage prints one page of specimen summary rows.
func printPage(page types.Page, pageNum int) error {
	if flagJSON {
		return printJSON(page)
	}
	if len(page.Items) == 0 {
		fmt.Println("No specimens found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSLUG\tPUBLISHED\tCOVER")
	for i := range page.Items {
		s := &page.Items[i]
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			s.ID, truncate(s.Name, 40), s.Slug, yesNo(s.Published), s.CoverPhoto)
	}
	w.Flush()
	fmt.Printf("Page %d, total %d specimen(s)\n", pageNum, page.Total)
	return nil
}

// printFields prints field definitions in catalog order.
func printFields(fields []types.Field) error {
	if flagJSON {
		return printJSON(fields)
	}
	if len(fields) == 0 {
		fmt.Println("No fields defined.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLABEL\tTYPE\tFILTER\tPUBLIC\tACTIVE\tOPTIONS")
	for _, f := range fields {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			f.ID, f.Name, truncate(f.Label, 30), f.Type,
			yesNo(f.Filterable), yesNo(f.PublicVisible), yesNo(f.Active),
			strings.Join(f.Options, ","))
	}
	w.Flush()
	return nil
}

// truncate shortens s to max characters, ellipsized. Counts runes, not
// bytes, so multibyte names are never split mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max-3]) + "..."
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
