// Dynamic specimen query construction. The number of joined value
// predicates is caller-defined at runtime, so queries are assembled from
// typed fragments folded into an accumulator and serialized only at
// execution. Caller values travel exclusively through bound parameters;
// table aliases are generated here and never caller-supplied.
package sqlite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/webfeathers/gemshelf/pkg/types"
)

// specimenQuery accumulates join and predicate fragments for a paginated
// specimen query. The same fragments serve both the item window and the
// independent total count.
type specimenQuery struct {
	joins    []string
	joinArgs []any
	conds    []string
	condArgs []any
	orderBy  string
}

func newSpecimenQuery() *specimenQuery {
	return &specimenQuery{orderBy: "s.name ASC"}
}

func (q *specimenQuery) join(clause string, args ...any) {
	q.joins = append(q.joins, clause)
	q.joinArgs = append(q.joinArgs, args...)
}

func (q *specimenQuery) where(cond string, args ...any) {
	q.conds = append(q.conds, cond)
	q.condArgs = append(q.condArgs, args...)
}

func (q *specimenQuery) whereSQL() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

func (q *specimenQuery) fromSQL() string {
	sql := " FROM specimens s"
	if len(q.joins) > 0 {
		sql += " " + strings.Join(q.joins, " ")
	}
	return sql
}

// itemsSQL serializes the accumulated fragments into the windowed item
// query. Results are de-duplicated on specimen ID so a specimen matching
// through several value rows appears once.
func (q *specimenQuery) itemsSQL(limit, offset int) (string, []any) {
	sql := "SELECT DISTINCT " + specimenColumns + q.fromSQL() + " " + primaryPhotoJoin +
		q.whereSQL() + " ORDER BY " + q.orderBy + " LIMIT ? OFFSET ?"
	args := append(append([]any{}, q.joinArgs...), q.condArgs...)
	return sql, append(args, limit, offset)
}

// countSQL serializes the same fragments into the total count over the full
// match set, independent of the page window.
func (q *specimenQuery) countSQL() (string, []any) {
	sql := "SELECT COUNT(DISTINCT s.id)" + q.fromSQL() + q.whereSQL()
	return sql, append(append([]any{}, q.joinArgs...), q.condArgs...)
}

// Search returns published specimens whose name, description, or any field
// value contains term as a case-insensitive substring. Each specimen appears
// once regardless of how many of its values match.
func (sp *Specimens) Search(term string, page, perPage int) (types.Page, error) {
	q := newSpecimenQuery()
	q.join("LEFT JOIN field_values fv ON fv.specimen_id = s.id")
	q.where("s.is_published = 1")

	like := "%" + term + "%"
	q.where("(s.name LIKE ? OR s.description LIKE ? OR fv.value LIKE ?)", like, like, like)

	return sp.runPage(q, page, perPage)
}

// Filter returns published specimens matching every supplied field (AND
// across fields) where the stored value equals any of that field's requested
// values (OR within a field). Each filtered field contributes its own
// field_values join; blank values drop the constraint for that field.
func (sp *Specimens) Filter(filters map[int64][]string, page, perPage int) (types.Page, error) {
	q := newSpecimenQuery()
	q.where("s.is_published = 1")

	// Map iteration order is randomized; sort for a deterministic query.
	fieldIDs := make([]int64, 0, len(filters))
	for id := range filters {
		fieldIDs = append(fieldIDs, id)
	}
	sort.Slice(fieldIDs, func(i, j int) bool { return fieldIDs[i] < fieldIDs[j] })

	n := 0
	for _, fieldID := range fieldIDs {
		values := make([]string, 0, len(filters[fieldID]))
		for _, v := range filters[fieldID] {
			if strings.TrimSpace(v) != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		alias := fmt.Sprintf("fv%d", n)
		n++
		q.join(fmt.Sprintf(
			"INNER JOIN field_values %s ON %s.specimen_id = s.id AND %s.field_id = ?",
			alias, alias, alias), fieldID)

		if len(values) == 1 {
			q.where(alias+".value = ?", values[0])
			continue
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		args := make([]any, len(values))
		for i, v := range values {
			args[i] = v
		}
		q.where(fmt.Sprintf("%s.value IN (%s)", alias, placeholders), args...)
	}

	return sp.runPage(q, page, perPage)
}

// runPage executes an accumulated query as one page of summary rows plus
// the total over the full match set. page is 1-based and clamped to 1.
func (sp *Specimens) runPage(q *specimenQuery, page, perPage int) (types.Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = sp.store.cfg.PerPage
	}
	offset := (page - 1) * perPage

	itemsSQL, itemArgs := q.itemsSQL(perPage, offset)
	rows, err := sp.store.db.Query(itemsSQL, itemArgs...)
	if err != nil {
		return types.Page{}, fmt.Errorf("querying specimens: %w", err)
	}
	defer rows.Close()

	items := []types.Specimen{}
	for rows.Next() {
		s, err := hydrateSpecimen(rows)
		if err != nil {
			return types.Page{}, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return types.Page{}, err
	}

	countSQL, countArgs := q.countSQL()
	var total int
	if err := sp.store.db.QueryRow(countSQL, countArgs...).Scan(&total); err != nil {
		return types.Page{}, fmt.Errorf("counting specimens: %w", err)
	}

	return types.Page{Items: items, Total: total}, nil
}
