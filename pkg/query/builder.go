package query

import (
	"fmt"
	"reflect"
	"strings"
)

// placeholder marks where buildWhere writes the next parameter number.
const placeholder = "$%d"

type condition struct {
	clause string
	args   []any
}

// SortField names a projected field and its direction in an ORDER BY clause.
type SortField struct {
	Field      string
	Descending bool
}

// Builder assembles SELECT statements over a ProjectionMap. Conditions are
// joined with AND and numbered $1..$n in the order they were added.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for projection. defaultSort applies when no
// explicit order is set.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields reads a comma-separated sort list such as "level,-riCost".
// A leading "-" sorts descending. Empty input yields nil.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Build returns the ordered SELECT with every condition applied.
func (b *Builder) Build() (string, []any) {
	return b.selectSQL("")
}

// BuildCount returns SELECT COUNT(*) with every condition applied.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.buildWhere()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.From(), where), args
}

// BuildPage returns the ordered SELECT restricted to one page. page is 1-based.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	return b.selectSQL(fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize))
}

// BuildSingle returns a SELECT of the row whose idField equals id. Other
// conditions and ordering are ignored.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.From(),
		b.projection.Column(idField),
	), []any{id}
}

// OrderByFields replaces the default sort. Fields outside the projection
// are dropped; the default sort applies when none remain.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereContains matches field case-insensitively against *value. Nil or
// empty values add nothing.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.where(b.projection.Column(field)+" ILIKE "+placeholder, "%"+*value+"%")
}

// WhereEquals matches field exactly. Nil values, including typed nil
// pointers, add nothing.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.where(b.projection.Column(field)+" = "+placeholder, value)
}

// WhereSearch matches *search against any of fields. Nil or empty search
// adds nothing.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	clauses := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, field := range fields {
		clauses[i] = b.projection.Column(field) + " ILIKE " + placeholder
		args[i] = pattern
	}
	return b.where("("+strings.Join(clauses, " OR ")+")", args...)
}

func (b *Builder) where(clause string, args ...any) *Builder {
	b.conditions = append(b.conditions, condition{clause: clause, args: args})
	return b
}

func (b *Builder) selectSQL(suffix string) (string, []any) {
	where, args := b.buildWhere()
	return fmt.Sprintf(
		"SELECT %s FROM %s%s%s%s",
		b.projection.Columns(),
		b.projection.From(),
		where,
		b.buildOrderBy(),
		suffix,
	), args
}

func (b *Builder) buildOrderBy() string {
	parts := b.orderTerms(b.sort)
	if len(parts) == 0 {
		parts = b.orderTerms(b.defaultSort)
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) orderTerms(fields []SortField) []string {
	var parts []string
	for _, f := range fields {
		col, ok := b.projection.lookup(f.Field)
		if !ok {
			continue
		}
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	return parts
}

func (b *Builder) buildWhere() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var (
		clauses = make([]string, len(b.conditions))
		args    []any
	)
	for i, cond := range b.conditions {
		clause := cond.clause
		for _, arg := range cond.args {
			args = append(args, arg)
			clause = strings.Replace(clause, placeholder, fmt.Sprintf("$%d", len(args)), 1)
		}
		clauses[i] = clause
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
