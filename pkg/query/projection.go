// Package query builds parameterized SELECT statements over a projected table.
package query

import "strings"

// ProjectionMap maps field names to alias-qualified columns of one table.
type ProjectionMap struct {
	from    string
	alias   string
	columns map[string]string
	order   []string
}

// NewProjectionMap creates a ProjectionMap over schema.table with alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		from:    schema + "." + table + " " + alias,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps field to column. Columns are selected in projection order.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[field] = qualified
	p.order = append(p.order, qualified)
	return p
}

// From returns the FROM source, "schema.table alias".
func (p *ProjectionMap) From() string {
	return p.from
}

// Column returns the qualified column for field, or field itself when it is
// not projected.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.columns[field]; ok {
		return col
	}
	return field
}

// Columns returns the projected columns as a select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}

func (p *ProjectionMap) lookup(field string) (string, bool) {
	col, ok := p.columns[field]
	return col, ok
}
