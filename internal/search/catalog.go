// Package search compiles parsed LQL queries into backend-neutral plans and
// executes them against the record store with cursor pagination.
package search

// FieldKind classifies how a searchable field compiles.
type FieldKind int

const (
	// KindText is a scalar string column on the issue row.
	KindText FieldKind = iota
	// KindTime is a timestamp column on the issue row.
	KindTime
	// KindRelation is a foreign key to a related record; query literals
	// match the related record's human-readable natural key, not its id.
	KindRelation
)

// Relation describes how a relation-valued field joins to its target table.
type Relation struct {
	Table    string   // related table name
	FK       string   // foreign key column on the issues table
	NameCols []string // natural-key columns matched against literals
}

// Field is one entry in the closed whitelist of searchable fields.
type Field struct {
	Name     string // LQL name
	Kind     FieldKind
	Column   string    // storage column for scalar/time fields
	Rel      *Relation // non-nil for KindRelation
	Sortable bool
}

// catalog is the fixed set of searchable fields. Resolution happens once at
// parse time; compilation switches exhaustively on Kind.
var catalog = []Field{
	{Name: "title", Kind: KindText, Column: "title", Sortable: true},
	{Name: "description", Kind: KindText, Column: "description"},
	{Name: "status", Kind: KindRelation, Rel: &Relation{Table: "statuses", FK: "status_id", NameCols: []string{"name"}}},
	{Name: "assignee", Kind: KindRelation, Rel: &Relation{Table: "users", FK: "assignee_id", NameCols: []string{"name", "email"}}},
	{Name: "priority", Kind: KindRelation, Rel: &Relation{Table: "priorities", FK: "priority_id", NameCols: []string{"name"}}},
	{Name: "project", Kind: KindRelation, Rel: &Relation{Table: "projects", FK: "project_id", NameCols: []string{"name"}}},
	{Name: "created", Kind: KindTime, Column: "created_at", Sortable: true},
	{Name: "updated", Kind: KindTime, Column: "updated_at", Sortable: true},
}

var catalogByName = func() map[string]*Field {
	m := make(map[string]*Field, len(catalog))
	for i := range catalog {
		m[catalog[i].Name] = &catalog[i]
	}
	return m
}()

// FieldNames returns the LQL names of all searchable fields, in catalog
// order. The parser consumes this as its whitelist.
func FieldNames() []string {
	names := make([]string, len(catalog))
	for i, f := range catalog {
		names[i] = f.Name
	}
	return names
}

// LookupField returns the catalog entry for an LQL field name.
func LookupField(name string) (*Field, bool) {
	f, ok := catalogByName[name]
	return f, ok
}
