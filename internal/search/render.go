package search

import (
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/lodestar-hq/lodestar/internal/store"
)

// issuesTable returns the table reference used for qualified issue columns.
// It matches the table the store's selectors are built from.
func issuesTable() *entsql.SelectTable {
	return entsql.Table(store.TableIssues)
}

// renderPredicate lowers a backend-neutral predicate tree into ent SQL
// builder predicates over the issues table.
func renderPredicate(t *entsql.SelectTable, p Predicate) *entsql.Predicate {
	switch pred := p.(type) {
	case Compare:
		col := t.C(pred.Column)
		switch pred.Op {
		case OpEQ:
			return entsql.EQ(col, pred.Value)
		case OpNEQ:
			return entsql.NEQ(col, pred.Value)
		case OpGT:
			return entsql.GT(col, pred.Value)
		case OpLT:
			return entsql.LT(col, pred.Value)
		case OpGTE:
			return entsql.GTE(col, pred.Value)
		case OpLTE:
			return entsql.LTE(col, pred.Value)
		}
		return entsql.EQ(col, pred.Value)

	case RelationMatch:
		return renderRelationMatch(t, pred)

	case TextContains:
		terms := make([]*entsql.Predicate, len(pred.Columns))
		for i, col := range pred.Columns {
			terms[i] = entsql.ContainsFold(t.C(col), pred.Term)
		}
		if len(terms) == 1 {
			return terms[0]
		}
		return entsql.Or(terms...)

	case And:
		return entsql.And(renderChildren(t, pred.Preds)...)

	case Or:
		return entsql.Or(renderChildren(t, pred.Preds)...)

	case Not:
		return entsql.Not(renderPredicate(t, pred.Pred))
	}
	// The predicate set is closed; an unknown node matches nothing.
	return entsql.P(func(b *entsql.Builder) { b.WriteString("FALSE") })
}

func renderChildren(t *entsql.SelectTable, preds []Predicate) []*entsql.Predicate {
	out := make([]*entsql.Predicate, len(preds))
	for i, p := range preds {
		out[i] = renderPredicate(t, p)
	}
	return out
}

// renderRelationMatch compiles to an EXISTS over the related table matching
// its natural-key columns case-insensitively, correlated on the foreign key.
func renderRelationMatch(t *entsql.SelectTable, m RelationMatch) *entsql.Predicate {
	rt := entsql.Table(m.Relation.Table)

	var names []*entsql.Predicate
	for _, col := range m.Relation.NameCols {
		for _, v := range m.Values {
			names = append(names, entsql.EqualFold(rt.C(col), v))
		}
	}
	nameMatch := names[0]
	if len(names) > 1 {
		nameMatch = entsql.Or(names...)
	}

	sub := entsql.Dialect(dialect.SQLite).
		Select(rt.C("id")).
		From(rt).
		Where(entsql.And(
			entsql.ColumnsEQ(rt.C("id"), t.C(m.Relation.FK)),
			nameMatch,
		))
	return entsql.Exists(sub)
}

// effectiveSortKeys resolves the plan's sort keys to the keyset the executor
// pages over: the default recency order when none were requested, always
// terminated by the id column so the total order has no ties.
func effectiveSortKeys(plan *Plan) []SortKey {
	keys := plan.SortKeys
	if len(keys) == 0 {
		keys = []SortKey{{Column: "created_at", Desc: true}}
	}
	last := keys[len(keys)-1]
	return append(keys[:len(keys):len(keys)], SortKey{Column: "id", Desc: last.Desc})
}

// orderColumns renders sort keys as ORDER BY terms.
func orderColumns(t *entsql.SelectTable, keys []SortKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		if k.Desc {
			out[i] = entsql.Desc(t.C(k.Column))
		} else {
			out[i] = entsql.Asc(t.C(k.Column))
		}
	}
	return out
}

// afterPredicate builds the keyset position predicate: rows strictly after
// the cursor row in the order defined by keys. Row-wise comparison, no
// offsets.
func afterPredicate(t *entsql.SelectTable, keys []SortKey, row *store.Issue) *entsql.Predicate {
	terms := make([]*entsql.Predicate, 0, len(keys))
	for i, k := range keys {
		var ands []*entsql.Predicate
		for j := 0; j < i; j++ {
			ands = append(ands, entsql.EQ(t.C(keys[j].Column), cursorValue(row, keys[j].Column)))
		}
		v := cursorValue(row, k.Column)
		if k.Desc {
			ands = append(ands, entsql.LT(t.C(k.Column), v))
		} else {
			ands = append(ands, entsql.GT(t.C(k.Column), v))
		}
		if len(ands) == 1 {
			terms = append(terms, ands[0])
		} else {
			terms = append(terms, entsql.And(ands...))
		}
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return entsql.Or(terms...)
}

// cursorValue extracts a sortable column's value from the cursor row.
func cursorValue(row *store.Issue, column string) any {
	switch column {
	case "id":
		return row.ID.String()
	case "created_at":
		return row.CreatedAt
	case "updated_at":
		return row.UpdatedAt
	case "title":
		return row.Title
	default:
		return nil
	}
}
