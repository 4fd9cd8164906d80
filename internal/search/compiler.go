package search

import (
	"fmt"
	"time"

	"github.com/lodestar-hq/lodestar/internal/lql"
)

// Compile walks a parsed query and produces a Plan. Compilation is
// deterministic: the same AST always yields a structurally equal plan.
func Compile(q *lql.Query) (*Plan, error) {
	plan := &Plan{}

	if q.Expr != nil {
		pred, err := compileExpr(q.Expr)
		if err != nil {
			return nil, err
		}
		plan.Predicate = pred
	}

	for _, item := range q.OrderBy {
		f, ok := LookupField(item.Field)
		if !ok {
			return nil, fmt.Errorf("unknown sort field '%s'", item.Field)
		}
		if !f.Sortable {
			return nil, fmt.Errorf("field '%s' is not sortable", item.Field)
		}
		plan.SortKeys = append(plan.SortKeys, SortKey{Column: f.Column, Desc: item.Desc})
	}

	return plan, nil
}

func compileExpr(expr lql.Expr) (Predicate, error) {
	switch e := expr.(type) {
	case *lql.CompareExpr:
		return compileComparison(e)

	case *lql.InExpr:
		return compileIn(e)

	case *lql.BinaryExpr:
		left, err := compileExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := compileExpr(e.Right)
		if err != nil {
			return nil, err
		}
		if e.Op == lql.LogicAnd {
			return And{Preds: []Predicate{left, right}}, nil
		}
		return Or{Preds: []Predicate{left, right}}, nil

	case *lql.NotExpr:
		inner, err := compileExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return Not{Pred: inner}, nil

	default:
		return nil, fmt.Errorf("unsupported expression type %T", expr)
	}
}

func compileComparison(e *lql.CompareExpr) (Predicate, error) {
	f, ok := LookupField(e.Field)
	if !ok {
		return nil, fmt.Errorf("unknown field '%s'", e.Field)
	}

	switch f.Kind {
	case KindText:
		if e.Op != lql.CompEQ && e.Op != lql.CompNEQ {
			return nil, fmt.Errorf("field '%s' supports only = and !=", f.Name)
		}
		return Compare{Column: f.Column, Op: mapCompOp(e.Op), Value: e.Value.Raw}, nil

	case KindTime:
		ts, err := parseTimeLiteral(e.Value.Raw)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", f.Name, err)
		}
		return Compare{Column: f.Column, Op: mapCompOp(e.Op), Value: ts}, nil

	case KindRelation:
		match := RelationMatch{Relation: *f.Rel, Values: []string{e.Value.Raw}}
		switch e.Op {
		case lql.CompEQ:
			return match, nil
		case lql.CompNEQ:
			return Not{Pred: match}, nil
		default:
			return nil, fmt.Errorf("field '%s' supports only =, != and in", f.Name)
		}

	default:
		return nil, fmt.Errorf("field '%s' has unsupported kind", f.Name)
	}
}

func compileIn(e *lql.InExpr) (Predicate, error) {
	f, ok := LookupField(e.Field)
	if !ok {
		return nil, fmt.Errorf("unknown field '%s'", e.Field)
	}

	switch f.Kind {
	case KindRelation:
		values := make([]string, len(e.Values))
		for i, v := range e.Values {
			values[i] = v.Raw
		}
		return RelationMatch{Relation: *f.Rel, Values: values}, nil

	case KindText:
		preds := make([]Predicate, len(e.Values))
		for i, v := range e.Values {
			preds[i] = Compare{Column: f.Column, Op: OpEQ, Value: v.Raw}
		}
		return Or{Preds: preds}, nil

	default:
		return nil, fmt.Errorf("field '%s' does not support 'in'", f.Name)
	}
}

func mapCompOp(op lql.CompOp) Op {
	switch op {
	case lql.CompEQ:
		return OpEQ
	case lql.CompNEQ:
		return OpNEQ
	case lql.CompGT:
		return OpGT
	case lql.CompLT:
		return OpLT
	case lql.CompGTE:
		return OpGTE
	case lql.CompLTE:
		return OpLTE
	default:
		return OpEQ
	}
}

// timeLayouts are accepted for time-field literals, most specific first.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimeLiteral(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time literal '%s'", raw)
}
