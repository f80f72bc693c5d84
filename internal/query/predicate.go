package query

import (
	"sort"
	"strconv"
	"strings"
)

// Op is the comparison a fragment applies to its attribute.
type Op int

const (
	OpEq Op = iota
	OpGoe
	OpLoe
	OpContains
	OpIn
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpGoe:
		return "goe"
	case OpLoe:
		return "loe"
	case OpContains:
		return "contains"
	case OpIn:
		return "in"
	default:
		return "op(" + strconv.Itoa(int(o)) + ")"
	}
}

// Attribute describes a filterable property of a query root.
// Join names the related entity the executor must join to reach Column;
// it is empty for attributes of the root itself.
type Attribute struct {
	Name   string
	Column string
	Join   string
}

// Fragment is a single comparison between an attribute and a bound value.
type Fragment struct {
	Attr  Attribute
	Op    Op
	Value any
}

// Predicate is a conjunction of fragments. A nil *Predicate means
// "no predicate" and matches every row.
type Predicate struct {
	fragments []Fragment
}

func single(attr Attribute, op Op, value any) *Predicate {
	return &Predicate{fragments: []Fragment{{Attr: attr, Op: op, Value: value}}}
}

// And combines predicates, skipping nil ones. It returns nil when every
// argument is nil.
func And(preds ...*Predicate) *Predicate {
	var out []Fragment
	for _, p := range preds {
		if p == nil {
			continue
		}
		out = append(out, p.fragments...)
	}
	if len(out) == 0 {
		return nil
	}
	return &Predicate{fragments: out}
}

// And returns p AND other. Either side may be nil.
func (p *Predicate) And(other *Predicate) *Predicate {
	return And(p, other)
}

// Fragments returns a copy of the fragments in composition order.
func (p *Predicate) Fragments() []Fragment {
	if p == nil {
		return nil
	}
	out := make([]Fragment, len(p.fragments))
	copy(out, p.fragments)
	return out
}

// Len reports the number of fragments.
func (p *Predicate) Len() int {
	if p == nil {
		return 0
	}
	return len(p.fragments)
}

// Joins returns the sorted set of joins referenced by the predicate.
func (p *Predicate) Joins() []string {
	if p == nil {
		return nil
	}
	seen := make(map[string]bool)
	var joins []string
	for _, f := range p.fragments {
		if f.Attr.Join == "" || seen[f.Attr.Join] {
			continue
		}
		seen[f.Attr.Join] = true
		joins = append(joins, f.Attr.Join)
	}
	sort.Strings(joins)
	return joins
}

// Requires reports whether the predicate references the given join.
func (p *Predicate) Requires(join string) bool {
	if p == nil {
		return false
	}
	for _, f := range p.fragments {
		if f.Attr.Join == join {
			return true
		}
	}
	return false
}

// EqText returns attr = value, or nil when value is blank.
func EqText(attr Attribute, value string) *Predicate {
	if !hasText(value) {
		return nil
	}
	return single(attr, OpEq, value)
}

// Contains returns a substring match on attr, or nil when value is blank.
func Contains(attr Attribute, value string) *Predicate {
	if !hasText(value) {
		return nil
	}
	return single(attr, OpContains, value)
}

// Eq returns attr = *value, or nil when value is nil.
func Eq[T any](attr Attribute, value *T) *Predicate {
	if value == nil {
		return nil
	}
	return single(attr, OpEq, *value)
}

// Goe returns attr >= *value, or nil when value is nil.
func Goe(attr Attribute, value *int) *Predicate {
	if value == nil {
		return nil
	}
	return single(attr, OpGoe, *value)
}

// Loe returns attr <= *value, or nil when value is nil.
func Loe(attr Attribute, value *int) *Predicate {
	if value == nil {
		return nil
	}
	return single(attr, OpLoe, *value)
}

// Between returns lower <= attr <= upper, dropping whichever bound is nil.
func Between(attr Attribute, lower, upper *int) *Predicate {
	return And(Goe(attr, lower), Loe(attr, upper))
}

// InText returns attr IN values, or nil when values is empty.
func InText(attr Attribute, values []string) *Predicate {
	if len(values) == 0 {
		return nil
	}
	cp := make([]string, len(values))
	copy(cp, values)
	return single(attr, OpIn, cp)
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Args accumulates positional query arguments and hands out $n placeholders.
type Args struct {
	values []any
}

// Add appends v and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// Values returns the accumulated arguments in placeholder order.
func (a *Args) Values() []any {
	return a.values
}

// SQL renders the predicate as a boolean SQL expression, binding values
// into args. It returns "" for a nil predicate.
func (p *Predicate) SQL(args *Args) string {
	if p == nil || len(p.fragments) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p.fragments))
	for _, f := range p.fragments {
		parts = append(parts, f.sql(args))
	}
	return strings.Join(parts, " AND ")
}

// Where renders " WHERE <predicate>" or "" when there is nothing to filter.
func Where(p *Predicate, args *Args) string {
	clause := p.SQL(args)
	if clause == "" {
		return ""
	}
	return " WHERE " + clause
}

func (f Fragment) sql(args *Args) string {
	switch f.Op {
	case OpGoe:
		return f.Attr.Column + " >= " + args.Add(f.Value)
	case OpLoe:
		return f.Attr.Column + " <= " + args.Add(f.Value)
	case OpContains:
		return f.Attr.Column + " LIKE " + args.Add("%"+escapeLike(f.Value.(string))+"%")
	case OpIn:
		return f.Attr.Column + " = ANY(" + args.Add(f.Value) + ")"
	default:
		return f.Attr.Column + " = " + args.Add(f.Value)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
