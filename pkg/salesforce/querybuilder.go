package salesforce

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Op is a SOQL comparison operator.
type Op string

const (
	OpEq   Op = "="
	OpNeq  Op = "!="
	OpGt   Op = ">"
	OpGte  Op = ">="
	OpLt   Op = "<"
	OpLte  Op = "<="
	OpLike Op = "LIKE"
	OpIn   Op = "IN"
)

// Date renders as an unquoted SOQL date literal (2006-01-02). Use it when
// filtering Date fields like CloseDate; a time.Time value renders as a
// DateTime literal, which Salesforce rejects on Date fields.
type Date time.Time

// Filter is one structured SOQL condition. Values are rendered and escaped
// by the builder; callers never splice literals into query text themselves.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// QueryBuilder assembles a SOQL statement from structured parts.
type QueryBuilder struct {
	object       string
	fields       []string
	filters      []Filter
	disjunctions [][][]Filter
	orderBy      string
	desc         bool
	limit        int
}

// NewQuery starts a builder for the given SObject.
func NewQuery(object string) *QueryBuilder {
	return &QueryBuilder{object: object}
}

// Select sets the field list.
func (b *QueryBuilder) Select(fields ...string) *QueryBuilder {
	b.fields = append(b.fields, fields...)
	return b
}

// Where adds an AND-joined condition.
func (b *QueryBuilder) Where(field string, op Op, value any) *QueryBuilder {
	b.filters = append(b.filters, Filter{Field: field, Op: op, Value: value})
	return b
}

// WhereAny adds one parenthesized disjunction of AND-groups:
// ((g0f0 AND g0f1) OR (g1f0 AND g1f1)). Used for date windows that split
// at calendar-year boundaries. Empty groups are skipped.
func (b *QueryBuilder) WhereAny(groups ...[]Filter) *QueryBuilder {
	var kept [][]Filter
	for _, g := range groups {
		if len(g) > 0 {
			kept = append(kept, g)
		}
	}
	if len(kept) > 0 {
		b.disjunctions = append(b.disjunctions, kept)
	}
	return b
}

// OrderBy sets the sort field.
func (b *QueryBuilder) OrderBy(field string, descending bool) *QueryBuilder {
	b.orderBy = field
	b.desc = descending
	return b
}

// Limit caps the row count.
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.limit = n
	return b
}

// Object returns the SObject this query targets.
func (b *QueryBuilder) Object() string { return b.object }

// Fields returns a copy of the selected field list.
func (b *QueryBuilder) Fields() []string {
	out := make([]string, len(b.fields))
	copy(out, b.fields)
	return out
}

// WithoutFields returns a clone of the builder with the named fields removed
// from the select list and from every condition that references them. Used
// by the schema-drift fallback to retry with a reduced field set.
func (b *QueryBuilder) WithoutFields(names ...string) *QueryBuilder {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	clone := &QueryBuilder{
		object:  b.object,
		orderBy: b.orderBy,
		desc:    b.desc,
		limit:   b.limit,
	}
	for _, f := range b.fields {
		if !drop[f] {
			clone.fields = append(clone.fields, f)
		}
	}
	for _, f := range b.filters {
		if !drop[f.Field] {
			clone.filters = append(clone.filters, f)
		}
	}
	for _, d := range b.disjunctions {
		var keptGroups [][]Filter
		for _, g := range d {
			var kept []Filter
			for _, f := range g {
				if !drop[f.Field] {
					kept = append(kept, f)
				}
			}
			if len(kept) > 0 {
				keptGroups = append(keptGroups, kept)
			}
		}
		if len(keptGroups) > 0 {
			clone.disjunctions = append(clone.disjunctions, keptGroups)
		}
	}
	if drop[clone.orderBy] {
		clone.orderBy = ""
	}
	return clone
}

// Build renders the SOQL statement.
func (b *QueryBuilder) Build() string {
	fields := b.fields
	if len(fields) == 0 {
		fields = []string{"Id"}
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(fields, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.object)

	var conds []string
	for _, f := range b.filters {
		conds = append(conds, renderFilter(f))
	}
	for _, d := range b.disjunctions {
		conds = append(conds, renderDisjunction(d))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	if b.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.orderBy)
		if b.desc {
			sb.WriteString(" DESC")
		}
	}
	if b.limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", b.limit))
	}
	return sb.String()
}

// renderDisjunction renders OR-joined AND-groups.
func renderDisjunction(d [][]Filter) string {
	groups := make([]string, 0, len(d))
	for _, g := range d {
		rendered := make([]string, len(g))
		for i, f := range g {
			rendered[i] = renderFilter(f)
		}
		groups = append(groups, "("+strings.Join(rendered, " AND ")+")")
	}
	return "(" + strings.Join(groups, " OR ") + ")"
}

func renderFilter(f Filter) string {
	if f.Op == OpIn {
		return fmt.Sprintf("%s IN (%s)", f.Field, renderList(f.Value))
	}
	return fmt.Sprintf("%s %s %s", f.Field, f.Op, renderValue(f.Value))
}

func renderList(v any) string {
	switch vals := v.(type) {
	case []string:
		sorted := make([]string, len(vals))
		copy(sorted, vals)
		sort.Strings(sorted)
		rendered := make([]string, len(sorted))
		for i, s := range sorted {
			rendered[i] = renderValue(s)
		}
		return strings.Join(rendered, ", ")
	case []any:
		rendered := make([]string, len(vals))
		for i, item := range vals {
			rendered[i] = renderValue(item)
		}
		return strings.Join(rendered, ", ")
	default:
		return renderValue(v)
	}
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return "'" + escapeSoql(val) + "'"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case Date:
		return time.Time(val).UTC().Format("2006-01-02")
	case time.Time:
		return val.UTC().Format("2006-01-02T15:04:05Z")
	case int, int32, int64:
		return fmt.Sprintf("%d", val)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", val), "0"), ".")
	default:
		return "'" + escapeSoql(fmt.Sprintf("%v", val)) + "'"
	}
}

// escapeSoql escapes single quotes and backslashes in SOQL string literals
// to prevent injection.
func escapeSoql(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
