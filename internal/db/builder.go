package db

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var identRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Query is a parameterized SQL statement. Args bind to $1..$n in order.
type Query struct {
	SQL  string
	Args []any
}

// String returns a debug representation: the SQL followed by its bound args.
func (q *Query) String() string {
	if len(q.Args) == 0 {
		return q.SQL
	}
	parts := make([]string, len(q.Args))
	for i, a := range q.Args {
		parts[i] = fmt.Sprintf("$%d=%v", i+1, a)
	}
	return q.SQL + " [" + strings.Join(parts, " ") + "]"
}

type condition struct {
	expr string
	args []any
}

// SelectBuilder is a fluent builder for parameterized SELECT statements.
// Conditions use ? placeholders, rewritten to $n in the order they appear.
// User values only ever travel as args.
type SelectBuilder struct {
	table   string
	columns []string
	conds   []condition
	groupBy []string
	orderBy []string
	limit   int
	offset  int
	paged   bool
}

// Select starts building a SELECT over table.
func Select(table string) *SelectBuilder {
	return &SelectBuilder{table: table}
}

// Columns adds projected columns. Names must be plain identifiers.
func (b *SelectBuilder) Columns(cols ...string) *SelectBuilder {
	b.columns = append(b.columns, cols...)
	return b
}

// Where adds a condition; all conditions are joined with AND.
func (b *SelectBuilder) Where(expr string, args ...any) *SelectBuilder {
	b.conds = append(b.conds, condition{expr: expr, args: args})
	return b
}

// GroupBy adds GROUP BY columns.
func (b *SelectBuilder) GroupBy(cols ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, cols...)
	return b
}

// OrderBy adds ORDER BY terms, e.g. "created_at DESC".
func (b *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

// Page adds LIMIT/OFFSET, both bound as parameters.
func (b *SelectBuilder) Page(limit, offset int) *SelectBuilder {
	b.limit, b.offset, b.paged = limit, offset, true
	return b
}

// Build validates and renders the SELECT statement.
func (b *SelectBuilder) Build() (*Query, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b.render("SELECT "+strings.Join(b.columns, ", "), true)
}

// BuildCount renders SELECT COUNT(*) with the same conditions and no
// grouping, ordering or paging.
func (b *SelectBuilder) BuildCount() (*Query, error) {
	if b.table == "" {
		return nil, fmt.Errorf("table name is required")
	}
	return b.render("SELECT COUNT(*)", false)
}

func (b *SelectBuilder) validate() error {
	if b.table == "" {
		return fmt.Errorf("table name is required")
	}
	if len(b.columns) == 0 {
		return fmt.Errorf("at least one column is required")
	}
	for _, c := range b.columns {
		if c != "COUNT(*)" && !identRegex.MatchString(c) {
			return fmt.Errorf("invalid column name %q", c)
		}
	}
	for _, c := range b.groupBy {
		if !identRegex.MatchString(c) {
			return fmt.Errorf("invalid group by column %q", c)
		}
	}
	if b.paged && (b.limit < 0 || b.offset < 0) {
		return fmt.Errorf("limit and offset must be non-negative")
	}
	return nil
}

func (b *SelectBuilder) render(head string, full bool) (*Query, error) {
	var sb strings.Builder
	var args []any

	sb.WriteString(head)
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)

	for i, c := range b.conds {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		expr, err := bindPlaceholders(c.expr, len(args), len(c.args))
		if err != nil {
			return nil, err
		}
		sb.WriteString(expr)
		args = append(args, c.args...)
	}

	if full {
		if len(b.groupBy) > 0 {
			sb.WriteString(" GROUP BY ")
			sb.WriteString(strings.Join(b.groupBy, ", "))
		}
		if len(b.orderBy) > 0 {
			sb.WriteString(" ORDER BY ")
			sb.WriteString(strings.Join(b.orderBy, ", "))
		}
		if b.paged {
			args = append(args, b.limit, b.offset)
			sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args)))
		}
	}

	return &Query{SQL: sb.String(), Args: args}, nil
}

// bindPlaceholders rewrites each ? in expr to $n starting after base.
func bindPlaceholders(expr string, base, want int) (string, error) {
	var sb strings.Builder
	n := 0
	for _, r := range expr {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(base+n))
			continue
		}
		sb.WriteRune(r)
	}
	if n != want {
		return "", fmt.Errorf("condition %q has %d placeholders, got %d args", expr, n, want)
	}
	return sb.String(), nil
}
