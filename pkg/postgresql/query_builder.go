package postgresql

import (
	"fmt"
	"strings"
)

// insertBuilder implements InsertBuilder interface
type insertBuilder struct {
	table     string
	columns   []string
	rows      [][]any
	conflict  []string
	action    string
	returning []string
}

// NewInsertBuilder creates a new insert builder
func NewInsertBuilder() InsertBuilder {
	return &insertBuilder{}
}

func (ib *insertBuilder) Into(table string) InsertBuilder {
	ib.table = table
	return ib
}

func (ib *insertBuilder) Columns(columns ...string) InsertBuilder {
	ib.columns = columns
	return ib
}

// Values appends one row. Call it repeatedly for multi-row inserts.
func (ib *insertBuilder) Values(values ...any) InsertBuilder {
	ib.rows = append(ib.rows, values)
	return ib
}

func (ib *insertBuilder) OnConflict(columns ...string) InsertBuilder {
	ib.conflict = columns
	return ib
}

func (ib *insertBuilder) DoNothing() InsertBuilder {
	ib.action = "DO NOTHING"
	return ib
}

// DoUpdate overwrites the listed columns with the proposed row (EXCLUDED).
func (ib *insertBuilder) DoUpdate(columns ...string) InsertBuilder {
	sets := make([]string, len(columns))
	for i, col := range columns {
		sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", col, col)
	}
	ib.action = "DO UPDATE SET " + strings.Join(sets, ", ")
	return ib
}

func (ib *insertBuilder) Returning(columns ...string) InsertBuilder {
	ib.returning = columns
	return ib
}

func (ib *insertBuilder) Build() (string, []any) {
	var query strings.Builder
	var args []any

	query.WriteString("INSERT INTO ")
	query.WriteString(ib.table)

	if len(ib.columns) > 0 {
		query.WriteString(" (")
		query.WriteString(strings.Join(ib.columns, ", "))
		query.WriteString(")")
	}

	query.WriteString(" VALUES ")
	tuples := make([]string, len(ib.rows))
	for i, row := range ib.rows {
		placeholders := make([]string, len(row))
		for j, v := range row {
			args = append(args, v)
			placeholders[j] = fmt.Sprintf("$%d", len(args))
		}
		tuples[i] = "(" + strings.Join(placeholders, ", ") + ")"
	}
	query.WriteString(strings.Join(tuples, ", "))

	if len(ib.conflict) > 0 && ib.action != "" {
		query.WriteString(" ON CONFLICT (")
		query.WriteString(strings.Join(ib.conflict, ", "))
		query.WriteString(") ")
		query.WriteString(ib.action)
	}

	if len(ib.returning) > 0 {
		query.WriteString(" RETURNING ")
		query.WriteString(strings.Join(ib.returning, ", "))
	}

	return query.String(), args
}
