// Package pgstat is the system's only point of contact with the observed
// PostgreSQL server. It wraps pgx to open one connection per Console and
// run the query text the Query Builder produces, materializing the
// response into a resulttable.Table of text cells.
//
// Per spec.md §1 the database client library is an external collaborator
// ("treated as a library") — this package is the thin seam around it, not
// a reimplementation of the wire protocol.
package pgstat

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yibit/pgcenter/internal/console"
	"github.com/yibit/pgcenter/internal/resulttable"
)

// ConnectTimeout bounds how long a single console's (re)connect attempt may
// take before it is reported as a failure rather than left hanging.
const ConnectTimeout = 5 * time.Second

// QueryTimeout bounds a single tick's statistics query. Catalog queries are
// expected to answer in milliseconds (spec.md §5); a query that blows past
// this is treated as a query failure for that tick.
const QueryTimeout = 10 * time.Second

// Conn wraps one console's live connection to the observed server.
type Conn struct {
	pg *pgx.Conn
}

// Connect dials the server described by params. On a "password required"
// condition it is the caller's job to re-prompt and retry once (spec.md
// §7); this function itself makes exactly one attempt.
func Connect(ctx context.Context, params console.ConnParams) (*Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()

	pg, err := pgx.Connect(ctx, params.DSN())
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s: %w", params.Label(), err)
	}
	return &Conn{pg: pg}, nil
}

// Close releases the underlying connection. Safe to call on a nil *Conn.
func (c *Conn) Close(ctx context.Context) {
	if c == nil || c.pg == nil {
		return
	}
	_ = c.pg.Close(ctx)
}

// Query executes sql and materializes the result as a resulttable.Table.
// Every value is rendered to text with fmt.Sprint — Result Table cells are
// text per the data model (spec.md §3), with numeric interpretation
// deferred to the diff/sort stages that need it.
func (c *Conn) Query(ctx context.Context, sql string) (*resulttable.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	rows, err := c.pg.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columnNames := make([]string, len(fields))
	for i, f := range fields {
		columnNames[i] = string(f.Name)
	}

	var tableRows [][]string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatCell(v)
		}
		tableRows = append(tableRows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return resulttable.New(columnNames, tableRows), nil
}

func formatCell(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
