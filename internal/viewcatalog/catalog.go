// Package viewcatalog holds the read-only registry of statistics views: for
// each view, the query template, the column range a user may sort by, the
// column range that is shown as a rate (current-minus-previous), and whether
// the sort column is pushed into the query itself (ORDER BY) rather than
// applied client-side.
//
// The catalog never changes after startup, so a single package-level map is
// safe to share across every Console without locking.
package viewcatalog

// ViewID names one of the eight statistics presentations a console can show.
type ViewID int

const (
	Databases ViewID = iota
	Replication
	UserTables
	UserIndexes
	StatioUserTables
	TableSizes
	LongActivity
	UserFunctions

	numViews
)

// Key returns the single keystroke (§4.8) that selects this view.
func (v ViewID) Key() rune {
	switch v {
	case Databases:
		return 'd'
	case Replication:
		return 'r'
	case UserTables:
		return 't'
	case UserIndexes:
		return 'i'
	case StatioUserTables:
		return 'y'
	case TableSizes:
		return 's'
	case LongActivity:
		return 'l'
	case UserFunctions:
		return 'f'
	default:
		return 0
	}
}

func (v ViewID) String() string {
	switch v {
	case Databases:
		return "databases"
	case Replication:
		return "replication"
	case UserTables:
		return "user-tables"
	case UserIndexes:
		return "user-indexes"
	case StatioUserTables:
		return "statio-user-tables"
	case TableSizes:
		return "table-sizes"
	case LongActivity:
		return "long-activity"
	case UserFunctions:
		return "user-functions"
	default:
		return "unknown"
	}
}

// CatalogName is the view's underlying Postgres statistics relation (or, for
// table-sizes and long-activity, the closest descriptive equivalent), for
// the "Show ..." status line the Command Dispatcher reports on a view
// switch.
func (v ViewID) CatalogName() string {
	switch v {
	case Databases:
		return "pg_stat_database"
	case Replication:
		return "pg_stat_replication"
	case UserTables:
		return "pg_stat_user_tables"
	case UserIndexes:
		return "pg_stat_user_indexes"
	case StatioUserTables:
		return "pg_statio_user_tables"
	case TableSizes:
		return "relation sizes"
	case LongActivity:
		return "pg_stat_activity"
	case UserFunctions:
		return "pg_stat_user_functions"
	default:
		return "unknown"
	}
}

// View is one static catalog entry. SortMin/SortMax == -1 marks a view that
// cannot be sorted client-side. DiffMin/DiffMax == -1 marks a view with no
// rate columns at all (its cells always pass through verbatim).
type View struct {
	ID             ViewID
	QueryTemplate  string
	SortMin        int
	SortMax        int
	DiffMin        int
	DiffMax        int
	ServerSideSort bool
}

// DefaultSort is the initial sort column for a view: the left edge of its
// sortable range.
func (v View) DefaultSort() int { return v.SortMin }

// Sortable reports whether the view exposes any sort column at all.
func (v View) Sortable() bool { return v.SortMin >= 0 && v.SortMax >= v.SortMin }

// HasDiff reports whether the view has any rate column.
func (v View) HasDiff() bool { return v.DiffMin >= 0 && v.DiffMax >= v.DiffMin }

// Catalog is the read-only, keyed-by-ViewID registry.
type Catalog map[ViewID]View

// Default builds the fixed, eight-view catalog described in spec.md §6
// and §4.1. Column indices are 0-based and refer to positions in the
// query's SELECT list.
func Default() Catalog {
	return Catalog{
		Databases: {
			ID: Databases, SortMin: 2, SortMax: 6, DiffMin: 2, DiffMax: 6,
			QueryTemplate: pgStatDatabaseQuery,
		},
		Replication: {
			ID: Replication, SortMin: 0, SortMax: 5, DiffMin: -1, DiffMax: -1,
			QueryTemplate: pgStatReplicationQuery,
		},
		UserTables: {
			ID: UserTables, SortMin: 1, SortMax: 11, DiffMin: 2, DiffMax: 11,
			QueryTemplate: pgStatUserTablesQuery,
		},
		UserIndexes: {
			ID: UserIndexes, SortMin: 2, SortMax: 5, DiffMin: 3, DiffMax: 5,
			QueryTemplate: pgStatUserIndexesQuery,
		},
		StatioUserTables: {
			ID: StatioUserTables, SortMin: 1, SortMax: 6, DiffMin: 2, DiffMax: 6,
			QueryTemplate: pgStatioUserTablesQuery,
		},
		TableSizes: {
			ID: TableSizes, SortMin: 1, SortMax: 2, DiffMin: -1, DiffMax: -1,
			QueryTemplate: pgTableSizesQuery,
		},
		LongActivity: {
			ID: LongActivity, SortMin: -1, SortMax: -1, DiffMin: -1, DiffMax: -1,
			QueryTemplate: pgLongActivityQuery,
		},
		UserFunctions: {
			ID: UserFunctions, SortMin: 0, SortMax: 5, DiffMin: 3, DiffMax: 3,
			ServerSideSort: true,
			QueryTemplate:  pgStatUserFunctionsQuery,
		},
	}
}

// Get returns the entry for id. The boolean is false only if id falls
// outside the closed set of eight views, which should never happen for a
// value produced by this package's constants.
func (c Catalog) Get(id ViewID) (View, bool) {
	v, ok := c[id]
	return v, ok
}

// The eight per-view read-only SQL templates from spec.md §6 (the ninth, the
// activity-counts query, lives in internal/pgstat). LongActivity carries two
// "%s" placeholders for the minimum-age duration literal, one in each of its
// WHERE conditions (query age and transaction age); UserFunctions carries
// one "%d" placeholder for a 1-based ORDER BY column.
const (
	pgStatDatabaseQuery = `SELECT datname, numbackends, xact_commit, xact_rollback,
       blks_read, blks_hit, deadlocks
  FROM pg_stat_database
 WHERE datname IS NOT NULL
 ORDER BY datname`

	pgStatReplicationQuery = `SELECT client_addr, state, sent_lsn, write_lsn, flush_lsn, replay_lsn
  FROM pg_stat_replication
 ORDER BY client_addr`

	pgStatUserTablesQuery = `SELECT relid, relname, seq_scan, seq_tup_read, idx_scan, idx_tup_fetch,
       n_tup_ins, n_tup_upd, n_tup_del, n_tup_hot_upd, vacuum_count, autovacuum_count
  FROM pg_stat_user_tables
 ORDER BY relname`

	pgStatUserIndexesQuery = `SELECT relid, indexrelid, relname, idx_scan, idx_tup_read, idx_tup_fetch
  FROM pg_stat_user_indexes
 ORDER BY relname`

	pgStatioUserTablesQuery = `SELECT relid, relname, heap_blks_read, heap_blks_hit,
       idx_blks_read, idx_blks_hit, toast_blks_read
  FROM pg_statio_user_tables
 ORDER BY relname`

	pgTableSizesQuery = `SELECT relid, relname, pg_total_relation_size(relid) AS total_size
  FROM pg_stat_user_tables
 ORDER BY total_size DESC`

	pgLongActivityQuery = `SELECT pid, usename, client_addr, state,
       now() - query_start AS duration, query
  FROM pg_stat_activity
 WHERE state <> 'idle'
   AND now() - query_start > '%s'::interval
   AND now() - xact_start > '%s'::interval
 ORDER BY duration DESC`

	pgStatUserFunctionsQuery = `SELECT funcid, schemaname, funcname, calls, total_time, self_time
  FROM pg_stat_user_functions
 ORDER BY %d`
)
