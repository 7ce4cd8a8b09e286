package pgstat

import "context"

// ActivityCounts summarizes pg_stat_activity the way the System Summary's
// connection line does (spec.md §6: "activity counters (total, idle,
// idle-in-transaction, active, waiting, others)"). It is fetched once per
// tick alongside the active view's own query.
type ActivityCounts struct {
	Total, Idle, IdleInTransaction, Active, Waiting, Others int
}

const activityCountsQuery = `SELECT
    count(*) AS total,
    count(*) FILTER (WHERE state = 'idle') AS idle,
    count(*) FILTER (WHERE state = 'idle in transaction') AS idle_in_tx,
    count(*) FILTER (WHERE state = 'active') AS active,
    count(*) FILTER (WHERE wait_event IS NOT NULL) AS waiting
  FROM pg_stat_activity`

// FetchActivityCounts runs the fixed activity-summary query. A failure here
// is treated like any other query failure (spec.md §7): the caller blanks
// that region for the tick rather than aborting the console.
func (c *Conn) FetchActivityCounts(ctx context.Context) (ActivityCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var a ActivityCounts
	row := c.pg.QueryRow(ctx, activityCountsQuery)
	if err := row.Scan(&a.Total, &a.Idle, &a.IdleInTransaction, &a.Active, &a.Waiting); err != nil {
		return ActivityCounts{}, err
	}
	a.Others = a.Total - a.Idle - a.IdleInTransaction - a.Active - a.Waiting
	if a.Others < 0 {
		a.Others = 0
	}
	return a, nil
}
