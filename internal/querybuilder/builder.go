// Package querybuilder turns a Console's current view and sort state into
// the final query text to send to the server (spec.md §4.2). Every view but
// two returns its template unchanged; the two exceptions substitute a
// single parameter each.
package querybuilder

import (
	"fmt"

	"github.com/yibit/pgcenter/internal/console"
	"github.com/yibit/pgcenter/internal/viewcatalog"
)

// Build produces the query text for one tick against one console.
//
//   - Fixed-template views: returned unchanged.
//   - long-activity: minAge is substituted into both placeholders of its
//     template (two separate WHERE conditions: the query-age filter and the
//     transaction-age filter).
//   - user-functions: sort.OrderKey+1 (1-based column position) is
//     substituted into the template's ORDER BY placeholder.
func Build(v viewcatalog.View, sort console.SortState, minAge string) string {
	switch {
	case v.ID == viewcatalog.LongActivity:
		return fmt.Sprintf(v.QueryTemplate, minAge, minAge)
	case v.ServerSideSort:
		return fmt.Sprintf(v.QueryTemplate, sort.OrderKey+1)
	default:
		return v.QueryTemplate
	}
}
