package store

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/Mloh16/food-oasis/internal/stakeholder/models"
)

// predicate accumulates WHERE fragments with $n bound parameters. Every
// value, including free text, travels as a bound parameter so quoting
// characters in user input never reach the SQL text.
type predicate struct {
	conds []string
	args  []any
}

// add appends a condition. The format string must contain exactly one %d verb
// which receives the parameter's placeholder ordinal.
func (p *predicate) add(format string, value any) {
	p.args = append(p.args, value)
	p.conds = append(p.conds, fmt.Sprintf(format, len(p.args)))
}

// clause renders the accumulated conditions as a WHERE clause, or an empty
// string when no condition was added.
func (p *predicate) clause() string {
	if len(p.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.conds, " AND ")
}

// addNullCheck encodes a three-valued filter: true constrains the column to
// be set, false constrains it to be unset, nil adds nothing.
func (p *predicate) addNullCheck(column string, value *bool) {
	if value == nil {
		return
	}
	if *value {
		p.conds = append(p.conds, column+" IS NOT NULL")
	} else {
		p.conds = append(p.conds, column+" IS NULL")
	}
}

// addBool encodes a two-valued boolean filter; nil adds nothing.
func (p *predicate) addBool(column string, value *bool) {
	if value == nil {
		return
	}
	if *value {
		p.conds = append(p.conds, column+" IS TRUE")
	} else {
		p.conds = append(p.conds, column+" IS FALSE")
	}
}

// escapeLike neutralizes LIKE metacharacters in a bound value so the name
// filter matches them literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// searchPredicate composes the WHERE clause for a search over current
// versions. Column references are against the "cur" alias, which the caller
// binds to the latest-version-per-id subquery.
func searchPredicate(f *models.SearchFilter) (string, []any) {
	var p predicate

	if f.Name != "" {
		p.add(`cur.name ILIKE '%%' || $%d || '%%' ESCAPE '\'`, escapeLike(f.Name))
	}
	if len(f.CategoryIDs) > 0 {
		p.add(`EXISTS (SELECT 1 FROM stakeholder_category sc
			WHERE sc.stakeholder_id = cur.id
			AND sc.version_id = cur.version_id
			AND sc.category_id = ANY($%d::bigint[]))`, pq.Array(f.CategoryIDs))
	}

	p.addNullCheck("cur.assigned_date", f.IsAssigned)
	p.addNullCheck("cur.submitted_date", f.IsSubmitted)
	p.addNullCheck("cur.approved_date", f.IsApproved)
	p.addNullCheck("cur.rejected_date", f.IsRejected)
	p.addNullCheck("cur.claimed_date", f.IsClaimed)
	p.addBool("cur.inactive", f.IsInactive)

	if f.AssignedLoginID > 0 {
		p.add("cur.assigned_login_id = $%d", f.AssignedLoginID)
	}
	if f.ClaimedLoginID > 0 {
		p.add("cur.claimed_login_id = $%d", f.ClaimedLoginID)
	}
	if f.VerificationStatusID > 0 {
		p.add("cur.verification_status_id = $%d", f.VerificationStatusID)
	}

	return p.clause(), p.args
}
