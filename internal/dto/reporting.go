package dto

import "time"

// PeriodParams bounds a period report. To defaults to today, From to the
// start of To's year.
type PeriodParams struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// AsOfParams bounds a point-in-time report. AsOf defaults to today.
type AsOfParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}

// Resolve fills the period defaults.
func (p PeriodParams) Resolve(now time.Time) (from, to time.Time) {
	to = now
	if p.To != nil {
		to = *p.To
	}
	from = time.Date(to.Year(), time.January, 1, 0, 0, 0, 0, to.Location())
	if p.From != nil {
		from = *p.From
	}
	return from, to
}

// Resolve fills the as-of default.
func (p AsOfParams) Resolve(now time.Time) time.Time {
	if p.AsOf != nil {
		return *p.AsOf
	}
	return now
}
