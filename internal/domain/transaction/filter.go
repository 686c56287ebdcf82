package transaction

import "time"

// Filter narrows a transaction list. All set fields must match (logical AND);
// unset fields pass everything. Date bounds are inclusive on both ends.
type Filter struct {
	Type      *Type
	Person    *string
	Category  *Category
	StartDate *time.Time
	EndDate   *time.Time
}

// Match reports whether t passes every active condition.
func (f Filter) Match(t *Transaction) bool {
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.Person != nil && t.Person != *f.Person {
		return false
	}
	if f.Category != nil && (t.Category == nil || *t.Category != *f.Category) {
		return false
	}
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	return true
}

// Apply returns the transactions passing the filter, preserving order.
func Apply(ts []*Transaction, f Filter) []*Transaction {
	var out []*Transaction
	for _, t := range ts {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
