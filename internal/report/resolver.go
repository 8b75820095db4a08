// Package report derives analytical views from the raw event logs.
package report

import "time"

// LatestPerKey selects, for each distinct key, the single event with
// the maximum timestamp. Ties on the timestamp are broken by the higher
// id, so the most recently written record wins. A zero timestamp (a
// NULL in the log) ranks below any real one; a key whose events are all
// zero-dated still yields one record, chosen by id.
func LatestPerKey[E any](events []E, key func(E) string, when func(E) time.Time, id func(E) int64) map[string]E {
	latest := make(map[string]E, len(events))
	for _, ev := range events {
		k := key(ev)
		cur, ok := latest[k]
		if !ok || ranksAbove(when(ev), id(ev), when(cur), id(cur)) {
			latest[k] = ev
		}
	}
	return latest
}

func ranksAbove(t time.Time, id int64, curT time.Time, curID int64) bool {
	if !t.Equal(curT) {
		return t.After(curT)
	}
	return id > curID
}
