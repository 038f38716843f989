package cache

import "time"

const (
	StateEmpty = "empty"
	StateFresh = "fresh"
	StateStale = "stale"
)

// Status describes the slot without triggering a refresh.
type Status struct {
	State        string     `json:"state"`
	Revision     string     `json:"revision,omitempty"`
	FetchedAt    *time.Time `json:"fetched_at,omitempty"`
	Publications int        `json:"publications"`
	Window       string     `json:"window"`
}

func (c *Cache) Status() Status {
	st := Status{State: StateEmpty, Window: c.window.String()}
	e, ok := c.Snapshot()
	if !ok {
		return st
	}

	st.State = StateStale
	if c.fresh(e) {
		st.State = StateFresh
	}
	st.Revision = e.Revision.String()
	fetched := e.FetchedAt.UTC()
	st.FetchedAt = &fetched
	st.Publications = len(e.Dataset.Publications)
	return st
}
