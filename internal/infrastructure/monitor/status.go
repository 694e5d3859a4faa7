package monitor

import "time"

// Status is the last observed state of the backing stores.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}

// Online reports whether task writes can go straight to Postgres.
// Redis only carries caches and sessions, so it does not count.
func (s Status) Online() bool {
	return s.PostgreSQL
}
