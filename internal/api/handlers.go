package api

import "time"

type Handlers struct {
	deps *Dependencies
	now  func() time.Time
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
		now:  time.Now,
	}
}
