package listing

import (
	"sync"
	"time"

	"github.com/eringen/mdblog/debounce"
)

// DefaultSearchDelay is the quiet period before typed input is applied.
const DefaultSearchDelay = 300 * time.Millisecond

// Search is the search box. Typing is debounced; confirming or clearing
// applies immediately.
type Search struct {
	filter func(term string)
	deb    *debounce.Debouncer

	mu    sync.Mutex
	value string
}

// NewSearch returns a search box that calls filter with the term to apply. A
// non-positive delay selects DefaultSearchDelay.
func NewSearch(filter func(term string), delay time.Duration) *Search {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	return &Search{
		filter: filter,
		deb:    debounce.New(delay),
	}
}

// Input sets the box's text and schedules a filter run.
func (s *Search) Input(v string) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()

	s.deb.Trigger(func() { s.filter(v) })
}

// Confirm drops any scheduled run and filters with the current text now.
func (s *Search) Confirm() {
	s.deb.Cancel()
	s.filter(s.Value())
}

// Clear empties the box and filters with no term now.
func (s *Search) Clear() {
	s.deb.Cancel()
	s.mu.Lock()
	s.value = ""
	s.mu.Unlock()
	s.filter("")
}

// Value returns the box's text.
func (s *Search) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Pending reports whether a filter run is scheduled.
func (s *Search) Pending() bool {
	return s.deb.Pending()
}

// Close drops any scheduled run.
func (s *Search) Close() {
	s.deb.Cancel()
}
