// Package theme keeps the light/dark color theme: an explicit stored choice
// wins over the system preference until it is cleared.
package theme

import (
	"fmt"
	"sync"
)

// Theme is a color theme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// StorageKey is the preference store key of the explicit choice.
const StorageKey = "blog-theme"

// Attr is the root attribute carrying the applied theme.
const Attr = "data-theme"

// Parse returns the theme named s.
func Parse(s string) (Theme, bool) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), true
	}
	return "", false
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

func (t Theme) String() string { return string(t) }

// Store is a persistent key/value store for preferences.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Root is the element the theme is applied to.
type Root interface {
	SetAttr(name, value string)
}

// Logger receives store failures the controller recovers from.
type Logger interface {
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{}) {}

// Controller applies and persists the theme. The root is written without
// the controller's lock held, so attribute observers may call back into it.
type Controller struct {
	mu      sync.Mutex
	store   Store
	root    Root
	system  Theme
	current Theme
	log     Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for store failures.
func WithLogger(l Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// NewController applies the stored preference, or the system preference when
// nothing is stored. The initial application is not persisted.
func NewController(store Store, root Root, system Theme, opts ...Option) *Controller {
	if _, ok := Parse(string(system)); !ok {
		system = Light
	}
	c := &Controller{
		store:  store,
		root:   root,
		system: system,
		log:    nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.current = system
	if stored, ok := c.stored(); ok {
		c.current = stored
	}
	c.root.SetAttr(Attr, string(c.current))
	return c
}

// Current returns the applied theme.
func (c *Controller) Current() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Persisted reports whether an explicit choice is stored.
func (c *Controller) Persisted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.stored()
	return ok
}

// Set applies t and stores it as the explicit choice.
func (c *Controller) Set(t Theme) error {
	if _, ok := Parse(string(t)); !ok {
		return fmt.Errorf("theme: unknown theme %q", t)
	}
	c.mu.Lock()
	c.current = t
	err := c.store.Set(StorageKey, string(t))
	c.mu.Unlock()

	c.root.SetAttr(Attr, string(t))
	if err != nil {
		return fmt.Errorf("theme: persist: %w", err)
	}
	return nil
}

// Toggle switches to the opposite theme and stores it.
func (c *Controller) Toggle() (Theme, error) {
	next := c.Current().Opposite()
	return next, c.Set(next)
}

// SystemChanged records a new system preference. It is applied only while no
// explicit choice is stored.
func (c *Controller) SystemChanged(t Theme) {
	if _, ok := Parse(string(t)); !ok {
		return
	}
	c.mu.Lock()
	c.system = t
	if _, ok := c.stored(); ok {
		c.mu.Unlock()
		return
	}
	c.current = t
	c.mu.Unlock()

	c.root.SetAttr(Attr, string(t))
}

// Clear forgets the explicit choice and falls back to the system preference.
func (c *Controller) Clear() error {
	c.mu.Lock()
	if err := c.store.Delete(StorageKey); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("theme: clear: %w", err)
	}
	t := c.system
	c.current = t
	c.mu.Unlock()

	c.root.SetAttr(Attr, string(t))
	return nil
}

// stored returns the explicit choice. Unreadable or unknown values count as
// no choice.
func (c *Controller) stored() (Theme, bool) {
	v, ok, err := c.store.Get(StorageKey)
	if err != nil {
		c.log.Warnf("theme: read preference: %v", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	t, valid := Parse(v)
	if !valid {
		c.log.Warnf("theme: ignoring stored preference %q", v)
	}
	return t, valid
}
