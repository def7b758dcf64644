package dom

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrNoElement is returned when writing to an element that was never resolved
var ErrNoElement = errors.New("element not found")

// Document resolves element identifiers to elements
type Document interface {
	// Element returns the element with the given id, or nil when absent.
	Element(id string) *Element
}

// Element is an identified region of the page. It holds either a user
// editable value (inputs) or display text (targets), and can carry click
// listeners (controls). All methods are safe on a nil receiver.
type Element struct {
	id   string
	page *Page

	mu        sync.Mutex
	value     string
	text      string
	listeners map[int]func()
	nextID    int
}

// ID returns the element identifier
func (e *Element) ID() string {
	if e == nil {
		return ""
	}
	return e.id
}

// Value returns the current input value
func (e *Element) Value() (string, error) {
	if e == nil {
		return "", ErrNoElement
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, nil
}

// SetValue replaces the input value
func (e *Element) SetValue(v string) error {
	if e == nil {
		return ErrNoElement
	}
	e.mu.Lock()
	e.value = v
	e.mu.Unlock()
	e.page.notify(e.id)
	return nil
}

// Text returns the current text content
func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

// SetText overwrites the text content
func (e *Element) SetText(s string) error {
	if e == nil {
		return ErrNoElement
	}
	e.mu.Lock()
	e.text = s
	e.mu.Unlock()
	e.page.notify(e.id)
	return nil
}

// AddListener registers fn to run on every click and returns a function
// that removes it again.
func (e *Element) AddListener(fn func()) (func(), error) {
	if e == nil {
		return nil, ErrNoElement
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[int]func())
	}
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.listeners, id)
			e.mu.Unlock()
		})
	}, nil
}

// Listeners returns the number of registered click listeners
func (e *Element) Listeners() int {
	if e == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Click runs every registered listener in registration order
func (e *Element) Click() error {
	if e == nil {
		return ErrNoElement
	}
	e.mu.Lock()
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	fns := make([]func(), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, e.listeners[id])
	}
	e.mu.Unlock()

	// Listeners run outside the lock so they may touch the element again
	for _, fn := range fns {
		fn()
	}
	return nil
}

// Page is an in-memory document holding a fixed set of elements
type Page struct {
	mu       sync.RWMutex
	elements map[string]*Element
	watchers []func(id string)
}

// NewPage creates a page containing an element for every id
func NewPage(ids ...string) *Page {
	p := &Page{elements: make(map[string]*Element, len(ids))}
	for _, id := range ids {
		p.elements[id] = &Element{id: id, page: p}
	}
	return p
}

// Element implements Document
func (p *Page) Element(id string) *Element {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.elements[id]
}

// Value returns the value of an input, failing when it does not exist
func (p *Page) Value(id string) (string, error) {
	v, err := p.Element(id).Value()
	if err != nil {
		return "", fmt.Errorf("%s: %w", id, err)
	}
	return v, nil
}

// SetValue sets the value of an input
func (p *Page) SetValue(id, v string) error {
	if err := p.Element(id).SetValue(v); err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	return nil
}

// Text returns the text content of an element ("" when absent)
func (p *Page) Text(id string) string {
	return p.Element(id).Text()
}

// Click fires the click listeners of a control
func (p *Page) Click(id string) error {
	if err := p.Element(id).Click(); err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	return nil
}

// OnChange registers fn to be called with the element id after every value
// or text change. fn runs on the goroutine that made the change.
func (p *Page) OnChange(fn func(id string)) {
	p.mu.Lock()
	p.watchers = append(p.watchers, fn)
	p.mu.Unlock()
}

func (p *Page) notify(id string) {
	if p == nil {
		return
	}
	p.mu.RLock()
	watchers := append([]func(string){}, p.watchers...)
	p.mu.RUnlock()
	for _, fn := range watchers {
		fn(id)
	}
}
