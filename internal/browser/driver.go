// Package browser is the narrow capability the portal automation needs from a
// web browser: navigate, find elements by fixed selectors, type, click, wait,
// and report a fake GPS position.
package browser

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

type selectorKind int

const (
	byXPath selectorKind = iota
	byID
	byClass
	byName
)

// Selector addresses one element on the page.
type Selector struct {
	kind  selectorKind
	value string
}

func XPath(expr string) Selector  { return Selector{kind: byXPath, value: expr} }
func ID(id string) Selector       { return Selector{kind: byID, value: id} }
func Class(names string) Selector { return Selector{kind: byClass, value: names} }
func Name(name string) Selector   { return Selector{kind: byName, value: name} }

func (s Selector) IsXPath() bool { return s.kind == byXPath }

// CSS renders non-XPath selectors. Ids and names are matched as attributes so
// that values with brackets stay valid.
func (s Selector) CSS() string {
	switch s.kind {
	case byID:
		return `[id=` + quote(s.value) + `]`
	case byName:
		return `[name=` + quote(s.value) + `]`
	case byClass:
		return "." + strings.Join(strings.Fields(s.value), ".")
	}
	return s.value
}

func (s Selector) String() string {
	if s.IsXPath() {
		return s.value
	}
	return s.CSS()
}

// locateJS evaluates to the element or null.
func (s Selector) locateJS() string {
	if s.IsXPath() {
		return `document.evaluate(` + quote(s.value) +
			`, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`
	}
	return `document.querySelector(` + quote(s.CSS()) + `)`
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

type Driver interface {
	Navigate(url string) error
	Click(sel Selector) error
	SendKeys(sel Selector, keys string) error
	WaitEnabled(sel Selector, timeout time.Duration) error
	WaitVisible(sel Selector, timeout time.Duration) error
	// SelectOptions returns the visible text of every option of a <select>.
	SelectOptions(sel Selector) ([]string, error)
	SelectByText(sel Selector, text string) error
	SelectByValue(sel Selector, value string) error
	GrantGeolocation(origin string) error
	SetGeolocation(lat, lon, accuracy float64) error
	Close() error
}

// Launcher starts a fresh, isolated browser session. Cancelling ctx tears the
// session down.
type Launcher interface {
	Launch(ctx context.Context) (Driver, error)
}
