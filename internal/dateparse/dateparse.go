// Package dateparse resolves natural-language date expressions
// ("yesterday", "3 days ago", "last monday") into absolute times for
// CLI flags that accept a human-friendly cutoff instead of a bare
// day count (spec.md §4.F archive() and tasks list() date filters).
package dateparse

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// Parse resolves text relative to now. An expression when recognizes
// nowhere in text (w.Parse's result is nil, not an error) is reported
// as an error here too, since every CLEO caller treats "couldn't
// understand the date" as INVALID_INPUT regardless of which way when
// signals it.
func Parse(text string, now time.Time) (time.Time, error) {
	r, err := parser.Parse(text, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("dateparse: parsing %q: %w", text, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("dateparse: could not understand %q", text)
	}
	return r.Time, nil
}
