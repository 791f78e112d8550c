// Package ruler implements the dependency-ordered rule chain shared by the
// block and inline tokenizers: a Ruler collects named (mark, payload) rule
// entries with before/after constraints and compiles them, once, into a
// cheap-to-iterate linear order.
package ruler

import (
	"fmt"
	"sort"
)

// Mark identifies a rule for dependency resolution and removal. Two rules
// may share an alias (see Entry.Aliases) but a Mark used as a primary name
// must be unique within a Ruler.
type Mark = string

// Priority controls where a rule lands in the initial seed order, before
// before/after constraints are applied.
type Priority int

// Priority values, lowest index first in the seed order.
const (
	BeforeAll Priority = iota
	Normal
	AfterAll
)

// Entry is one rule registration: a mark, its payload, and its ordering
// constraints relative to other marks.
type Entry[Payload any] struct {
	Mark     Mark
	Payload  Payload
	Priority Priority
	Before   []Mark
	After    []Mark
	Require  []Mark
	Aliases  []Mark
	Disabled bool
}

// Ruler collects rule entries and compiles them into a linear order on
// first use. Any mutation (Push, Last, RemoveByMark, Enable) invalidates
// the cached compiled order.
type Ruler[Payload any] struct {
	entries  []Entry[Payload]
	compiled []Payload
	dirty    bool
}

// Push appends a new rule entry. It does not validate constraints; that
// happens lazily at Compile time.
func (r *Ruler[Payload]) Push(e Entry[Payload]) {
	r.entries = append(r.entries, e)
	r.dirty = true
}

// Last returns a pointer to the most recently pushed entry, so a
// RuleBuilder-style wrapper can keep refining its before/after
// constraints after registration. Any write through it invalidates the
// compiled cache.
func (r *Ruler[Payload]) Last() *Entry[Payload] {
	r.dirty = true
	return &r.entries[len(r.entries)-1]
}

// Contains reports whether a rule with the given mark (primary or alias)
// is registered.
func (r *Ruler[Payload]) Contains(mark Mark) bool {
	_, ok := r.find(mark)
	return ok
}

// Len returns the number of registered entries, disabled or not.
func (r *Ruler[Payload]) Len() int { return len(r.entries) }

// RemoveByMark removes every entry whose primary Mark (not alias) equals
// mark. Returns the number removed.
func (r *Ruler[Payload]) RemoveByMark(mark Mark) int {
	out := r.entries[:0]
	n := 0
	for _, e := range r.entries {
		if e.Mark == mark {
			n++
			continue
		}
		out = append(out, e)
	}
	r.entries = out
	if n > 0 {
		r.dirty = true
	}
	return n
}

// Enable turns the first entry with the given primary mark on or off for
// Compile without removing it from the registration list. Returns false if
// no entry has that mark.
func (r *Ruler[Payload]) Enable(mark Mark, enabled bool) bool {
	for i := range r.entries {
		if r.entries[i].Mark == mark {
			r.entries[i].Disabled = !enabled
			r.dirty = true
			return true
		}
	}
	return false
}

func (r *Ruler[Payload]) find(mark Mark) (int, bool) {
	for i, e := range r.entries {
		if e.Mark == mark {
			return i, true
		}
		for _, a := range e.Aliases {
			if a == mark {
				return i, true
			}
		}
	}
	return 0, false
}

// ConfigError reports a fatal rule-chain configuration problem: a cyclic
// dependency or a missing required rule. It is a programming error, never
// a parse-time failure, and callers should treat it as fatal.
type ConfigError struct {
	Reason string
	Marks  []Mark
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ruler: %s: %v", e.Reason, e.Marks)
}

// Compile resolves before/after/require constraints into a linear order
// and caches the result. Subsequent calls are free until the next
// mutation. Panics with a *ConfigError on a missing require or a cyclic
// dependency, per spec: this is a fatal programming error, not a user
// input error.
func (r *Ruler[Payload]) Compile() []Payload {
	if !r.dirty && r.compiled != nil {
		return r.compiled
	}

	active := make([]int, 0, len(r.entries))
	for i, e := range r.entries {
		if !e.Disabled {
			active = append(active, i)
		}
	}

	// seed order: BeforeAll first, then Normal in registration order, then
	// AfterAll last.
	sort.SliceStable(active, func(a, b int) bool {
		return r.entries[active[a]].Priority < r.entries[active[b]].Priority
	})

	// require: every named mark must exist and be active.
	for _, i := range active {
		for _, req := range r.entries[i].Require {
			if j, ok := r.find(req); !ok || r.entries[j].Disabled {
				panic(&ConfigError{Reason: "missing required rule", Marks: []Mark{req}})
			}
		}
	}

	pos := make(map[int]int, len(active))
	for p, i := range active {
		pos[i] = p
	}

	// predecessors[i] = set of active indices that must emit before i.
	predecessors := make(map[int]map[int]bool, len(active))
	for _, i := range active {
		predecessors[i] = map[int]bool{}
	}
	addEdge := func(before, after int) {
		// before must emit before after
		predecessors[after][before] = true
	}
	for _, i := range active {
		e := r.entries[i]
		for _, m := range e.Before {
			if j, ok := r.find(m); ok {
				if _, isActive := pos[j]; isActive {
					addEdge(i, j)
				}
			}
		}
		for _, m := range e.After {
			if j, ok := r.find(m); ok {
				if _, isActive := pos[j]; isActive {
					addEdge(j, i)
				}
			}
		}
	}

	remaining := make(map[int]bool, len(active))
	for _, i := range active {
		remaining[i] = true
	}

	order := make([]int, 0, len(active))
	for len(remaining) > 0 {
		emitted := false
		for _, i := range active {
			if !remaining[i] {
				continue
			}
			ready := true
			for p := range predecessors[i] {
				if remaining[p] {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
			order = append(order, i)
			delete(remaining, i)
			emitted = true
			break
		}
		if !emitted {
			cycle := make([]Mark, 0, len(remaining))
			for i := range remaining {
				cycle = append(cycle, r.entries[i].Mark)
			}
			sort.Strings(cycle)
			panic(&ConfigError{Reason: "cyclic rule dependency", Marks: cycle})
		}
	}

	out := make([]Payload, 0, len(order))
	for _, i := range order {
		out = append(out, r.entries[i].Payload)
	}
	r.compiled = out
	r.dirty = false
	return out
}
