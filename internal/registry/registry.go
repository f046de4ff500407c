// Package registry holds the canonical table of verification methods: how
// much each contributes to the trust score, how long a completion stays
// valid, and whether the intake flow can finish without it.
package registry

import (
	"fmt"
	"sort"
	"time"

	id "campustrust/pkg/domain"
)

// Method is one row of the registry. Weights are immutable once the registry
// is built; the same method counts once toward a score no matter how many
// times it is resubmitted.
type Method struct {
	ID id.Method

	// Weight is the number of points a verified, unexpired completion
	// contributes to the composite score.
	Weight int

	// Validity is how long a completion counts after completedAt.
	Validity time.Duration

	// Required marks methods the intake flow cannot be completed without.
	Required bool

	// Effort ranks relative completion effort (lower is easier). Used as the
	// tie-break when remediation candidates share a weight.
	Effort int
}

// Registry is the immutable method table. Build via New or Default.
type Registry struct {
	methods []Method
	byID    map[id.Method]Method
}

// Default returns the shipped method table.
//
// The weights here are an engineering default: the product sources carry two
// conflicting tables and the reconciliation is still an open product
// decision, so deployments override via New when the call is made.
func Default() *Registry {
	r, err := New([]Method{
		{ID: id.MethodUniversityEmail, Weight: 40, Validity: 365 * 24 * time.Hour, Required: true, Effort: 1},
		{ID: id.MethodStudentID, Weight: 30, Validity: 365 * 24 * time.Hour, Required: true, Effort: 3},
		{ID: id.MethodPhone, Weight: 15, Validity: 180 * 24 * time.Hour, Required: true, Effort: 2},
		{ID: id.MethodSocialMedia, Weight: 10, Validity: 365 * 24 * time.Hour, Required: false, Effort: 4},
		{ID: id.MethodLocation, Weight: 5, Validity: 90 * 24 * time.Hour, Required: false, Effort: 5},
	})
	if err != nil {
		// The default table is a compile-time constant; failing to build it
		// is a programming error.
		panic(err)
	}
	return r
}

// New validates and builds a registry from the given rows.
func New(methods []Method) (*Registry, error) {
	if len(methods) == 0 {
		return nil, fmt.Errorf("registry requires at least one method")
	}

	byID := make(map[id.Method]Method, len(methods))
	total := 0
	for _, m := range methods {
		if !m.ID.IsValid() {
			return nil, fmt.Errorf("unknown method %q", m.ID)
		}
		if _, dup := byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate method %q", m.ID)
		}
		if m.Weight <= 0 {
			return nil, fmt.Errorf("method %q: weight must be positive", m.ID)
		}
		if m.Validity <= 0 {
			return nil, fmt.Errorf("method %q: validity must be positive", m.ID)
		}
		byID[m.ID] = m
		total += m.Weight
	}

	// Weights must sum to at least the score ceiling so a full profile can
	// reach 100 even with some redundancy between methods.
	if total < 100 {
		return nil, fmt.Errorf("method weights sum to %d, need >= 100", total)
	}

	ordered := make([]Method, len(methods))
	copy(ordered, methods)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Required != ordered[j].Required {
			return ordered[i].Required
		}
		return ordered[i].Effort < ordered[j].Effort
	})

	return &Registry{methods: ordered, byID: byID}, nil
}

// Get returns the method row for the given ID.
func (r *Registry) Get(methodID id.Method) (Method, bool) {
	m, ok := r.byID[methodID]
	return m, ok
}

// All returns every method, required first, then by ascending effort.
func (r *Registry) All() []Method {
	out := make([]Method, len(r.methods))
	copy(out, r.methods)
	return out
}

// Required returns the methods the intake flow cannot finish without.
func (r *Registry) Required() []Method {
	var out []Method
	for _, m := range r.methods {
		if m.Required {
			out = append(out, m)
		}
	}
	return out
}

// Optional returns the skippable methods.
func (r *Registry) Optional() []Method {
	var out []Method
	for _, m := range r.methods {
		if !m.Required {
			out = append(out, m)
		}
	}
	return out
}

// TotalWeight returns the sum of all method weights.
func (r *Registry) TotalWeight() int {
	total := 0
	for _, m := range r.methods {
		total += m.Weight
	}
	return total
}
