// Package action defines the scheduler's unit of work: the Action interface,
// its static Descriptor, and the Input/Output shapes actions exchange with
// the executor.
package action

import "reflect"

// Interest names a lifecycle event an action wants to observe, independent
// of its normal data-driven invocations.
type Interest int

const (
	// InterestSubmit fires once per item submitted to the scheduler, for
	// every action that declared it, regardless of whether that action is
	// reachable from the submission's source node. Outputs from a Submit
	// invocation are discarded by the executor; this is an observation-only
	// hook, not a data path.
	InterestSubmit Interest = iota
)

// DefaultConcurrency is the per-action concurrency cap applied when a
// Descriptor does not set one explicitly.
const DefaultConcurrency = 8

// Descriptor is an action's static metadata: a type identity used to
// deduplicate sources of the same logical input type, a concurrency cap, the
// Flush property, and a set of lifecycle interests.
type Descriptor struct {
	// Type identifies the logical payload type this action's descriptor
	// represents, used by the graph builder to deduplicate sources.
	Type reflect.Type

	// Concurrency bounds how many invocations of this action may be
	// in-flight at once. Zero means DefaultConcurrency.
	Concurrency int

	// Flush, when true, discards the owning frontier once this action
	// completes rather than letting it linger for further emissions under
	// the same id.
	Flush bool

	// Interests lists the lifecycle events this action wants delivered as
	// Signal inputs in addition to its normal data-driven invocations.
	Interests []Interest
}

// concurrency returns d.Concurrency, or DefaultConcurrency if unset.
func (d Descriptor) concurrency() int {
	if d.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return d.Concurrency
}

// ConcurrencyLimit is the effective cap, applying the default when unset.
func (d Descriptor) ConcurrencyLimit() int { return d.concurrency() }

// WantsInterest reports whether d subscribes to the given interest.
func (d Descriptor) WantsInterest(i Interest) bool {
	for _, want := range d.Interests {
		if want == i {
			return true
		}
	}
	return false
}

// DescriptorFor builds a Descriptor carrying the type identity of sample,
// with default concurrency and no flush/interests. Callers adjust fields on
// the returned value before registering the action.
func DescriptorFor(sample any) Descriptor {
	return Descriptor{Type: reflect.TypeOf(sample), Concurrency: DefaultConcurrency}
}
