package task

import "sync/atomic"

// jointContinuation2 is the shared fan-in rendezvous for WhenAll2: an
// Executor reference, the joiner, a slot per input, and an atomic arrival
// counter. The joiner runs exactly once, after the counter transitions
// from N-1 to N, on the referenced Executor.
//
// Slot writes happen-before the arrival-counter increment that publishes
// them (each slot is written by exactly one goroutine, then that same
// goroutine increments the shared counter); the goroutine whose increment
// observes the transition to N is the unique one that reads every slot and
// submits the joiner. Go's memory model gives atomic.Int32.Add the same
// synchronizes-with guarantee a mutex or channel handoff would.
type jointContinuation2[T1, T2 any] struct {
	executor Executor
	joiner   func(T1, T2)
	arrived  atomic.Int32
	v1       T1
	v2       T2
}

func (jc *jointContinuation2[T1, T2]) deliver1(v T1) {
	jc.v1 = v
	if jc.arrived.Add(1) == 2 {
		jc.run()
	}
}

func (jc *jointContinuation2[T1, T2]) deliver2(v T2) {
	jc.v2 = v
	if jc.arrived.Add(1) == 2 {
		jc.run()
	}
}

func (jc *jointContinuation2[T1, T2]) run() {
	v1, v2, joiner := jc.v1, jc.v2, jc.joiner
	jc.executor.RunTask(From(func() { joiner(v1, v2) }))
}

// WhenAll2 collects two typed producers. After both have executed and
// delivered their results, joiner runs exactly once on executor with both
// values, positionally matched to the producers regardless of completion
// order. The returned producers must each be submitted to some Executor by
// the caller, exactly once; Task's own single-shot Run guard keeps the
// arrival counter from overrunning even if a caller mishandles that.
func WhenAll2[T1, T2 any](joiner func(T1, T2), executor Executor, p1 Task[T1], p2 Task[T2]) (Task[T1], Task[T2]) {
	jc := &jointContinuation2[T1, T2]{executor: executor, joiner: joiner}
	return p1.Then(jc.deliver1), p2.Then(jc.deliver2)
}

type jointContinuation3[T1, T2, T3 any] struct {
	executor Executor
	joiner   func(T1, T2, T3)
	arrived  atomic.Int32
	v1       T1
	v2       T2
	v3       T3
}

func (jc *jointContinuation3[T1, T2, T3]) deliver1(v T1) {
	jc.v1 = v
	jc.arrive()
}

func (jc *jointContinuation3[T1, T2, T3]) deliver2(v T2) {
	jc.v2 = v
	jc.arrive()
}

func (jc *jointContinuation3[T1, T2, T3]) deliver3(v T3) {
	jc.v3 = v
	jc.arrive()
}

func (jc *jointContinuation3[T1, T2, T3]) arrive() {
	if jc.arrived.Add(1) == 3 {
		v1, v2, v3, joiner := jc.v1, jc.v2, jc.v3, jc.joiner
		jc.executor.RunTask(From(func() { joiner(v1, v2, v3) }))
	}
}

// WhenAll3 is WhenAll2's three-producer sibling, supporting both a
// homogeneous sum of same-typed producers and a mix of differently typed
// ones.
func WhenAll3[T1, T2, T3 any](
	joiner func(T1, T2, T3), executor Executor,
	p1 Task[T1], p2 Task[T2], p3 Task[T3],
) (Task[T1], Task[T2], Task[T3]) {
	jc := &jointContinuation3[T1, T2, T3]{executor: executor, joiner: joiner}
	return p1.Then(jc.deliver1), p2.Then(jc.deliver2), p3.Then(jc.deliver3)
}

type jointContinuation4[T1, T2, T3, T4 any] struct {
	executor Executor
	joiner   func(T1, T2, T3, T4)
	arrived  atomic.Int32
	v1       T1
	v2       T2
	v3       T3
	v4       T4
}

func (jc *jointContinuation4[T1, T2, T3, T4]) deliver1(v T1) { jc.v1 = v; jc.arrive() }
func (jc *jointContinuation4[T1, T2, T3, T4]) deliver2(v T2) { jc.v2 = v; jc.arrive() }
func (jc *jointContinuation4[T1, T2, T3, T4]) deliver3(v T3) { jc.v3 = v; jc.arrive() }
func (jc *jointContinuation4[T1, T2, T3, T4]) deliver4(v T4) { jc.v4 = v; jc.arrive() }

func (jc *jointContinuation4[T1, T2, T3, T4]) arrive() {
	if jc.arrived.Add(1) == 4 {
		v1, v2, v3, v4, joiner := jc.v1, jc.v2, jc.v3, jc.v4, jc.joiner
		jc.executor.RunTask(From(func() { joiner(v1, v2, v3, v4) }))
	}
}

// WhenAll4 is the four-producer fan-in. Additional arities follow the
// identical pattern (one jointContinuationN type plus one WhenAllN
// function); Go generics have no variadic type-parameter list, so these
// are generated by hand rather than from a single variadic definition.
func WhenAll4[T1, T2, T3, T4 any](
	joiner func(T1, T2, T3, T4), executor Executor,
	p1 Task[T1], p2 Task[T2], p3 Task[T3], p4 Task[T4],
) (Task[T1], Task[T2], Task[T3], Task[T4]) {
	jc := &jointContinuation4[T1, T2, T3, T4]{executor: executor, joiner: joiner}
	return p1.Then(jc.deliver1), p2.Then(jc.deliver2), p3.Then(jc.deliver3), p4.Then(jc.deliver4)
}
