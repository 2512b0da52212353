// Package task provides the type-erased callable, the statically-typed
// task/continuation composition algebra, the when_all fan-in combinator,
// and a one-shot future bridge used to drive an embeddable task-graph
// execution engine.
//
// A Task[R] is a single-use producer of a value of type R. A continuation
// runs after the task completes, either inline on the same goroutine (a
// plain callable attached with Then) or by enqueuing a new ErasedTask on
// another Executor (a ScheduledContinuation attached with ThenSchedule).
// See ErasedTask for the single-shot handle that carries a task once it is
// handed to an Executor.
package task
