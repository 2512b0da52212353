// Package worker provides WorkerThread, a goroutine bound to a swappable
// WorkSource, and the helpers that wire a bank of WorkerThreads to a
// task.Executor such as queue.MultiQueue.
//
// WorkerThread is a long-lived worker loop that repeatedly pulls from its
// current WorkSource, invoking whatever ErasedTask it returns, and falls
// back to yielding the processor when the source has nothing queued.
// WorkFor lets the caller hot-swap the WorkSource a running worker pulls
// from; Join stops the worker and waits for it to exit.
//
// Pool layers a Start/Shutdown lifecycle on top of a bank of
// WorkerThreads; Shutdown joins them through an errgroup.Group.
package worker
