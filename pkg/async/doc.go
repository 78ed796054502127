// Package async provides a minimal future primitive for fan-out/fan-in
// execution of independent tasks.
//
// Async launches a function on its own goroutine and returns a Future that
// settles exactly once. WaitSettled is the aggregation side: it awaits every
// future regardless of individual failures, so a batch of concurrently
// launched tasks always produces a full, launch-ordered result set plus the
// joined errors. This "settle everything" contract is what distinguishes it
// from errgroup-style helpers that stop at the first failure.
//
// # Usage
//
//	futures := make([]*async.Future[int], len(jobs))
//	for i, job := range jobs {
//	    futures[i] = async.Async(ctx, job, process)
//	}
//	results, err := async.WaitSettled(futures...)
//
// # Concurrency
//
// A Future is settled by exactly one goroutine and may be awaited by any
// number of goroutines. There is no cancellation of a launched task beyond
// the context handed to it; WaitSettled blocks until every task returns.
package async
