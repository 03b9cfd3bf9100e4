// Package task runs background work off the request path.
//
// A TaskRunner saves each task to a TaskStore before handing it to a
// bounded TaskQueue, and a WorkerPool executes queued tasks on a fixed
// number of goroutines, recording their status. Tasks that did not fit in
// the queue, or that were interrupted by a restart, stay in the store and
// are queued again by Recover at startup or RequeueStale on a schedule.
//
// The attempt log is the consumer: the learning service emits an attempt
// event, AttemptEventHandler turns it into an AttemptLogTask, and a worker
// writes it to the attempt store. Writes are idempotent on the attempt ID,
// so a task that runs twice logs one attempt.
package task
