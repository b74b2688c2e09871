// Package async provides helpers for running independent tasks in parallel.
package async

import "context"

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Result holds the outcome of a single task.
type Result struct {
	Name string
	Err  error
}

// RunParallelCollect executes tasks concurrently and returns every task's
// outcome. It never fails the batch: per-task errors are reported in the
// results and it is up to the caller to decide what a partial failure means.
// Used by the uploader, where one bad transfer must not abort its siblings.
func RunParallelCollect(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	resultChan := make(chan Result, len(tasks))
	for _, task := range tasks {
		go func() {
			resultChan <- Result{Name: task.Name, Err: task.Func(ctx)}
		}()
	}

	results := make([]Result, 0, len(tasks))
	for range len(tasks) {
		results = append(results, <-resultChan)
	}
	return results
}
