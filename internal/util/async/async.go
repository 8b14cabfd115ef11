// Package async runs a set of named tasks concurrently and reports the
// first failure after every task has finished.
package async

import (
	"context"
	"fmt"
)

// Task is a named operation to run concurrently with others.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel starts all tasks at once and waits for every one to complete.
// The first error encountered is returned, wrapped with the task name.
func RunParallel(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	type result struct {
		name string
		err  error
	}

	results := make(chan result, len(tasks))
	for _, task := range tasks {
		go func() {
			results <- result{name: task.Name, err: task.Func(ctx)}
		}()
	}

	var firstErr error
	for range len(tasks) {
		res := <-results
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s failed: %w", res.name, res.err)
		}
	}
	return firstErr
}
