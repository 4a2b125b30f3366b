// Package async runs work off the owning context and delivers its outcome
// back onto that context.
//
// The owning context is whatever single goroutine holds presentation state:
// a CLI loop, a bubbletea program, a test. It is represented by a Dispatcher.
// Run starts each unit of work on its own goroutine and hands exactly one
// callback to the Dispatcher when the work ends:
//
//	loop := async.NewLoop(16)
//	async.Run(loop, func() ([]dnf.Package, error) {
//	    return client.Search(ctx, "vim")
//	}, showResults, showError)
//	loop.RunOnce(ctx)
//
// There is no cancellation. Callers that may receive stale results hold a
// Gate token and compare it on delivery.
package async
