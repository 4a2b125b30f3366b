package async

import (
	"fmt"

	"github.com/obentoo/dnfkit/internal/common/logger"
)

// Run executes work on a new goroutine and delivers the outcome through d.
//
// On success onResult receives the value; on an error or a panic onError
// receives a text description. Exactly one of the two is dispatched, and
// neither is ever called on the worker goroutine. A nil callback means the
// corresponding outcome is discarded.
func Run[T any](d Dispatcher, work func() (T, error), onResult func(T), onError func(string)) {
	go func() {
		value, errText, failed := execute(work)

		if failed {
			if onError == nil {
				logger.Debug("Discarding task error: %s", errText)
				return
			}
			d.Dispatch(func() { onError(errText) })
			return
		}

		if onResult != nil {
			d.Dispatch(func() { onResult(value) })
		}
	}()
}

// execute calls work and converts errors and panics to text
func execute[T any](work func() (T, error)) (value T, errText string, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Task panicked: %v", r)
			var zero T
			value, errText, failed = zero, fmt.Sprintf("%v", r), true
		}
	}()

	value, err := work()
	if err != nil {
		return value, err.Error(), true
	}
	return value, "", false
}
