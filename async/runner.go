// Async provides tools for running work on Goroutines and collecting its outcome
// as a future.
package async

import (
	"fmt"
	"runtime/debug"
)

// PanicError is the value of an AsyncError whose function panicked instead of returning.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
}

// Go creates a go routine to run the specified function f and returns an AsyncError
// that is completed with f's result once f returns.
//
// A panic inside f does not take down the process; it completes the AsyncError
// with a *PanicError instead, so the caller decides whether it is fatal.
//
//	done := async.Go(func() error { return sim.Emulate(ctx, params) })
//	select {
//	case <-done.Done():
//	  return done.Wait()
//	case <-timer.C:
//	  // abandon
//	}
func Go(f func() error) *AsyncError {
	asyncErr := NewAsyncError()
	go func(rsp *AsyncError) {
		rsp.SetValue(Call(f))
	}(asyncErr)
	return asyncErr
}

// Call runs f on the calling goroutine, converting a panic into a *PanicError.
func Call(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return f()
}
