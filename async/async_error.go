package async

// AsyncError is an async value that will eventually return an error
// It is similar to a Promise/Future which returns an error
// The value is supplied by calling SetValue.
// Once the value is supplied AsyncError is considered completed
// The value can be retrieved once AsyncError is completed via Wait,
// and Done can be used to select on completion alongside other channels.
type AsyncError struct {
	doneCh chan struct{}
	val    error
}

func NewAsyncError() *AsyncError {
	return &AsyncError{
		doneCh: make(chan struct{}),
	}
}

// Sets the value for the AsyncError.  Marks AsyncError as Completed or Fulfilled.
// This method should only ever be called once per AsyncError instance.
// Calling this method more than once will panic
func (e *AsyncError) SetValue(err error) {
	e.val = err
	close(e.doneCh)
}

// Done returns a channel that is closed once the AsyncError is completed.
func (e *AsyncError) Done() <-chan struct{} {
	return e.doneCh
}

// Wait blocks until the AsyncError is completed and returns its value.
func (e *AsyncError) Wait() error {
	<-e.doneCh
	return e.val
}
