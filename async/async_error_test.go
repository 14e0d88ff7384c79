package async

import (
	"errors"
	"testing"
	"time"
)

func completed(e *AsyncError) bool {
	select {
	case <-e.Done():
		return true
	default:
		return false
	}
}

// Verify that an uncompleted AsyncError is still pending
func TestAsyncError_NotCompleted(t *testing.T) {
	err := NewAsyncError()
	if completed(err) {
		t.Error("Expected Done to be open for uncompleted AsyncError")
	}
}

// Verify that a completed AsyncError returns the supplied error it was completed with
func TestAsyncError_Completed(t *testing.T) {
	err := NewAsyncError()
	testErr := errors.New("Test Error!")
	err.SetValue(testErr)

	if !completed(err) {
		t.Error("Expected Done to be closed for completed AsyncError")
	}
	if retErr := err.Wait(); retErr != testErr {
		t.Errorf("Expected returned error {%v} to be the same as SetValue error {%v}", retErr, testErr)
	}

	// verify it can be called multiple times, and returns the result
	if err.Wait() != testErr {
		t.Error("Expected calling Wait again to return the completed value")
	}
}

func TestAsyncError_CallingSetValueMoreThanOncePanics(t *testing.T) {
	err := NewAsyncError()
	err.SetValue(nil)

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected calling SetValue twice to cause a panic")
		}
	}()
	err.SetValue(nil)
}

func TestGo_CompletesWithResult(t *testing.T) {
	release := make(chan struct{})
	done := Go(func() error {
		<-release
		return errors.New("finished")
	})

	if completed(done) {
		t.Fatal("Expected AsyncError to be pending before the function returns")
	}
	close(release)

	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for AsyncError to complete")
	}
	if err := done.Wait(); err == nil || err.Error() != "finished" {
		t.Errorf("Expected 'finished', got %v", err)
	}
}

func TestGo_RecoversPanic(t *testing.T) {
	done := Go(func() error {
		panic("boom")
	})
	err := done.Wait()
	pe, ok := err.(*PanicError)
	if !ok {
		t.Fatalf("Expected *PanicError, got %T: %v", err, err)
	}
	if pe.Value != "boom" {
		t.Errorf("Expected panic value 'boom', got %v", pe.Value)
	}
}
