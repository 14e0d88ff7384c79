package errors

type ExitCode int

const (
	// A simulation failed, or the sweep was interrupted while collecting results
	TaskFailureExitCode ExitCode = 1

	// Bad flags or config: partial job count range, malformed ratio, nothing to run
	UsageExitCode ExitCode = 2

	// Log layout or report files could not be written
	OutputFailureExitCode ExitCode = 74

	// Throughput table missing or unreadable
	ThroughputsLoadFailureExitCode ExitCode = 66
)
