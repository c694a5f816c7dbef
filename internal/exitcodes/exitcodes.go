package exitcodes

// Process exit codes.
const (
	Success = 0
	Failure = 1
	// PartialFailure is only used with --strict when some downloads failed.
	PartialFailure = 2
)
