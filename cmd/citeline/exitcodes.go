package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, invalid paths)
	ExitDataError   = 3 // Data error (malformed input, unreadable PDF)
	ExitRateLimited = 4 // External API rate limit exhausted
	ExitNotFound    = 5 // Reference could not be resolved
)
