package mizuvoapi

import "github.com/xyproto/env/v2"

// These switches are used in various places in the mizuvo implementation.
// Instead of defining them in each file, we define them here so that we can
// quickly iterate on debugging without spending "where do we have debug
// logging?" time.

// ----- Debug logging -----
// Logging is off unless the corresponding environment variable is set, so a
// stuck compilation can be inspected without rebuilding.

var (
	RegAllocLoggingEnabled = env.Bool("MIZU_REGALLOC_LOGGING")
)

// ----- Validations -----
// These consts must be enabled by default until we reach the point where we
// can disable them (e.g. multiple days of fuzzing passes).

const (
	RegAllocValidationEnabled = true
)
