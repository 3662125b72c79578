package assert

import (
	"log"
)

// That crashes the process when an internal invariant does not hold.
// Only for conditions that indicate a bug in this module, never for
// caller input.
func That(truth bool, format string, a ...any) {
	if !truth {
		log.Fatalf(format, a...)
	}
}
