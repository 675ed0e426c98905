// Package naming implements the two disjoint filename families the
// engine recognizes in its working directory: "current-<N>.bin" for the
// in-progress append-only file, and "finalized-<N>.bin" for sealed files
// awaiting dispatch. N is the creation timestamp (Unix nanoseconds),
// zero-padded to a fixed width so lexicographic order equals numeric
// order — the same convention the teacher's segment package uses for its
// base-offset filenames, adapted here to two families and to timestamps
// rather than monotonic offsets.
package naming

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Width is the number of decimal digits embedded in a filename. 20
// digits comfortably bounds a uint64 nanosecond timestamp for the
// lifetime of the system, matching spec.md §6's "zero-padded to a fixed
// width >= 20 digits" requirement.
const Width = 20

// Family distinguishes in-progress from sealed filenames.
type Family int

const (
	// Current identifies "current-<N>.bin" filenames.
	Current Family = iota
	// Finalized identifies "finalized-<N>.bin" filenames.
	Finalized
)

const suffix = ".bin"

func prefix(f Family) string {
	if f == Current {
		return "current-"
	}
	return "finalized-"
}

// Timestamp returns the embedded timestamp as Unix nanoseconds, the
// engine's canonical timestamp representation for filenames.
type Timestamp = int64

// ToTimestamp converts a time.Time to the filename's timestamp unit.
func ToTimestamp(t time.Time) Timestamp { return t.UnixNano() }

// FromTimestamp converts a filename timestamp back to a time.Time.
func FromTimestamp(ts Timestamp) time.Time { return time.Unix(0, ts) }

// Generate produces a filename for the given family and timestamp.
func Generate(f Family, ts Timestamp) string {
	return fmt.Sprintf("%s%0*d%s", prefix(f), Width, ts, suffix)
}

// Parse strictly validates that name belongs to family f — correct
// prefix, correct zero-padded width, correct suffix, and round-trips
// through Generate — and returns its embedded timestamp. Any other
// shape is rejected rather than tolerated, per spec.md §4.B.
func Parse(f Family, name string) (Timestamp, bool) {
	p := prefix(f)
	if !strings.HasPrefix(name, p) || !strings.HasSuffix(name, suffix) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, p), suffix)
	if len(digits) != Width {
		return 0, false
	}
	ts, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	if Generate(f, ts) != name {
		return 0, false
	}
	return ts, true
}

// ParseAny tries both families and reports which one matched, if any.
// Used by RemoveAllFiles, which must match both families while ignoring
// files with unrecognized names.
func ParseAny(name string) (f Family, ts Timestamp, ok bool) {
	if ts, ok := Parse(Current, name); ok {
		return Current, ts, true
	}
	if ts, ok := Parse(Finalized, name); ok {
		return Finalized, ts, true
	}
	return 0, 0, false
}

// Bump returns the next representable timestamp strictly greater than
// ts. Used to resolve a seal-rename collision (spec.md §4.E step 5): the
// appender and recovery retry the rename once with the bumped timestamp
// and report a second collision as an error. No backwards clock skew is
// detected here, so a sealed name that sorts before existing sealed
// names is not prevented.
func Bump(ts Timestamp) Timestamp { return ts + 1 }
