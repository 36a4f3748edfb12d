package core

import "time"

// Now returns the current time in UTC. All computed artifacts are stamped
// with UTC so runs are comparable across machines.
func Now() time.Time {
	return time.Now().UTC()
}
