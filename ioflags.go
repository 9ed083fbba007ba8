// SPDX-License-Identifier: GPL-3.0-or-later

package amqpeng

import "strings"

// IOFlags selects which I/O directions a single [*Engine.Process] call
// should attempt. Combine flags with bitwise OR.
type IOFlags int

const (
	// FlagRead requests a non-blocking read pass.
	FlagRead = IOFlags(1 << iota)

	// FlagWrite requests a non-blocking write pass.
	FlagWrite
)

// FlagReadWrite requests both directions and is the usual value
// passed to [*Engine.Process].
const FlagReadWrite = FlagRead | FlagWrite

// Has returns true when all the bits in flag are set in f.
func (f IOFlags) Has(flag IOFlags) bool {
	return f&flag == flag
}

// String returns a compact representation such as "read|write".
func (f IOFlags) String() string {
	var names []string
	if f.Has(FlagRead) {
		names = append(names, "read")
	}
	if f.Has(FlagWrite) {
		names = append(names, "write")
	}
	if len(names) <= 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
