// SPDX-License-Identifier: GPL-3.0-or-later

package amqpeng

// Options is the bag of named settings passed by value into engine
// construction. The engine copies the options in and forwards them once
// to the protocol core; it interprets nothing beyond the identity fields.
//
// Obtain Options from [*Container.MakeOptions] so that the identity
// fields carry a globally unique link-name prefix. You may adjust the
// non-identity fields before constructing the engine but you should not
// modify ContainerID or LinkPrefix.
type Options struct {
	// ContainerID is the identity of the [*Container] that produced
	// these options.
	//
	// Set by [*Container.MakeOptions].
	ContainerID string

	// LinkPrefix is a uniqueness token embedded in generated link
	// names to prevent collisions across engines sharing one
	// container identity.
	//
	// Set by [*Container.MakeOptions]; distinct for every call.
	LinkPrefix string

	// Extra holds arbitrary transport, security and application
	// settings passed through opaquely to the protocol core.
	Extra map[string]any
}

// Clone returns a copy of the options with its own Extra map, so that
// later mutation of either copy never aliases the other.
func (o Options) Clone() Options {
	clone := o
	if o.Extra != nil {
		clone.Extra = make(map[string]any, len(o.Extra))
		for key, value := range o.Extra {
			clone.Extra[key] = value
		}
	}
	return clone
}
