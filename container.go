// SPDX-License-Identifier: GPL-3.0-or-later

package amqpeng

import (
	"strconv"

	"github.com/bassosimone/runtimex"
	"github.com/google/uuid"
)

// Container is a factory producing per-engine options for engines
// sharing a logical AMQP endpoint identity.
//
// A container typically lives for the whole application. Its identity is
// immutable after construction; its default options template is mutable
// via [*Container.SetOptions].
//
// A container is not safe for concurrent use: callers sharing one
// container across goroutines must serialize [*Container.MakeOptions]
// and [*Container.SetOptions], since the prefix counter is mutable.
type Container struct {
	// counter numbers the link prefixes handed out so far.
	counter uint64

	// defaults is the template merged into produced options.
	defaults Options

	// id is the immutable container identity.
	id string
}

// NewContainer creates a [*Container] with the given identity. An empty
// id is replaced by a randomly generated globally-unique identity.
//
// This function panics if the system random number generator fails,
// which should only happen under extraordinary circumstances.
func NewContainer(id string) *Container {
	if id == "" {
		id = runtimex.PanicOnError1(uuid.NewRandom()).String()
	}
	return &Container{id: id}
}

// ID returns the container identity, unchanged for the container's
// lifetime.
func (c *Container) ID() string {
	return c.id
}

// MakeOptions produces the options for constructing a new engine.
//
// Call MakeOptions once per engine: every call embeds a freshly
// generated link-name prefix derived from an internal counter combined
// with the container id, so no two engines sharing this container ever
// collide on generated link names. The stored defaults are merged in by
// value; options already produced are unaffected by later
// [*Container.SetOptions] calls.
func (c *Container) MakeOptions() Options {
	c.counter++
	opts := c.defaults.Clone()
	opts.ContainerID = c.id
	opts.LinkPrefix = c.id + "/" + strconv.FormatUint(c.counter, 10)
	return opts
}

// SetOptions replaces the default options template used by future
// [*Container.MakeOptions] calls. The identity fields of the template
// are ignored: MakeOptions always stamps its own ContainerID and
// LinkPrefix.
func (c *Container) SetOptions(defaults Options) {
	c.defaults = defaults.Clone()
}
