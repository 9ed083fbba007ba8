// SPDX-License-Identifier: GPL-3.0-or-later

package amqpeng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Clone yields an independent Extra map.
func TestOptionsClone(t *testing.T) {
	opts := Options{
		ContainerID: "cid",
		LinkPrefix:  "cid/1",
		Extra:       map[string]any{"heartbeat": 10},
	}

	clone := opts.Clone()
	assert.Equal(t, opts, clone)

	clone.Extra["heartbeat"] = 20
	assert.Equal(t, 10, opts.Extra["heartbeat"])
}

// Cloning options without Extra settings keeps the map nil.
func TestOptionsCloneNilExtra(t *testing.T) {
	clone := Options{ContainerID: "cid"}.Clone()

	assert.Equal(t, "cid", clone.ContainerID)
	assert.Nil(t, clone.Extra)
}
