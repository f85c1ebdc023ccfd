package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInflight(t *testing.T) {
	f := newInflight()
	assert.True(t, f.acquire(1))
	assert.False(t, f.acquire(1))
	assert.True(t, f.acquire(2))

	f.release(1)
	assert.True(t, f.acquire(1))
}
