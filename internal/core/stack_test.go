package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocator_Budget(t *testing.T) {
	a := NewArenaAllocator(8192)

	s1, err := a.Allocate(4096)
	require.NoError(t, err)
	s2, err := a.Allocate(4096)
	require.NoError(t, err)
	assert.Len(t, s1, 4096)
	assert.EqualValues(t, 8192, a.InUse())

	_, err = a.Allocate(4096)
	assert.ErrorIs(t, err, ErrAllocationFailure)

	a.Release(s1)
	assert.EqualValues(t, 4096, a.InUse())
	s3, err := a.Allocate(4096)
	require.NoError(t, err)
	assert.EqualValues(t, 8192, a.InUse())

	a.Release(s2)
	a.Release(s3)
	a.Release(nil)
	assert.Zero(t, a.InUse())
}

func TestArenaAllocator_ReusesZeroed(t *testing.T) {
	a := NewArenaAllocator(0)
	s, err := a.Allocate(2048)
	require.NoError(t, err)
	s[0], s[2047] = 0xAA, 0xBB
	a.Release(s)

	again, err := a.Allocate(2048)
	require.NoError(t, err)
	assert.Same(t, &s[0], &again[0], "released buffer should be reused")
	assert.Zero(t, again[0])
	assert.Zero(t, again[2047])
}

func TestArenaAllocator_InvalidSize(t *testing.T) {
	_, err := NewArenaAllocator(0).Allocate(0)
	assert.ErrorIs(t, err, ErrAllocationFailure)
}
