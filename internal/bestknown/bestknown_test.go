package bestknown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOf(t *testing.T) {
	v, ok := Of("ft06")
	assert.True(t, ok)
	assert.Equal(t, 55, v)

	_, ok = Of("ta01")
	assert.False(t, ok)
}

func TestInstancesMatching(t *testing.T) {
	assert.Equal(t, []string{"ft06", "ft10", "ft20"}, InstancesMatching("ft"))
	assert.Len(t, InstancesMatching("la0"), 9)
	assert.Len(t, InstancesMatching("la"), 40)
	assert.Empty(t, InstancesMatching("ta"))
	assert.Len(t, InstancesMatching(""), len(Names()))
}
