package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	reg := New[int]()
	reg.Add("b", 2)
	reg.Add("a", 1)
	reg.Add("c", 3)

	assert.EqualValues(t, []string{"a", "b", "c"}, reg.Names())
	items, err := reg.List(context.Background())
	assert.NoError(t, err)
	assert.EqualValues(t, []int{1, 2, 3}, items)

	value, err := reg.Lookup(context.Background(), "b")
	assert.NoError(t, err)
	assert.EqualValues(t, 2, value)

	_, err = reg.Lookup(context.Background(), "z")
	assert.EqualError(t, err, "item not found: z")
}
