package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobKey(t *testing.T) {
	assert.Equal(t, "job:abc", JobKey("abc"))
}

func TestNopAlwaysMisses(t *testing.T) {
	var c Cache = Nop{}
	ctx := context.Background()
	assert.NoError(t, c.SetJSON(ctx, "k", map[string]int{"a": 1}, JobTTL))

	var dst map[string]int
	hit, err := c.GetJSON(ctx, "k", &dst)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, dst)
	assert.NoError(t, c.Del(ctx, "k"))
}
