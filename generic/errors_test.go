package generic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/commission-engine/generic"
)

func TestNotFoundError(t *testing.T) {
	err := generic.NewNotFoundError(generic.ErrPartyNotFound, "advisor", "a-1")

	assert.ErrorIs(t, err, generic.ErrPartyNotFound)
	assert.True(t, generic.IsNotFound(err))
	assert.Equal(t, `advisor "a-1" not found`, err.Error())
	assert.False(t, generic.IsNotFound(generic.ErrDuplicateRecord))
}
