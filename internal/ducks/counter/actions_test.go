package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/ducks/internal/action"
)

func TestActionFactories(t *testing.T) {
	assert.Equal(t, action.Increment{Num: 5}, Increment(5))
	assert.Equal(t, action.Decrement{Num: -3}, Decrement(-3))
	assert.Equal(t, action.Increment{Num: 0}, Increment(0))
	assert.Equal(t, action.Increment{Num: 1}, IncrementOne())
	assert.Equal(t, action.Decrement{Num: 1}, DecrementOne())
	assert.Equal(t, action.KindIncrement, Increment(1).Kind())
	assert.Equal(t, action.KindDecrement, Decrement(1).Kind())
}
