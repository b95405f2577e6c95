package counter

import "github.com/roach88/ducks/internal/action"

// DefaultNum is the step used when the caller has not chosen one.
const DefaultNum = action.DefaultNum

// Increment builds a command that adds num to the counter.
// num is not validated: zero and negative values are passed through.
func Increment(num int64) action.Action {
	return action.Increment{Num: num}
}

// Decrement builds a command that subtracts num from the counter.
func Decrement(num int64) action.Action {
	return action.Decrement{Num: num}
}

// IncrementOne is Increment(DefaultNum).
func IncrementOne() action.Action {
	return Increment(DefaultNum)
}

// DecrementOne is Decrement(DefaultNum).
func DecrementOne() action.Action {
	return Decrement(DefaultNum)
}
