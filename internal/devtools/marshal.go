package devtools

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/roach88/ducks/internal/action"
	"github.com/roach88/ducks/internal/state"
)

// dispatchIDDomain separates dispatch ids from any other hash of the same
// bytes.
const dispatchIDDomain = "ducks/dispatch/v1"

// DispatchID returns the content-addressed id of one dispatch:
// sha256(domain || 0x00 || canonical JSON of session, seq and action), hex.
func DispatchID(session string, seq int64, a action.Action) (string, error) {
	if a == nil {
		return "", fmt.Errorf("dispatch id: nil action")
	}
	act := map[string]any{"type": string(a.Kind())}
	if args := action.Args(a); len(args) > 0 {
		act["payload"] = args
	}
	data, err := action.CanonicalJSON(map[string]any{
		"action":  act,
		"seq":     seq,
		"session": session,
	})
	if err != nil {
		return "", fmt.Errorf("dispatch id: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(dispatchIDDomain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// marshalAction converts an action to its envelope JSON TEXT.
func marshalAction(a action.Action) (string, error) {
	data, err := action.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("marshal action: %w", err)
	}
	return string(data), nil
}

// unmarshalAction parses envelope JSON TEXT back to an action.
func unmarshalAction(data string) (action.Action, error) {
	a, err := action.Unmarshal([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal action: %w", err)
	}
	return a, nil
}

// marshalState converts a RootState to JSON TEXT. Field order is fixed by
// the struct definition, so equal states give equal text.
func marshalState(s state.RootState) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	return string(data), nil
}

func unmarshalState(data string) (state.RootState, error) {
	var s state.RootState
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return state.RootState{}, fmt.Errorf("unmarshal state: %w", err)
	}
	return s, nil
}
