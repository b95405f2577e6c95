package action

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidPayload is returned when a payload does not match its kind.
	ErrInvalidPayload = errors.New("invalid action payload")

	// ErrMissingField is returned when a required payload field is absent.
	ErrMissingField = errors.New("missing action field")
)

// Envelope is the wire form of an action: {"type": ..., "payload": {...}}.
// Payload is omitted for kinds without fields.
type Envelope struct {
	Type    Kind            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type numPayload struct {
	Num *int64 `json:"num"`
}

type userPayload struct {
	UserName *string `json:"userName"`
}

// Marshal encodes an action into its envelope JSON.
func Marshal(a Action) ([]byte, error) {
	env, err := toEnvelope(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// Unmarshal decodes envelope JSON into an action.
// Kinds outside the vocabulary decode to Unknown and their payload is ignored.
func Unmarshal(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("decode envelope: %w: type", ErrMissingField)
	}
	return Decode(env.Type, env.Payload)
}

// UnmarshalList decodes a JSON array of envelopes.
func UnmarshalList(data []byte) ([]Action, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode action list: %w", err)
	}
	actions := make([]Action, 0, len(raw))
	for i, r := range raw {
		a, err := Unmarshal(r)
		if err != nil {
			return nil, fmt.Errorf("action[%d]: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// Decode builds the variant for kind from a raw payload.
// An empty payload is allowed: counter kinds then use DefaultNum.
func Decode(kind Kind, payload []byte) (Action, error) {
	switch kind {
	case KindIncrement, KindDecrement:
		var p numPayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		num := DefaultNum
		if p.Num != nil {
			num = *p.Num
		}
		if kind == KindIncrement {
			return Increment{Num: num}, nil
		}
		return Decrement{Num: num}, nil

	case KindSignIn:
		var p userPayload
		if err := decodeStrict(payload, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		if p.UserName == nil {
			return nil, fmt.Errorf("%s: %w: userName", kind, ErrMissingField)
		}
		return SignIn{UserName: *p.UserName}, nil

	case KindSignOut:
		var p struct{}
		if err := decodeStrict(payload, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		return SignOut{}, nil

	default:
		return Unknown{Type: kind}, nil
	}
}

// FromArgs builds an action from a loosely typed argument map,
// as produced by YAML or flag parsing.
func FromArgs(kind Kind, args map[string]any) (Action, error) {
	if len(args) == 0 {
		return Decode(kind, nil)
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("%s: encode args: %w", kind, err)
	}
	return Decode(kind, payload)
}

// Args returns the payload of an action as a plain map.
// Kinds without fields return an empty map.
func Args(a Action) map[string]any {
	switch v := a.(type) {
	case Increment:
		return map[string]any{"num": v.Num}
	case Decrement:
		return map[string]any{"num": v.Num}
	case SignIn:
		return map[string]any{"userName": v.UserName}
	default:
		return map[string]any{}
	}
}

func toEnvelope(a Action) (Envelope, error) {
	if a == nil {
		return Envelope{}, fmt.Errorf("encode action: %w: nil action", ErrInvalidPayload)
	}
	env := Envelope{Type: a.Kind()}
	var payload any
	switch v := a.(type) {
	case Increment:
		payload = numPayload{Num: &v.Num}
	case Decrement:
		payload = numPayload{Num: &v.Num}
	case SignIn:
		payload = userPayload{UserName: &v.UserName}
	case SignOut, Unknown:
		return env, nil
	default:
		return Envelope{}, fmt.Errorf("encode action: %w: %T", ErrInvalidPayload, a)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode action: %w", err)
	}
	env.Payload = raw
	return env, nil
}

func decodeStrict(payload []byte, v any) error {
	if len(bytes.TrimSpace(payload)) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// Canonical returns a deterministic encoding of an action for hashing:
// sorted keys, no HTML escaping and NFC-normalized strings.
func Canonical(a Action) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("canonical action: %w: nil action", ErrInvalidPayload)
	}
	obj := map[string]any{"type": string(a.Kind())}
	if args := Args(a); len(args) > 0 {
		obj["payload"] = args
	}
	return CanonicalJSON(obj)
}

// CanonicalJSON encodes maps, slices, strings, bools and integers with
// sorted object keys and NFC-normalized strings. Floats are rejected so that
// equal values always hash equally.
func CanonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		return writeCanonicalString(buf, val)
	case Kind:
		return writeCanonicalString(buf, string(val))
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case int:
		fmt.Fprintf(buf, "%d", val)
	case int64:
		fmt.Fprintf(buf, "%d", val)
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return fmt.Errorf("canonical json: non-integer number %s", val)
		}
		fmt.Fprintf(buf, "%d", n)
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("canonical json: unsupported type %T", v)
	}
	return nil
}

func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	// Encoder appends a newline.
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
