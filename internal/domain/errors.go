package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
)

// FieldError is a single field-level validation failure reported by the remote API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"msg"`
}

// UnmarshalJSON accepts the common validator shapes: the field name may arrive
// as "field", "path" or "param", the text as "msg" or "message".
func (e *FieldError) UnmarshalJSON(data []byte) error {
	var raw struct {
		Field   string `json:"field"`
		Path    string `json:"path"`
		Param   string `json:"param"`
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Field = firstNonEmpty(raw.Field, raw.Path, raw.Param)
	e.Message = firstNonEmpty(raw.Msg, raw.Message)
	return nil
}

// AuthError is a credential or validation failure on login or signup.
// Details is nil unless the server returned a field-level error list.
type AuthError struct {
	Message string
	Details []FieldError
}

func (e *AuthError) Error() string {
	return e.Message
}

// FieldMessages groups detail messages by field name.
func (e *AuthError) FieldMessages() map[string][]string {
	if len(e.Details) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e.Details))
	for _, d := range e.Details {
		out[d.Field] = append(out[d.Field], d.Message)
	}
	return out
}

// TransportError wraps a network or decoding failure talking to the remote API.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
