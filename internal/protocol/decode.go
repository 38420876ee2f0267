package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownType marks an envelope whose type tag is not part of the
// protocol. Callers log and drop these without failing the connection.
var ErrUnknownType = errors.New("unknown message type")

// envelope is used for type-tag extraction before the full parse.
type envelope struct {
	Type string `json:"type"`
}

// Decode parses a raw inbound frame into its typed message.
// Returns ErrUnknownType (wrapped) for unrecognized type tags.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse envelope: %w", err)
	}

	switch env.Type {
	case TypeTaskUpdate:
		var m TaskUpdate
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", env.Type, err)
		}
		return m, nil

	case TypeProjectUpdate:
		var m ProjectUpdate
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", env.Type, err)
		}
		return m, nil

	case TypeTaskProgress:
		var m TaskProgressUpdate
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", env.Type, err)
		}
		return m, nil

	case TypeSystemNotification:
		var m SystemNotification
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", env.Type, err)
		}
		return m, nil

	case TypeErrorNotification:
		var m ErrorNotification
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", env.Type, err)
		}
		return m, nil

	case TypePong:
		var m Pong
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", env.Type, err)
		}
		return m, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
}
