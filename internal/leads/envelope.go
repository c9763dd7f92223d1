package leads

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (e envelope) message() string {
	if strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	return e.Error
}

func parseEnvelope(body []byte) (envelope, error) {
	var env envelope
	err := json.Unmarshal(body, &env)
	return env, err
}

// decodeList acepta [..] o {success, data:[..]}.
func decodeList(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnexpectedShape)
	}
	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		return nonNil(items), nil
	case '{':
		env, err := parseEnvelope(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		if env.Success != nil && !*env.Success {
			return nil, &APIError{Status: 200, Message: env.message()}
		}
		data := bytes.TrimSpace(env.Data)
		if len(data) == 0 || data[0] != '[' {
			return nil, fmt.Errorf("%w: data is not an array", ErrUnexpectedShape)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		return nonNil(items), nil
	}
	return nil, fmt.Errorf("%w: not json", ErrUnexpectedShape)
}

// decodeObject acepta {..} o {success, data:{..}}.
func decodeObject(body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, fmt.Errorf("%w: not a json object", ErrUnexpectedShape)
	}
	env, err := parseEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	if env.Success == nil {
		return json.RawMessage(body), nil
	}
	if !*env.Success {
		return nil, &APIError{Status: 200, Message: env.message()}
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: data is not an object", ErrUnexpectedShape)
	}
	return json.RawMessage(data), nil
}

func nonNil(items []json.RawMessage) []json.RawMessage {
	if items == nil {
		return []json.RawMessage{}
	}
	return items
}
