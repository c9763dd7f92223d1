package authapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"leadsfynder/internal/domain"
)

var (
	ErrMalformedResponse    = errors.New("malformed auth response")
	ErrIncompleteCredential = errors.New("incomplete credential in login response")
)

// Shape etiqueta la forma de respuesta reconocida.
type Shape int

const (
	// ShapeFailure: {success:false, message}.
	ShapeFailure Shape = iota
	// ShapeNested: {success:true, data:{token,user}}.
	ShapeNested
	// ShapeFlat: {success:true, token, user}.
	ShapeFlat
	// ShapeNoCredential: success sin token+usuario completos.
	ShapeNoCredential
)

func (s Shape) String() string {
	switch s {
	case ShapeFailure:
		return "failure"
	case ShapeNested:
		return "nested"
	case ShapeFlat:
		return "flat"
	case ShapeNoCredential:
		return "no_credential"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// AuthResponse es el resultado del parser de respuestas.
type AuthResponse struct {
	Shape      Shape
	Credential *domain.Credential
	Message    string
}

type envelope struct {
	Success *bool           `json:"success"`
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
	Data    json.RawMessage `json:"data"`
	Token   json.RawMessage `json:"token"`
	User    json.RawMessage `json:"user"`
}

type credentialWire struct {
	Token json.RawMessage `json:"token"`
	User  json.RawMessage `json:"user"`
}

// ParseAuthResponse prueba cada forma conocida en orden: anidada bajo data,
// luego plana. Solo falla si el cuerpo no es un objeto JSON o no trae
// el indicador success.
func ParseAuthResponse(body []byte) (AuthResponse, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return AuthResponse{}, fmt.Errorf("%w: body is not a json object", ErrMalformedResponse)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return AuthResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if env.Success == nil {
		return AuthResponse{}, fmt.Errorf("%w: missing success flag", ErrMalformedResponse)
	}

	message := firstString(env.Message, env.Error)
	if !*env.Success {
		return AuthResponse{Shape: ShapeFailure, Message: message}, nil
	}

	if cred, ok := nestedCredential(env.Data); ok {
		return AuthResponse{Shape: ShapeNested, Credential: &cred, Message: message}, nil
	}
	if cred, ok := decodeCredential(credentialWire{Token: env.Token, User: env.User}); ok {
		return AuthResponse{Shape: ShapeFlat, Credential: &cred, Message: message}, nil
	}
	return AuthResponse{Shape: ShapeNoCredential, Message: message}, nil
}

// ErrorMessage extrae message o error de un cuerpo de error, si existe.
func ErrorMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return firstString(env.Message, env.Error)
}

func nestedCredential(data json.RawMessage) (domain.Credential, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return domain.Credential{}, false
	}
	var w credentialWire
	if err := json.Unmarshal(data, &w); err != nil {
		return domain.Credential{}, false
	}
	return decodeCredential(w)
}

func decodeCredential(w credentialWire) (domain.Credential, bool) {
	token := rawString(w.Token)
	if strings.TrimSpace(token) == "" || len(w.User) == 0 {
		return domain.Credential{}, false
	}
	user, err := domain.DecodeUserProfile(w.User)
	if err != nil {
		return domain.Credential{}, false
	}
	return domain.Credential{Token: token, User: user}, true
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func firstString(values ...json.RawMessage) string {
	for _, v := range values {
		if s := strings.TrimSpace(rawString(v)); s != "" {
			return s
		}
	}
	return ""
}
