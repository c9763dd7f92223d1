package domain

import "strings"

// Credential es el par token + perfil que representa una sesion.
type Credential struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

func (c Credential) Valid() bool {
	return strings.TrimSpace(c.Token) != "" && c.User.Valid()
}

// Snapshot es la vista consistente del estado de sesion.
type Snapshot struct {
	User            *UserProfile `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	IsLoading       bool         `json:"isLoading"`
}

// AuthResult es la forma normalizada de las respuestas de autenticacion.
type AuthResult struct {
	Success bool        `json:"success"`
	Data    *Credential `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func Failure(message string) AuthResult {
	return AuthResult{Success: false, Message: message}
}
