package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Role identifica el nivel de acceso del usuario en el dashboard.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Elevated indica si el rol habilita la seccion de administracion.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// NormalizeRole aplica mayusculas y el rol por defecto.
func NormalizeRole(raw string) Role {
	role := strings.ToUpper(strings.TrimSpace(raw))
	if role == "" {
		return RoleUser
	}
	return Role(role)
}

// UserProfile es el perfil canonico del usuario autenticado.
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	Phone     string `json:"phone,omitempty"`
	Role      Role   `json:"role"`
}

var ErrInvalidProfile = errors.New("invalid user profile")

// Valid exige al menos un id.
func (u UserProfile) Valid() bool {
	return strings.TrimSpace(u.ID) != ""
}

// profileWire acepta las dos convenciones de nombres que devuelve el backend.
type profileWire struct {
	ID             json.RawMessage `json:"id"`
	Email          string          `json:"email"`
	FirstName      string          `json:"firstName"`
	FirstNameSnake string          `json:"first_name"`
	LastName       string          `json:"lastName"`
	LastNameSnake  string          `json:"last_name"`
	Company        string          `json:"company"`
	Phone          string          `json:"phone"`
	Role           string          `json:"role"`
}

// DecodeUserProfile normaliza un perfil serializado. Falla con
// ErrInvalidProfile si el JSON no es un objeto o no trae id.
func DecodeUserProfile(raw []byte) (UserProfile, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return UserProfile{}, fmt.Errorf("%w: not a json object", ErrInvalidProfile)
	}
	var w profileWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return UserProfile{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	id, err := decodeID(w.ID)
	if err != nil {
		return UserProfile{}, err
	}
	profile := UserProfile{
		ID:        id,
		Email:     strings.TrimSpace(w.Email),
		FirstName: firstNonEmpty(w.FirstName, w.FirstNameSnake),
		LastName:  firstNonEmpty(w.LastName, w.LastNameSnake),
		Company:   w.Company,
		Phone:     w.Phone,
		Role:      NormalizeRole(w.Role),
	}
	if !profile.Valid() {
		return UserProfile{}, fmt.Errorf("%w: missing id", ErrInvalidProfile)
	}
	return profile, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("%w: id must be string or number", ErrInvalidProfile)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// RegisterInput se reenvia tal cual a POST /auth/register.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	Phone     string `json:"phone,omitempty"`
}
