package domain

import (
	"fmt"
	"strings"
)

// Role identifica el tipo de cuenta y define que vistas puede usar.
type Role string

const (
	RoleClient    Role = "client"
	RoleTherapist Role = "therapist"
	RoleAdmin     Role = "admin"
)

// ParseRole valida un rol recibido como texto.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleClient:
		return RoleClient, nil
	case RoleTherapist:
		return RoleTherapist, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// HomeView devuelve la vista inicial que el front debe montar para el rol.
func (r Role) HomeView() string {
	switch r {
	case RoleClient:
		return "discover"
	case RoleTherapist:
		return "therapist_dashboard"
	case RoleAdmin:
		return "admin_moderation"
	}
	return "onboarding"
}
