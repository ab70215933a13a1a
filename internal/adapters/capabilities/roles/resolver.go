// Package roles resuelve capabilities con una tabla estática por rol.
package roles

import (
	"context"
	"errors"
	"strings"

	"peluqueria-canina/internal/ports/auth"
	"peluqueria-canina/internal/ports/capabilities"
)

var ErrCapabilityRequired = errors.New("capability required")

// Resolver: admin puede todo; peluquera opera turnos, clientes y cobros
// pero no toca catálogo, staff, usuarios ni borrados definitivos.
type Resolver struct {
	grants   map[string]map[capabilities.Capability]bool
	allowAll bool
}

// NewResolver crea el resolver. allowAll (dev) responde true sin mirar el rol.
func NewResolver(allowAll bool) *Resolver {
	return &Resolver{
		allowAll: allowAll,
		grants: map[string]map[capabilities.Capability]bool{
			auth.RoleAdmin: {
				capabilities.CapCatalogWrite:    true,
				capabilities.CapStaffWrite:      true,
				capabilities.CapUsersWrite:      true,
				capabilities.CapPermanentDelete: true,
			},
			auth.RolePeluquera: {},
		},
	}
}

func (r *Resolver) HasFeature(_ context.Context, in capabilities.CapabilityCheck) (bool, error) {
	if strings.TrimSpace(string(in.Capability)) == "" {
		return false, ErrCapabilityRequired
	}
	if r.allowAll {
		return true, nil
	}
	return r.grants[in.Role][in.Capability], nil
}

// Resolve devuelve el mapa de capabilities del rol (para /me).
func (r *Resolver) Resolve(_ context.Context, role string) map[capabilities.Capability]bool {
	out := map[capabilities.Capability]bool{}
	for c, ok := range r.grants[auth.RoleAdmin] {
		out[c] = ok && (r.allowAll || r.grants[role][c])
	}
	return out
}
