package capabilities

import "context"

// Capability es una acción protegida por rol.
type Capability string

const (
	CapCatalogWrite    Capability = "catalog:write"
	CapStaffWrite      Capability = "staff:write"
	CapUsersWrite      Capability = "users:write"
	CapPermanentDelete Capability = "records:permanent_delete"
)

type CapabilityCheck struct {
	UserID     string
	Role       string
	Capability Capability
}

type CapabilitiesResolver interface {
	HasFeature(ctx context.Context, in CapabilityCheck) (bool, error)
}
