package clients

import "time"

// Owner es el dueño del perro. El teléfono sirve de clave de deduplicación.
type Owner struct {
	ID        string
	Name      string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Dog struct {
	ID        string
	OwnerID   string
	Name      string
	Breed     string
	Notes     string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// Owner viene cargado en lecturas.
	Owner Owner
}
