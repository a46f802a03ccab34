package tenantmanagement

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/abpadmin/pkg/collection"
)

// Store is the tenant list store.
type Store = collection.Store[Tenant, uuid.UUID, CreateInput, UpdateInput]

// Option configures a tenant Store.
type Option = collection.Option[Tenant, uuid.UUID, CreateInput, UpdateInput]

// Messages are the tenant fallback messages.
var Messages = collection.Messages{
	List:   "Failed to fetch tenants",
	Get:    "Failed to fetch tenant",
	Create: "Failed to create tenant",
	Update: "Failed to update tenant",
	Delete: "Failed to delete tenant",
}

// NewStore builds the tenant store. A non-nil state receives every
// committed page and every reset.
func NewStore(service collection.Service[Tenant, uuid.UUID, CreateInput, UpdateInput], state *StateService, opts ...Option) *Store {
	base := []Option{
		collection.WithName[Tenant, uuid.UUID, CreateInput, UpdateInput]("tenants"),
		collection.WithMessages[Tenant, uuid.UUID, CreateInput, UpdateInput](Messages),
	}
	if state != nil {
		base = append(base, collection.WithSink[Tenant, uuid.UUID, CreateInput, UpdateInput](state))
	}
	return collection.NewStore(service, append(base, opts...)...)
}
