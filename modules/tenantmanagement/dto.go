package tenantmanagement

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/abpadmin/pkg/validator"
)

// MaxNameLength is ABP's tenant name limit.
const MaxNameLength = 64

// Tenant is a tenant as returned by the server.
type Tenant struct {
	ID               uuid.UUID      `json:"id" yaml:"id"`
	Name             string         `json:"name" yaml:"name"`
	ConcurrencyStamp string         `json:"concurrencyStamp,omitempty" yaml:"concurrencyStamp,omitempty"`
	ExtraProperties  map[string]any `json:"extraProperties,omitempty" yaml:"extraProperties,omitempty"`
}

// CreateInput creates a tenant together with its admin user.
type CreateInput struct {
	Name              string         `json:"name" yaml:"name"`
	AdminEmailAddress string         `json:"adminEmailAddress" yaml:"adminEmailAddress"`
	AdminPassword     string         `json:"adminPassword" yaml:"adminPassword"`
	ExtraProperties   map[string]any `json:"extraProperties,omitempty" yaml:"extraProperties,omitempty"`
}

// Validate requires the name and admin credentials.
func (in CreateInput) Validate() error {
	return validator.Apply(
		validator.Required("name", in.Name),
		validator.MaxLen("name", in.Name, MaxNameLength),
		validator.Required("adminEmailAddress", in.AdminEmailAddress),
		validator.Email("adminEmailAddress", in.AdminEmailAddress),
		validator.Password("adminPassword", in.AdminPassword, validator.DefaultPasswordPolicy()),
	)
}

// UpdateInput renames a tenant or replaces its extra properties.
type UpdateInput struct {
	Name             string         `json:"name" yaml:"name"`
	ConcurrencyStamp string         `json:"concurrencyStamp,omitempty" yaml:"concurrencyStamp,omitempty"`
	ExtraProperties  map[string]any `json:"extraProperties,omitempty" yaml:"extraProperties,omitempty"`
}

// Validate requires a name within MaxNameLength.
func (in UpdateInput) Validate() error {
	return validator.Apply(
		validator.Required("name", in.Name),
		validator.MaxLen("name", in.Name, MaxNameLength),
	)
}

// ToUpdate returns an update input carrying t's current values.
func (t Tenant) ToUpdate() UpdateInput {
	return UpdateInput{Name: t.Name, ConcurrencyStamp: t.ConcurrencyStamp, ExtraProperties: t.ExtraProperties}
}
