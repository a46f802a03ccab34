package tenantmanagement

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/abpadmin/pkg/collection"
	"github.com/dmitrymomot/abpadmin/pkg/logger"
	"github.com/dmitrymomot/abpadmin/pkg/restclient"
)

// TenantsPath is the tenant collection endpoint.
const TenantsPath = "/api/multi-tenancy/tenants"

// Requester is the part of *restclient.Client the service uses.
type Requester interface {
	Get(ctx context.Context, path string, out any, opts ...restclient.RequestOption) error
	Post(ctx context.Context, path string, in, out any, opts ...restclient.RequestOption) error
	Put(ctx context.Context, path string, in, out any, opts ...restclient.RequestOption) error
	Delete(ctx context.Context, path string, opts ...restclient.RequestOption) error
}

// Service calls the tenant endpoints. It implements collection.Service.
type Service struct {
	client Requester
	logger *slog.Logger
}

var _ collection.Service[Tenant, uuid.UUID, CreateInput, UpdateInput] = (*Service)(nil)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger. A nil logger is ignored.
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service over client.
func NewService(client Requester, opts ...ServiceOption) *Service {
	s := &Service{client: client, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func tenantPath(id uuid.UUID) string {
	return TenantsPath + "/" + id.String()
}

func connectionStringPath(id uuid.UUID) string {
	return tenantPath(id) + "/default-connection-string"
}

// List returns one page of tenants.
func (s *Service) List(ctx context.Context, q collection.Query) (collection.Page[Tenant], error) {
	var out collection.Page[Tenant]
	if err := s.client.Get(ctx, TenantsPath, &out, restclient.QueryValues(q.Values())); err != nil {
		return collection.Page[Tenant]{}, err
	}
	return out, nil
}

// Get returns one tenant.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Tenant, error) {
	var out Tenant
	if err := s.client.Get(ctx, tenantPath(id), &out); err != nil {
		return Tenant{}, err
	}
	return out, nil
}

// Create validates in and creates the tenant with its admin user.
func (s *Service) Create(ctx context.Context, in CreateInput) (Tenant, error) {
	if err := in.Validate(); err != nil {
		return Tenant{}, err
	}
	var out Tenant
	if err := s.client.Post(ctx, TenantsPath, in, &out); err != nil {
		return Tenant{}, err
	}
	s.logger.InfoContext(ctx, "tenant created", logger.Component("tenantmanagement"), logger.TenantID(out.ID))
	return out, nil
}

// Update validates in and updates the tenant.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Tenant, error) {
	if err := in.Validate(); err != nil {
		return Tenant{}, err
	}
	var out Tenant
	if err := s.client.Put(ctx, tenantPath(id), in, &out); err != nil {
		return Tenant{}, err
	}
	return out, nil
}

// Delete removes the tenant.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Delete(ctx, tenantPath(id)); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "tenant deleted", logger.Component("tenantmanagement"), logger.TenantID(id))
	return nil
}

// DefaultConnectionString returns the tenant's connection string, empty when
// it uses the host database.
func (s *Service) DefaultConnectionString(ctx context.Context, id uuid.UUID) (string, error) {
	var out string
	if err := s.client.Get(ctx, connectionStringPath(id), &out); err != nil {
		return "", err
	}
	return out, nil
}

// UpdateDefaultConnectionString sends value as the defaultConnectionString query parameter.
func (s *Service) UpdateDefaultConnectionString(ctx context.Context, id uuid.UUID, value string) error {
	return s.client.Put(ctx, connectionStringPath(id), nil, nil, restclient.Query("defaultConnectionString", value))
}

// DeleteDefaultConnectionString moves the tenant back to the host database.
func (s *Service) DeleteDefaultConnectionString(ctx context.Context, id uuid.UUID) error {
	return s.client.Delete(ctx, connectionStringPath(id))
}
