package tenantmanagement_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/abpadmin/internal/abpfake"
	"github.com/dmitrymomot/abpadmin/modules/tenantmanagement"
	"github.com/dmitrymomot/abpadmin/pkg/collection"
	"github.com/dmitrymomot/abpadmin/pkg/restclient"
	"github.com/dmitrymomot/abpadmin/pkg/validator"
)

func setup(t *testing.T, tenants ...tenantmanagement.Tenant) (*abpfake.Server, *tenantmanagement.Service) {
	t.Helper()
	fake := abpfake.New(abpfake.WithTenants(tenants...))
	ts := httptest.NewServer(fake.Handler())
	t.Cleanup(ts.Close)

	client, err := restclient.New(ts.URL)
	require.NoError(t, err)
	return fake, tenantmanagement.NewService(client)
}

func seed(names ...string) []tenantmanagement.Tenant {
	out := make([]tenantmanagement.Tenant, 0, len(names))
	for _, n := range names {
		out = append(out, tenantmanagement.Tenant{ID: uuid.New(), Name: n, ConcurrencyStamp: uuid.NewString()})
	}
	return out
}

func validCreate(name string) tenantmanagement.CreateInput {
	return tenantmanagement.CreateInput{Name: name, AdminEmailAddress: "admin@" + name + ".io", AdminPassword: "1q2w3E*"}
}

func TestService_List(t *testing.T) {
	t.Parallel()

	_, svc := setup(t, seed("charlie", "alpha", "bravo", "alpine")...)
	ctx := context.Background()

	page, err := svc.List(ctx, collection.Query{Filter: "al", Sorting: "name desc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "alpine", page.Items[0].Name)
	assert.EqualValues(t, 2, page.TotalCount)

	page, err = svc.List(ctx, collection.Query{Sorting: "name asc", SkipCount: 1, MaxResultCount: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "alpine", page.Items[0].Name)
	assert.Equal(t, "bravo", page.Items[1].Name)
	assert.EqualValues(t, 4, page.TotalCount)
}

func TestService_CRUD(t *testing.T) {
	t.Parallel()

	_, svc := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate("acme"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	_, err = svc.Create(ctx, validCreate("acme"))
	require.ErrorIs(t, err, restclient.ErrBadRequest)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	in := got.ToUpdate()
	in.Name = "acme-renamed"
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "acme-renamed", updated.Name)

	_, err = svc.Update(ctx, created.ID, in)
	require.ErrorIs(t, err, restclient.ErrConflict, "stale concurrency stamp")

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, restclient.ErrNotFound)
}

func TestService_Validation(t *testing.T) {
	t.Parallel()

	fake, svc := setup(t)

	_, err := svc.Create(context.Background(), tenantmanagement.CreateInput{Name: string(make([]byte, 65))})
	verrs := validator.ExtractValidationErrors(err)
	require.NotNil(t, verrs)
	assert.Equal(t, []string{"name", "adminEmailAddress", "adminPassword"}, verrs.Fields())

	_, err = svc.Update(context.Background(), uuid.New(), tenantmanagement.UpdateInput{})
	assert.True(t, validator.ExtractValidationErrors(err).Has("name"))
	assert.Empty(t, fake.Requests())
}

func TestService_ConnectionString(t *testing.T) {
	t.Parallel()

	tenants := seed("acme")
	fake, svc := setup(t, tenants...)
	ctx := context.Background()
	id := tenants[0].ID

	cs, err := svc.DefaultConnectionString(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, cs)

	value := "Server=localhost;Database=Acme;Trusted_Connection=True"
	require.NoError(t, svc.UpdateDefaultConnectionString(ctx, id, value))

	puts := fake.Requests(http.MethodPut)
	require.Len(t, puts, 1)
	assert.Equal(t, value, puts[0].Query.Get("defaultConnectionString"))
	assert.Empty(t, puts[0].Body)

	cs, err = svc.DefaultConnectionString(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, value, cs)

	require.NoError(t, svc.DeleteDefaultConnectionString(ctx, id))
	cs, err = svc.DefaultConnectionString(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, cs)

	_, err = svc.DefaultConnectionString(ctx, uuid.New())
	assert.ErrorIs(t, err, restclient.ErrNotFound)
}

func TestStore_CreateRefetchesList(t *testing.T) {
	t.Parallel()

	fake, svc := setup(t)
	state := tenantmanagement.NewStateService()
	store := tenantmanagement.NewStore(svc, state)
	ctx := context.Background()

	var notified atomic.Int32
	state.Subscribe(func() { notified.Add(1) })

	created, err := store.Create(ctx, validCreate("X"))
	require.NoError(t, err)
	assert.Equal(t, "X", created.Name)

	st := store.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, created.ID, st.Items[0].ID)
	assert.EqualValues(t, 1, st.TotalCount)

	assert.Len(t, fake.Requests(http.MethodGet, tenantmanagement.TenantsPath), 1)
	assert.Equal(t, st.Items, state.Items())
	assert.EqualValues(t, 1, state.TotalCount())
	assert.Equal(t, int32(1), notified.Load())
}

func TestStore_RefetchKeepsQuery(t *testing.T) {
	t.Parallel()

	tenants := seed("a1", "a2", "a3", "b1")
	fake, svc := setup(t, tenants...)
	store := tenantmanagement.NewStore(svc, nil)
	ctx := context.Background()

	require.NoError(t, store.SetSort("name", collection.Desc))
	require.NoError(t, store.FetchList(ctx, collection.Query{Filter: "a", MaxResultCount: 2}))
	assert.Equal(t, []string{"a3", "a2"}, names(store.State().Items))

	require.NoError(t, store.Delete(ctx, tenants[2].ID))

	gets := fake.Requests(http.MethodGet, tenantmanagement.TenantsPath)
	require.Len(t, gets, 2)
	for _, r := range gets {
		assert.Equal(t, "a", r.Query.Get("filter"))
		assert.Equal(t, "2", r.Query.Get("maxResultCount"))
		assert.Equal(t, "name desc", r.Query.Get("sorting"))
	}
	assert.Equal(t, []string{"a2", "a1"}, names(store.State().Items))
	assert.EqualValues(t, 2, store.State().TotalCount)
}

func TestStore_TenantMessages(t *testing.T) {
	t.Parallel()

	fake, svc := setup(t)
	store := tenantmanagement.NewStore(svc, nil)

	fake.Fail(http.MethodGet, tenantmanagement.TenantsPath, http.StatusInternalServerError, "")
	require.Error(t, store.FetchList(context.Background(), collection.Query{}))
	assert.Equal(t, "Failed to fetch tenants", store.State().Error)

	fake.Clear()
	fake.Fail(http.MethodDelete, "/api/multi-tenancy/tenants/"+uuid.Nil.String(), http.StatusForbidden, "Not allowed")
	require.Error(t, store.Delete(context.Background(), uuid.Nil))
	assert.Equal(t, "Not allowed", store.State().Error)
	assert.Empty(t, fake.Requests(http.MethodGet))
}

func TestStateService(t *testing.T) {
	t.Parallel()

	state := tenantmanagement.NewStateService()
	var calls atomic.Int32
	unsubscribe := state.Subscribe(func() { calls.Add(1) })

	items := seed("a", "b")
	state.Set(items, 10)
	items[0].Name = "mutated"
	assert.Equal(t, "a", state.Items()[0].Name)
	assert.EqualValues(t, 10, state.TotalCount())

	state.Reset()
	assert.Empty(t, state.Items())
	assert.NotNil(t, state.Items())
	assert.Zero(t, state.TotalCount())

	unsubscribe()
	state.Set(nil, 0)
	assert.Equal(t, int32(2), calls.Load())
}

func names(tenants []tenantmanagement.Tenant) []string {
	out := make([]string, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, t.Name)
	}
	return out
}
