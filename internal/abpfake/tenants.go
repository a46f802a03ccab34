package abpfake

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/abpadmin/modules/tenantmanagement"
	"github.com/dmitrymomot/abpadmin/pkg/collection"
)

// DefaultMaxResultCount is used when a list query has no maxResultCount.
const DefaultMaxResultCount = 10

func (s *Server) listTenants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skipCount"))
	limit, _ := strconv.Atoi(q.Get("maxResultCount"))
	if limit <= 0 {
		limit = DefaultMaxResultCount
	}
	filter := strings.ToLower(strings.TrimSpace(q.Get("filter")))

	s.mu.Lock()
	var matched []tenantmanagement.Tenant
	for _, t := range s.tenants {
		if filter == "" || strings.Contains(strings.ToLower(t.Name), filter) {
			matched = append(matched, t)
		}
	}
	s.mu.Unlock()

	sortTenants(matched, q.Get("sorting"))

	total := len(matched)
	skip = min(max(skip, 0), total)
	end := min(skip+limit, total)
	items := matched[skip:end]
	if items == nil {
		items = []tenantmanagement.Tenant{}
	}
	writeJSON(w, http.StatusOK, collection.Page[tenantmanagement.Tenant]{Items: items, TotalCount: int64(total)})
}

// sortTenants understands "name" and "id" with an optional asc/desc suffix.
// Unknown keys keep creation order.
func sortTenants(tenants []tenantmanagement.Tenant, sorting string) {
	key, order, _ := strings.Cut(strings.TrimSpace(sorting), " ")
	desc := strings.EqualFold(strings.TrimSpace(order), "desc")

	var cmpFn func(a, b tenantmanagement.Tenant) int
	switch strings.ToLower(key) {
	case "name":
		cmpFn = func(a, b tenantmanagement.Tenant) int { return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
	case "id":
		cmpFn = func(a, b tenantmanagement.Tenant) int { return cmp.Compare(a.ID.String(), b.ID.String()) }
	default:
		return
	}
	slices.SortStableFunc(tenants, func(a, b tenantmanagement.Tenant) int {
		if desc {
			return cmpFn(b, a)
		}
		return cmpFn(a, b)
	})
}

func (s *Server) tenantIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, validationError("The value is not a valid id.", "id"))
		return -1, false
	}
	i := slices.IndexFunc(s.tenants, func(t tenantmanagement.Tenant) bool { return t.ID == id })
	if i < 0 {
		writeError(w, businessError(http.StatusNotFound, "", "There is no entity Tenant with id = "+id.String()+"!"))
		return -1, false
	}
	return i, true
}

func (s *Server) nameTaken(name string, except uuid.UUID) bool {
	return slices.ContainsFunc(s.tenants, func(t tenantmanagement.Tenant) bool {
		return t.ID != except && strings.EqualFold(t.Name, name)
	})
}

func (s *Server) getTenant(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.tenantIndex(w, r); ok {
		writeJSON(w, http.StatusOK, s.tenants[i])
	}
}

func (s *Server) createTenant(w http.ResponseWriter, r *http.Request) {
	var in tenantmanagement.CreateInput
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, validationError("The Name field is required.", "name"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(in.Name, uuid.Nil) {
		writeError(w, businessError(http.StatusBadRequest, "Volo.Abp.TenantManagement:DuplicateTenantName",
			"Tenant name already exists: "+in.Name))
		return
	}
	t := tenantmanagement.Tenant{
		ID:               uuid.New(),
		Name:             in.Name,
		ConcurrencyStamp: uuid.NewString(),
		ExtraProperties:  in.ExtraProperties,
	}
	s.tenants = append(s.tenants, t)
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTenant(w http.ResponseWriter, r *http.Request) {
	var in tenantmanagement.UpdateInput
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.tenantIndex(w, r)
	if !ok {
		return
	}
	t := &s.tenants[i]
	if in.ConcurrencyStamp != "" && in.ConcurrencyStamp != t.ConcurrencyStamp {
		writeError(w, businessError(http.StatusConflict, "Volo.Abp.Data:DbConcurrency",
			"The data you have submitted has already changed by another user/client."))
		return
	}
	if s.nameTaken(in.Name, t.ID) {
		writeError(w, businessError(http.StatusBadRequest, "Volo.Abp.TenantManagement:DuplicateTenantName",
			"Tenant name already exists: "+in.Name))
		return
	}
	t.Name = in.Name
	if in.ExtraProperties != nil {
		t.ExtraProperties = in.ExtraProperties
	}
	t.ConcurrencyStamp = uuid.NewString()
	writeJSON(w, http.StatusOK, *t)
}

func (s *Server) deleteTenant(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.tenantIndex(w, r)
	if !ok {
		return
	}
	delete(s.connStrings, s.tenants[i].ID)
	s.tenants = slices.Delete(s.tenants, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getConnectionString(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.tenantIndex(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.connStrings[s.tenants[i].ID]))
}

func (s *Server) setConnectionString(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.tenantIndex(w, r)
	if !ok {
		return
	}
	s.connStrings[s.tenants[i].ID] = r.URL.Query().Get("defaultConnectionString")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteConnectionString(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.tenantIndex(w, r)
	if !ok {
		return
	}
	delete(s.connStrings, s.tenants[i].ID)
	w.WriteHeader(http.StatusNoContent)
}
