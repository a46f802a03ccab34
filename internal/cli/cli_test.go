package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/abpadmin/internal/abpfake"
	"github.com/dmitrymomot/abpadmin/internal/cli"
	"github.com/dmitrymomot/abpadmin/modules/account"
	"github.com/dmitrymomot/abpadmin/modules/tenantmanagement"
)

type harness struct {
	fake *abpfake.Server
	url  string
}

// newHarness serves a fake host and points the CLI at it with a token for
// tenant, or a host token when tenant is empty.
func newHarness(t *testing.T, tenant string, opts ...abpfake.Option) *harness {
	t.Helper()
	fake := abpfake.New(append([]abpfake.Option{abpfake.WithRequireToken()}, opts...)...)
	ts := httptest.NewServer(fake.Handler())
	t.Cleanup(ts.Close)

	token, err := fake.IssueToken(fake.UserID().String(), tenant)
	require.NoError(t, err)
	t.Setenv("ABP_AUTH_ACCESS_TOKEN", token)
	t.Setenv("LOG_LEVEL", "error")
	return &harness{fake: fake, url: ts.URL}
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--base-url", h.url}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestSettingsGet(t *testing.T) {
	h := newHarness(t, "")

	out, err := h.run(t, "", "settings", "get", "general")
	require.NoError(t, err)
	var general account.GeneralSettings
	require.NoError(t, yaml.Unmarshal([]byte(out), &general))
	assert.True(t, general.IsSelfRegistrationEnabled)
	assert.True(t, general.EnableLocalLogin)

	_, err = h.run(t, "", "settings", "get", "smtp")
	assert.ErrorIs(t, err, cli.ErrUnknownResource)

	_, err = h.run(t, "", "-o", "toml", "settings", "get", "general")
	assert.ErrorIs(t, err, cli.ErrInvalidOutput)
}

func TestSettingsGetAll(t *testing.T) {
	h := newHarness(t, "")

	out, err := h.run(t, "", "-o", "json", "settings", "get", "all")
	require.NoError(t, err)
	all := decodeJSON[map[string]json.RawMessage](t, out)
	assert.Len(t, all, 5)
	for _, name := range []string{"general", "ldap", "two-factor", "captcha", "external-provider"} {
		assert.Contains(t, all, name)
	}
	ids := map[string]bool{}
	for _, r := range h.fake.Requests(http.MethodGet) {
		ids[r.CorrelationID] = true
	}
	assert.Len(t, ids, 1, "one invocation shares one correlation id")

	h.fake.Fail(http.MethodGet, account.LdapSettingsPath, http.StatusInternalServerError, "LDAP store offline")
	_, err = h.run(t, "", "settings", "get", "all")
	require.Error(t, err)
	assert.Equal(t, "ldap: LDAP store offline", err.Error())
}

func TestSettingsSet(t *testing.T) {
	h := newHarness(t, "")

	in := `{"enableLdapLogin": true, "ldapServerHost": "ldap.local", "ldapServerPort": "389"}`
	out, err := h.run(t, in, "-o", "json", "settings", "set", "ldap")
	require.NoError(t, err)
	ldap := decodeJSON[account.LdapSettings](t, out)
	assert.True(t, ldap.EnableLdapLogin)
	assert.Equal(t, "ldap.local", ldap.LdapServerHost)

	t.Run("validation stops the request", func(t *testing.T) {
		h.fake.Clear()
		_, err := h.run(t, "enableLdapLogin: true\nldapServerHost: \"\"\n", "settings", "set", "ldap")
		require.Error(t, err)
		assert.Empty(t, h.fake.Requests(http.MethodPut))
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		_, err := h.run(t, "ldapHost: x\n", "settings", "set", "ldap")
		assert.ErrorIs(t, err, cli.ErrInvalidInput)
	})

	t.Run("server failure uses the fallback message", func(t *testing.T) {
		h.fake.FailOnce(http.MethodPut, account.GeneralSettingsPath, http.StatusInternalServerError, "")
		_, err := h.run(t, "preventEmailEnumeration: true\n", "settings", "set", "general")
		require.Error(t, err)
		assert.Equal(t, "Failed to update settings", err.Error())
	})
}

func TestSettingsSetAsTenant(t *testing.T) {
	acme := tenantmanagement.Tenant{ID: uuid.New(), Name: "acme", ConcurrencyStamp: uuid.NewString()}
	h := newHarness(t, "acme", abpfake.WithTenants(acme))

	in := "siteKey: tenant-key\nscore: 0.9\nuseCaptchaOnLogin: true\n"
	_, err := h.run(t, in, "settings", "set", "captcha")
	require.NoError(t, err)

	puts := h.fake.Requests(http.MethodPut, account.CaptchaSettingsPath)
	require.Len(t, puts, 1)
	body := decodeJSON[map[string]any](t, string(puts[0].Body))
	assert.Equal(t, "tenant-key", body["siteKey"])
	assert.NotContains(t, body, "score")
	assert.NotContains(t, body, "useCaptchaOnLogin")
}

func TestTenants(t *testing.T) {
	h := newHarness(t, "")

	out, err := h.run(t, "", "-o", "json", "tenants", "create",
		"--name", "acme", "--admin-email", "admin@acme.test", "--admin-password", "1q2w3E*")
	require.NoError(t, err)
	created := decodeJSON[tenantmanagement.Tenant](t, out)
	require.NotEqual(t, uuid.Nil, created.ID)

	_, err = h.run(t, "name: globex\nadminEmailAddress: admin@globex.test\nadminPassword: 1q2w3E*\n", "tenants", "create", "-f", "-")
	require.NoError(t, err)

	out, err = h.run(t, "", "-o", "json", "tenants", "list", "--sort", "name", "--order", "desc")
	require.NoError(t, err)
	list := decodeJSON[struct {
		Items      []tenantmanagement.Tenant `json:"items"`
		TotalCount int64                     `json:"totalCount"`
	}](t, out)
	require.Len(t, list.Items, 2)
	assert.Equal(t, int64(2), list.TotalCount)
	assert.Equal(t, "globex", list.Items[0].Name)

	out, err = h.run(t, "", "-o", "json", "tenants", "update", created.ID.String(), "--name", "acme-corp")
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", decodeJSON[tenantmanagement.Tenant](t, out).Name)

	out, err = h.run(t, "", "-o", "json", "tenants", "get", created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "acme-corp", decodeJSON[tenantmanagement.Tenant](t, out).Name)

	_, err = h.run(t, "", "tenants", "connection-string", "set", created.ID.String(), "Server=db;Database=acme")
	require.NoError(t, err)
	out, err = h.run(t, "", "-o", "json", "tenants", "cs", "get", created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Server=db;Database=acme", decodeJSON[map[string]string](t, out)["defaultConnectionString"])
	_, err = h.run(t, "", "tenants", "connection-string", "delete", created.ID.String())
	require.NoError(t, err)

	_, err = h.run(t, "", "tenants", "delete", created.ID.String())
	require.NoError(t, err)

	_, err = h.run(t, "", "tenants", "get", created.ID.String())
	require.Error(t, err)

	_, err = h.run(t, "", "tenants", "get", "not-a-uuid")
	assert.ErrorIs(t, err, cli.ErrInvalidArgument)
}

func TestTenantsListFailure(t *testing.T) {
	h := newHarness(t, "")
	h.fake.Fail(http.MethodGet, tenantmanagement.TenantsPath, http.StatusInternalServerError, "")

	_, err := h.run(t, "", "tenants", "list")
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch tenants", err.Error())
}

func TestAccount(t *testing.T) {
	acme := tenantmanagement.Tenant{ID: uuid.New(), Name: "acme", ConcurrencyStamp: uuid.NewString()}
	h := newHarness(t, "", abpfake.WithTenants(acme))

	out, err := h.run(t, "", "-o", "json", "account", "find-tenant", "acme")
	require.NoError(t, err)
	found := decodeJSON[account.FindTenantResult](t, out)
	assert.True(t, found.Success)
	require.NotNil(t, found.TenantID)
	assert.Equal(t, acme.ID, *found.TenantID)

	out, err = h.run(t, "", "-o", "json", "account", "register",
		"--user-name", "jane", "--email", "jane@example.test", "--password", "1q2w3E*")
	require.NoError(t, err)
	assert.Equal(t, "jane", decodeJSON[account.IdentityUser](t, out).UserName)

	_, err = h.run(t, "", "account", "register", "--user-name", "jane", "--email", "not-an-email", "--password", "x")
	require.Error(t, err)
	assert.Len(t, h.fake.Requests(http.MethodPost, account.RegisterPath), 1, "invalid input is not sent")

	_, err = h.run(t, "", "account", "send-reset-code", "--email", abpfake.AdminEmail)
	require.NoError(t, err)
	token := h.fake.ResetToken(abpfake.AdminEmail)
	require.NotEmpty(t, token)

	_, err = h.run(t, "", "account", "reset-password",
		"--user-id", h.fake.UserID().String(), "--token", token, "--password", "N3w!pass")
	require.NoError(t, err)
}

func TestProfile(t *testing.T) {
	h := newHarness(t, "")

	out, err := h.run(t, "", "-o", "json", "profile", "update", "--name", "Ada", "--surname", "Lovelace")
	require.NoError(t, err)
	p := decodeJSON[account.Profile](t, out)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, abpfake.AdminUserName, p.UserName)

	out, err = h.run(t, "", "-o", "json", "profile", "tabs")
	require.NoError(t, err)
	tabs := decodeJSON[[]map[string]string](t, out)
	require.Len(t, tabs, 4)
	assert.Equal(t, account.TabPersonalInfo, tabs[0]["name"])

	_, err = h.run(t, "", "profile", "change-password", "--current", "wrong", "--new", "N3w!pass")
	require.Error(t, err)
	assert.Equal(t, "Incorrect password.", err.Error())

	_, err = h.run(t, "", "profile", "change-password", "--current", abpfake.AdminPassword, "--new", "N3w!pass")
	require.NoError(t, err)

	_, err = h.run(t, "", "profile", "two-factor", "set", "true")
	require.NoError(t, err)
	out, err = h.run(t, "", "-o", "json", "profile", "two-factor", "get")
	require.NoError(t, err)
	assert.True(t, decodeJSON[map[string]bool](t, out)["enabled"])

	_, err = h.run(t, "", "profile", "two-factor", "set", "maybe")
	assert.ErrorIs(t, err, cli.ErrInvalidArgument)

	_, err = h.run(t, "", "profile", "picture", "set", "--type", "gravatar")
	require.NoError(t, err)
	out, err = h.run(t, "", "-o", "json", "profile", "picture", "get")
	require.NoError(t, err)
	assert.Equal(t, "gravatar", decodeJSON[map[string]any](t, out)["type"])
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFakeServer(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	cmd := cli.NewRootCmd()
	out := &syncBuffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"fake-server", "--addr", "127.0.0.1:0", "--tenant-seed", "acme"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	var baseURL string
	require.Eventually(t, func() bool {
		for _, line := range strings.Split(out.String(), "\n") {
			if v, ok := strings.CutPrefix(line, "ABP_BASE_URL="); ok {
				baseURL = v
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get(baseURL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "ALIVE", string(body))

	resp, err = http.Get(baseURL + tenantmanagement.TenantsPath)
	require.NoError(t, err)
	var page struct {
		TotalCount int64 `json:"totalCount"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, int64(1), page.TotalCount)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.Fail(t, "fake-server did not stop")
	}
}
