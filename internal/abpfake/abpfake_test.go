package abpfake_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/abpadmin/internal/abpfake"
	"github.com/dmitrymomot/abpadmin/modules/account"
	"github.com/dmitrymomot/abpadmin/modules/tenantmanagement"
	"github.com/dmitrymomot/abpadmin/pkg/abpauth"
	"github.com/dmitrymomot/abpadmin/pkg/config"
	"github.com/dmitrymomot/abpadmin/pkg/correlation"
	"github.com/dmitrymomot/abpadmin/pkg/multitenancy"
	"github.com/dmitrymomot/abpadmin/pkg/restclient"
)

func start(t *testing.T, opts ...abpfake.Option) (*abpfake.Server, *httptest.Server) {
	t.Helper()
	fake := abpfake.New(opts...)
	ts := httptest.NewServer(fake.Handler())
	t.Cleanup(ts.Close)
	return fake, ts
}

func TestSettingsPartialUpdate(t *testing.T) {
	t.Parallel()

	_, ts := start(t)
	client, err := restclient.New(ts.URL)
	require.NoError(t, err)
	adapter := account.NewGeneralSettings(client)
	ctx := context.Background()

	before, err := adapter.Get(ctx)
	require.NoError(t, err)
	require.True(t, before.EnableLocalLogin)

	off := true
	_, err = adapter.Update(ctx, account.GeneralSettingsUpdate{PreventEmailEnumeration: &off})
	require.NoError(t, err)

	after, err := adapter.Get(ctx)
	require.NoError(t, err)
	assert.True(t, after.PreventEmailEnumeration)
	assert.Equal(t, before.EnableLocalLogin, after.EnableLocalLogin)
	assert.Equal(t, before.IsSelfRegistrationEnabled, after.IsSelfRegistrationEnabled)
}

func TestFailureInjection(t *testing.T) {
	t.Parallel()

	fake, ts := start(t)
	client, err := restclient.New(ts.URL)
	require.NoError(t, err)
	adapter := account.NewLdapSettings(client)
	ctx := context.Background()

	fake.FailOnce(http.MethodGet, account.LdapSettingsPath, http.StatusInternalServerError, "Load failed")
	_, err = adapter.Get(ctx)
	require.ErrorIs(t, err, restclient.ErrServer)
	remote, ok := restclient.AsRemote(err)
	require.True(t, ok)
	assert.Equal(t, "Load failed", remote.DisplayMessage())

	_, err = adapter.Get(ctx)
	require.NoError(t, err)

	fake.Fail(http.MethodGet, account.LdapSettingsPath, http.StatusForbidden, "")
	_, err = adapter.Get(ctx)
	assert.ErrorIs(t, err, restclient.ErrForbidden)
	_, err = adapter.Get(ctx)
	assert.ErrorIs(t, err, restclient.ErrForbidden)

	fake.Clear()
	_, err = adapter.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, fake.Requests(http.MethodGet, account.LdapSettingsPath), 1)
}

func TestTenantHeaderRecorded(t *testing.T) {
	t.Parallel()

	fake, ts := start(t)
	client, err := restclient.New(ts.URL, restclient.WithTenant("acme"))
	require.NoError(t, err)

	ctx := correlation.WithContext(context.Background(), "op-1")
	_, err = account.NewTwoFactorSettings(client).Get(ctx)
	require.NoError(t, err)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "acme", reqs[0].Tenant)
	assert.Equal(t, "op-1", reqs[0].CorrelationID)
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()

	fake, ts := start(t)
	client, err := restclient.New(ts.URL)
	require.NoError(t, err)
	svc := account.NewService(client)
	ctx := context.Background()

	require.NoError(t, svc.SendPasswordResetCode(ctx, account.SendPasswordResetCodeInput{Email: abpfake.AdminEmail}))
	token := fake.ResetToken(abpfake.AdminEmail)
	require.NotEmpty(t, token)

	err = svc.ResetPassword(ctx, account.ResetPasswordInput{
		UserID: fake.UserID(), ResetToken: "wrong", Password: "2w3e4R$", ConfirmPassword: "2w3e4R$",
	})
	require.ErrorIs(t, err, restclient.ErrBadRequest)

	require.NoError(t, svc.ResetPassword(ctx, account.ResetPasswordInput{
		UserID: fake.UserID(), ResetToken: token, Password: "2w3e4R$", ConfirmPassword: "2w3e4R$",
	}))

	err = svc.ChangePassword(ctx, account.ChangePasswordInput{
		CurrentPassword: abpfake.AdminPassword, NewPassword: "3e4r5T%", NewPasswordConfirm: "3e4r5T%",
	})
	require.Error(t, err, "old password no longer valid")

	require.NoError(t, svc.ChangePassword(ctx, account.ChangePasswordInput{
		CurrentPassword: "2w3e4R$", NewPassword: "3e4r5T%", NewPasswordConfirm: "3e4r5T%",
	}))
}

func TestProfileConcurrencyStamp(t *testing.T) {
	t.Parallel()

	_, ts := start(t)
	client, err := restclient.New(ts.URL)
	require.NoError(t, err)
	svc := account.NewService(client)
	ctx := context.Background()

	profile, err := svc.Profile(ctx)
	require.NoError(t, err)

	in := profile.ToUpdate()
	in.Name = "John"
	updated, err := svc.UpdateProfile(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "John", updated.Name)

	_, err = svc.UpdateProfile(ctx, in)
	assert.ErrorIs(t, err, restclient.ErrConflict)
}

func TestTokenEndpoint(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	fake, ts := start(t,
		abpfake.WithClient("abpadmin", "secret"),
		abpfake.WithRequireToken(),
		abpfake.WithTenants(tenantmanagement.Tenant{ID: tenantID, Name: "acme"}),
	)
	ctx := context.Background()

	unauthenticated, err := restclient.New(ts.URL)
	require.NoError(t, err)
	_, err = account.NewService(unauthenticated).Profile(ctx)
	require.ErrorIs(t, err, restclient.ErrUnauthorized)

	source, err := abpauth.TokenSource(ctx, config.Auth{
		TokenURL:     ts.URL + "/connect/token",
		ClientID:     "abpadmin",
		ClientSecret: "secret",
		Username:     abpfake.AdminUserName,
		Password:     abpfake.AdminPassword,
	})
	require.NoError(t, err)

	client, err := restclient.New(ts.URL, restclient.WithTokenSource(source))
	require.NoError(t, err)
	profile, err := account.NewService(client).Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, abpfake.AdminUserName, profile.UserName)

	tok, err := source.Token()
	require.NoError(t, err)
	cur, err := multitenancy.FromAccessToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, multitenancy.Host, cur.Side())

	tenantToken, err := fake.IssueToken("someone", "acme")
	require.NoError(t, err)
	cur, err = multitenancy.FromAccessToken(tenantToken)
	require.NoError(t, err)
	assert.Equal(t, multitenancy.Tenant, cur.Side())
	assert.Equal(t, tenantID, *cur.TenantID)
	assert.Equal(t, "acme", cur.TenantName)

	_, err = abpauth.TokenSource(ctx, config.Auth{
		TokenURL: ts.URL + "/connect/token", ClientID: "abpadmin", ClientSecret: "secret",
		Username: abpfake.AdminUserName, Password: "wrong",
	})
	assert.ErrorIs(t, err, abpauth.ErrTokenRequest)
}
