package account_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/abpadmin/modules/account"
)

func ptr[T any](v T) *T { return &v }

func TestTenantCaptchaMapper(t *testing.T) {
	t.Parallel()

	in := account.CaptchaSettingsUpdate{
		UseCaptchaOnLogin: ptr(false),
		VerifyBaseURL:     ptr("https://www.google.com"),
		Score:             ptr(0.5),
		Version:           ptr(2),
		SiteKey:           ptr("k"),
		SiteSecret:        ptr("s"),
	}

	out := account.TenantCaptchaMapper(in)
	assert.Equal(t, account.CaptchaSettingsUpdate{
		Version:    ptr(2),
		SiteKey:    ptr("k"),
		SiteSecret: ptr("s"),
	}, out)
	assert.NotNil(t, in.UseCaptchaOnLogin)
}

func externalProviders() account.ExternalProviderSettingsUpdate {
	return account.ExternalProviderSettingsUpdate{
		VerifyPasswordDuringExternalLogin: ptr(true),
		Settings: []account.ExternalProvider{
			{
				Name:             "Google",
				Enabled:          true,
				UseHostSettings:  ptr(true),
				Properties:       []account.ProviderProperty{{Name: "ClientId", Value: "id"}},
				SecretProperties: []account.ProviderProperty{{Name: "ClientSecret", Value: "secret"}},
			},
			{
				Name:             "GitHub",
				Enabled:          false,
				UseHostSettings:  ptr(false),
				Properties:       []account.ProviderProperty{{Name: "ClientId", Value: "gh"}},
				SecretProperties: []account.ProviderProperty{{Name: "ClientSecret", Value: "ghs"}},
			},
		},
	}
}

func TestTenantExternalProviderMapper(t *testing.T) {
	t.Parallel()

	in := externalProviders()
	out := account.TenantExternalProviderMapper(in)

	require.Len(t, out.Settings, 2)
	google := out.Settings[0]
	assert.Equal(t, "Google", google.Name)
	assert.True(t, google.Enabled)
	assert.Equal(t, []account.ProviderProperty{{Name: "ClientId", Value: ""}}, google.Properties)
	assert.Equal(t, []account.ProviderProperty{{Name: "ClientSecret", Value: ""}}, google.SecretProperties)

	assert.Equal(t, in.Settings[1], out.Settings[1])
	assert.Equal(t, in.VerifyPasswordDuringExternalLogin, out.VerifyPasswordDuringExternalLogin)

	assert.Equal(t, externalProviders(), in, "input must not be modified")
}

func TestTenantExternalProviderMapper_EmptyProperties(t *testing.T) {
	t.Parallel()

	in := account.ExternalProviderSettingsUpdate{Settings: []account.ExternalProvider{{
		Name:             "GitHub",
		UseHostSettings:  ptr(false),
		Properties:       []account.ProviderProperty{},
		SecretProperties: []account.ProviderProperty{},
	}}}

	out := account.TenantExternalProviderMapper(in)
	require.Len(t, out.Settings, 1)
	assert.NotNil(t, out.Settings[0].Properties)
	assert.NotNil(t, out.Settings[0].SecretProperties)

	raw, err := json.Marshal(out.Settings[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"GitHub","enabled":false,"useHostSettings":false,"properties":[],"secretProperties":[]}`, string(raw))
}

func TestTenantExternalProviderTransform(t *testing.T) {
	t.Parallel()

	in := account.ExternalProviderSettings{Settings: []account.ExternalProvider{
		{Name: "Google"},
		{Name: "GitHub", UseHostSettings: ptr(false)},
	}}

	out := account.TenantExternalProviderTransform(in)
	require.Len(t, out.Settings, 2)
	require.NotNil(t, out.Settings[0].UseHostSettings)
	assert.True(t, *out.Settings[0].UseHostSettings)
	assert.False(t, *out.Settings[1].UseHostSettings)
	assert.Nil(t, in.Settings[0].UseHostSettings)

	assert.Nil(t, account.TenantExternalProviderTransform(account.ExternalProviderSettings{}).Settings)
}

func TestSettingsToUpdate(t *testing.T) {
	t.Parallel()

	c := account.CaptchaSettings{UseCaptchaOnLogin: true, Version: 3, Score: 0.7, SiteKey: "k"}
	u := c.ToUpdate()
	assert.True(t, *u.UseCaptchaOnLogin)
	assert.Equal(t, 3, *u.Version)
	assert.Equal(t, "k", *u.SiteKey)
	require.NoError(t, u.Validate())

	l := account.LdapSettings{EnableLdapLogin: true, LdapServerPort: "389"}
	err := l.ToUpdate().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ldapServerHost")

	tf := account.TwoFactorSettingsUpdate{TwoFactorBehaviour: ptr(account.TwoFactorBehaviour(5))}
	assert.Error(t, tf.Validate())
	assert.Equal(t, "forced", account.TwoFactorForced.String())

	bad := account.CaptchaSettingsUpdate{Version: ptr(1), Score: ptr(2.0)}
	assert.Error(t, bad.Validate())
}
