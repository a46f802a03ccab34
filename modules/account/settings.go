package account

import (
	"slices"

	"github.com/dmitrymomot/abpadmin/pkg/multitenancy"
	"github.com/dmitrymomot/abpadmin/pkg/settings"
	"github.com/dmitrymomot/abpadmin/pkg/validator"
)

const settingsPath = "/api/account-admin/settings"

// Resource paths.
const (
	GeneralSettingsPath          = settingsPath
	LdapSettingsPath             = settingsPath + "/ldap"
	TwoFactorSettingsPath        = settingsPath + "/two-factor"
	CaptchaSettingsPath          = settingsPath + "/captcha"
	ExternalProviderSettingsPath = settingsPath + "/external-provider"
)

// GeneralSettings is the account-admin general settings resource.
type GeneralSettings struct {
	IsSelfRegistrationEnabled bool `json:"isSelfRegistrationEnabled" yaml:"isSelfRegistrationEnabled"`
	EnableLocalLogin          bool `json:"enableLocalLogin" yaml:"enableLocalLogin"`
	PreventEmailEnumeration   bool `json:"preventEmailEnumeration" yaml:"preventEmailEnumeration"`
}

// GeneralSettingsUpdate carries the fields to change; nil means unchanged.
type GeneralSettingsUpdate struct {
	IsSelfRegistrationEnabled *bool `json:"isSelfRegistrationEnabled,omitempty" yaml:"isSelfRegistrationEnabled,omitempty"`
	EnableLocalLogin          *bool `json:"enableLocalLogin,omitempty" yaml:"enableLocalLogin,omitempty"`
	PreventEmailEnumeration   *bool `json:"preventEmailEnumeration,omitempty" yaml:"preventEmailEnumeration,omitempty"`
}

// ToUpdate returns a full update carrying every current value.
func (s GeneralSettings) ToUpdate() GeneralSettingsUpdate {
	return GeneralSettingsUpdate{
		IsSelfRegistrationEnabled: ptr(s.IsSelfRegistrationEnabled),
		EnableLocalLogin:          ptr(s.EnableLocalLogin),
		PreventEmailEnumeration:   ptr(s.PreventEmailEnumeration),
	}
}

// LdapSettings is the LDAP login configuration.
type LdapSettings struct {
	EnableLdapLogin bool   `json:"enableLdapLogin" yaml:"enableLdapLogin"`
	LdapServerHost  string `json:"ldapServerHost" yaml:"ldapServerHost"`
	LdapServerPort  string `json:"ldapServerPort" yaml:"ldapServerPort"`
	LdapBaseDc      string `json:"ldapBaseDc" yaml:"ldapBaseDc"`
	LdapDomain      string `json:"ldapDomain" yaml:"ldapDomain"`
	LdapUserName    string `json:"ldapUserName" yaml:"ldapUserName"`
	LdapPassword    string `json:"ldapPassword" yaml:"ldapPassword"`
}

// LdapSettingsUpdate changes the LDAP settings. Nil fields are left as they are.
type LdapSettingsUpdate struct {
	EnableLdapLogin *bool   `json:"enableLdapLogin,omitempty" yaml:"enableLdapLogin,omitempty"`
	LdapServerHost  *string `json:"ldapServerHost,omitempty" yaml:"ldapServerHost,omitempty"`
	LdapServerPort  *string `json:"ldapServerPort,omitempty" yaml:"ldapServerPort,omitempty"`
	LdapBaseDc      *string `json:"ldapBaseDc,omitempty" yaml:"ldapBaseDc,omitempty"`
	LdapDomain      *string `json:"ldapDomain,omitempty" yaml:"ldapDomain,omitempty"`
	LdapUserName    *string `json:"ldapUserName,omitempty" yaml:"ldapUserName,omitempty"`
	LdapPassword    *string `json:"ldapPassword,omitempty" yaml:"ldapPassword,omitempty"`
}

// ToUpdate returns a full update carrying every current value.
func (s LdapSettings) ToUpdate() LdapSettingsUpdate {
	return LdapSettingsUpdate{
		EnableLdapLogin: ptr(s.EnableLdapLogin),
		LdapServerHost:  ptr(s.LdapServerHost),
		LdapServerPort:  ptr(s.LdapServerPort),
		LdapBaseDc:      ptr(s.LdapBaseDc),
		LdapDomain:      ptr(s.LdapDomain),
		LdapUserName:    ptr(s.LdapUserName),
		LdapPassword:    ptr(s.LdapPassword),
	}
}

// Validate requires a host when LDAP login is being enabled.
func (u LdapSettingsUpdate) Validate() error {
	enabling := u.EnableLdapLogin != nil && *u.EnableLdapLogin
	return validator.Apply(
		validator.When(enabling && u.LdapServerHost != nil, validator.Required("ldapServerHost", deref(u.LdapServerHost))),
		validator.When(u.LdapServerPort != nil && *u.LdapServerPort != "", validator.Between("ldapServerPort", atoi(deref(u.LdapServerPort)), 1, 65535)),
	)
}

// TwoFactorBehaviour is ABP's two-factor enforcement mode.
type TwoFactorBehaviour int

const (
	TwoFactorOptional TwoFactorBehaviour = iota
	TwoFactorDisabled
	TwoFactorForced
)

// String returns the lower-case mode name.
func (b TwoFactorBehaviour) String() string {
	switch b {
	case TwoFactorOptional:
		return "optional"
	case TwoFactorDisabled:
		return "disabled"
	case TwoFactorForced:
		return "forced"
	default:
		return "unknown"
	}
}

// TwoFactorSettings is the account-admin two-factor resource.
type TwoFactorSettings struct {
	TwoFactorBehaviour       TwoFactorBehaviour `json:"twoFactorBehaviour" yaml:"twoFactorBehaviour"`
	IsRememberBrowserEnabled bool               `json:"isRememberBrowserEnabled" yaml:"isRememberBrowserEnabled"`
	UsersCanChange           bool               `json:"usersCanChange" yaml:"usersCanChange"`
}

// TwoFactorSettingsUpdate changes the two-factor settings. Nil fields are left as they are.
type TwoFactorSettingsUpdate struct {
	TwoFactorBehaviour       *TwoFactorBehaviour `json:"twoFactorBehaviour,omitempty" yaml:"twoFactorBehaviour,omitempty"`
	IsRememberBrowserEnabled *bool               `json:"isRememberBrowserEnabled,omitempty" yaml:"isRememberBrowserEnabled,omitempty"`
	UsersCanChange           *bool               `json:"usersCanChange,omitempty" yaml:"usersCanChange,omitempty"`
}

// ToUpdate returns a full update carrying every current value.
func (s TwoFactorSettings) ToUpdate() TwoFactorSettingsUpdate {
	return TwoFactorSettingsUpdate{
		TwoFactorBehaviour:       ptr(s.TwoFactorBehaviour),
		IsRememberBrowserEnabled: ptr(s.IsRememberBrowserEnabled),
		UsersCanChange:           ptr(s.UsersCanChange),
	}
}

// Validate rejects unknown enforcement modes.
func (u TwoFactorSettingsUpdate) Validate() error {
	return validator.Apply(
		validator.When(u.TwoFactorBehaviour != nil, validator.OneOf("twoFactorBehaviour",
			deref(u.TwoFactorBehaviour), TwoFactorOptional, TwoFactorDisabled, TwoFactorForced)),
	)
}

// CaptchaSettings configures reCAPTCHA for login and registration.
type CaptchaSettings struct {
	UseCaptchaOnLogin        bool    `json:"useCaptchaOnLogin" yaml:"useCaptchaOnLogin"`
	UseCaptchaOnRegistration bool    `json:"useCaptchaOnRegistration" yaml:"useCaptchaOnRegistration"`
	VerifyBaseURL            string  `json:"verifyBaseUrl" yaml:"verifyBaseUrl"`
	SiteKey                  string  `json:"siteKey" yaml:"siteKey"`
	SiteSecret               string  `json:"siteSecret" yaml:"siteSecret"`
	Version                  int     `json:"version" yaml:"version"`
	Score                    float64 `json:"score" yaml:"score"`
}

// CaptchaSettingsUpdate changes the captcha settings. Nil fields are left as they are.
type CaptchaSettingsUpdate struct {
	UseCaptchaOnLogin        *bool    `json:"useCaptchaOnLogin,omitempty" yaml:"useCaptchaOnLogin,omitempty"`
	UseCaptchaOnRegistration *bool    `json:"useCaptchaOnRegistration,omitempty" yaml:"useCaptchaOnRegistration,omitempty"`
	VerifyBaseURL            *string  `json:"verifyBaseUrl,omitempty" yaml:"verifyBaseUrl,omitempty"`
	SiteKey                  *string  `json:"siteKey,omitempty" yaml:"siteKey,omitempty"`
	SiteSecret               *string  `json:"siteSecret,omitempty" yaml:"siteSecret,omitempty"`
	Version                  *int     `json:"version,omitempty" yaml:"version,omitempty"`
	Score                    *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// ToUpdate returns a full update carrying every current value.
func (s CaptchaSettings) ToUpdate() CaptchaSettingsUpdate {
	return CaptchaSettingsUpdate{
		UseCaptchaOnLogin:        ptr(s.UseCaptchaOnLogin),
		UseCaptchaOnRegistration: ptr(s.UseCaptchaOnRegistration),
		VerifyBaseURL:            ptr(s.VerifyBaseURL),
		SiteKey:                  ptr(s.SiteKey),
		SiteSecret:               ptr(s.SiteSecret),
		Version:                  ptr(s.Version),
		Score:                    ptr(s.Score),
	}
}

// Validate checks version, score and the verify URL when they are set.
func (u CaptchaSettingsUpdate) Validate() error {
	return validator.Apply(
		validator.When(u.Version != nil, validator.OneOf("version", deref(u.Version), 2, 3)),
		validator.When(u.Score != nil, validator.Between("score", deref(u.Score), 0, 1)),
		validator.When(u.VerifyBaseURL != nil && *u.VerifyBaseURL != "", validator.URL("verifyBaseUrl", deref(u.VerifyBaseURL))),
	)
}

// ExternalProviderSettings lists the configured external login providers.
type ExternalProviderSettings struct {
	VerifyPasswordDuringExternalLogin bool               `json:"verifyPasswordDuringExternalLogin" yaml:"verifyPasswordDuringExternalLogin"`
	Settings                          []ExternalProvider `json:"settings" yaml:"settings"`
}

// ExternalProvider is one login provider. UseHostSettings is nil when the
// server omits it.
type ExternalProvider struct {
	Name             string             `json:"name" yaml:"name"`
	Enabled          bool               `json:"enabled" yaml:"enabled"`
	UseHostSettings  *bool              `json:"useHostSettings,omitempty" yaml:"useHostSettings,omitempty"`
	Properties       []ProviderProperty `json:"properties" yaml:"properties"`
	SecretProperties []ProviderProperty `json:"secretProperties" yaml:"secretProperties"`
}

func (p ExternalProvider) usesHost() bool {
	return p.UseHostSettings != nil && *p.UseHostSettings
}

func (p ExternalProvider) clone() ExternalProvider {
	p.Properties = slices.Clone(p.Properties)
	p.SecretProperties = slices.Clone(p.SecretProperties)
	if p.UseHostSettings != nil {
		p.UseHostSettings = ptr(*p.UseHostSettings)
	}
	return p
}

// ProviderProperty is one named provider setting.
type ProviderProperty struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ExternalProviderSettingsUpdate replaces the provider list when Settings is non-nil.
type ExternalProviderSettingsUpdate struct {
	VerifyPasswordDuringExternalLogin *bool              `json:"verifyPasswordDuringExternalLogin,omitempty" yaml:"verifyPasswordDuringExternalLogin,omitempty"`
	Settings                          []ExternalProvider `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// ToUpdate returns a deep copy of s as an update.
func (s ExternalProviderSettings) ToUpdate() ExternalProviderSettingsUpdate {
	out := ExternalProviderSettingsUpdate{VerifyPasswordDuringExternalLogin: ptr(s.VerifyPasswordDuringExternalLogin)}
	for _, p := range s.Settings {
		out.Settings = append(out.Settings, p.clone())
	}
	return out
}

// Validate requires a name on every provider.
func (u ExternalProviderSettingsUpdate) Validate() error {
	var rules []validator.Rule
	for i, p := range u.Settings {
		rules = append(rules, validator.Required(indexed("settings", i, "name"), p.Name))
	}
	return validator.Apply(rules...)
}

// Settings resource adapters.
type (
	GeneralSettingsAdapter          = settings.Adapter[GeneralSettings, GeneralSettingsUpdate]
	LdapSettingsAdapter             = settings.Adapter[LdapSettings, LdapSettingsUpdate]
	TwoFactorSettingsAdapter        = settings.Adapter[TwoFactorSettings, TwoFactorSettingsUpdate]
	CaptchaSettingsAdapter          = settings.Adapter[CaptchaSettings, CaptchaSettingsUpdate]
	ExternalProviderSettingsAdapter = settings.Adapter[ExternalProviderSettings, ExternalProviderSettingsUpdate]
)

// NewGeneralSettings returns the general settings adapter.
func NewGeneralSettings(client settings.Requester) *GeneralSettingsAdapter {
	return settings.NewAdapter[GeneralSettings, GeneralSettingsUpdate](client, "general", GeneralSettingsPath)
}

// NewLdapSettings returns the LDAP settings adapter.
func NewLdapSettings(client settings.Requester) *LdapSettingsAdapter {
	return settings.NewAdapter[LdapSettings, LdapSettingsUpdate](client, "ldap", LdapSettingsPath)
}

// NewTwoFactorSettings returns the two-factor settings adapter.
func NewTwoFactorSettings(client settings.Requester) *TwoFactorSettingsAdapter {
	return settings.NewAdapter[TwoFactorSettings, TwoFactorSettingsUpdate](client, "two-factor", TwoFactorSettingsPath)
}

// NewCaptchaSettings returns the captcha settings adapter.
func NewCaptchaSettings(client settings.Requester) *CaptchaSettingsAdapter {
	return settings.NewAdapter[CaptchaSettings, CaptchaSettingsUpdate](client, "captcha", CaptchaSettingsPath)
}

// NewExternalProviderSettings returns the external provider settings adapter.
func NewExternalProviderSettings(client settings.Requester) *ExternalProviderSettingsAdapter {
	return settings.NewAdapter[ExternalProviderSettings, ExternalProviderSettingsUpdate](client, "external-provider", ExternalProviderSettingsPath)
}

// Settings stores. Extra options are applied after the resource defaults.

// NewGeneralSettingsStore returns a store for the general settings.
func NewGeneralSettingsStore(client settings.Requester, side multitenancy.Side, opts ...settings.Option[GeneralSettings, GeneralSettingsUpdate]) *settings.Store[GeneralSettings, GeneralSettingsUpdate] {
	base := []settings.Option[GeneralSettings, GeneralSettingsUpdate]{
		settings.WithSide[GeneralSettings, GeneralSettingsUpdate](side),
	}
	return settings.NewStore(NewGeneralSettings(client), append(base, opts...)...)
}

// NewLdapSettingsStore returns a store for the LDAP settings.
func NewLdapSettingsStore(client settings.Requester, side multitenancy.Side, opts ...settings.Option[LdapSettings, LdapSettingsUpdate]) *settings.Store[LdapSettings, LdapSettingsUpdate] {
	base := []settings.Option[LdapSettings, LdapSettingsUpdate]{
		settings.WithSide[LdapSettings, LdapSettingsUpdate](side),
	}
	return settings.NewStore(NewLdapSettings(client), append(base, opts...)...)
}

// NewTwoFactorSettingsStore returns a store for the two-factor settings.
func NewTwoFactorSettingsStore(client settings.Requester, side multitenancy.Side, opts ...settings.Option[TwoFactorSettings, TwoFactorSettingsUpdate]) *settings.Store[TwoFactorSettings, TwoFactorSettingsUpdate] {
	base := []settings.Option[TwoFactorSettings, TwoFactorSettingsUpdate]{
		settings.WithSide[TwoFactorSettings, TwoFactorSettingsUpdate](side),
	}
	return settings.NewStore(NewTwoFactorSettings(client), append(base, opts...)...)
}

// NewCaptchaSettingsStore installs TenantCaptchaMapper for tenant callers.
func NewCaptchaSettingsStore(client settings.Requester, side multitenancy.Side, opts ...settings.Option[CaptchaSettings, CaptchaSettingsUpdate]) *settings.Store[CaptchaSettings, CaptchaSettingsUpdate] {
	base := []settings.Option[CaptchaSettings, CaptchaSettingsUpdate]{
		settings.WithSide[CaptchaSettings, CaptchaSettingsUpdate](side),
		settings.WithSubmitMapper[CaptchaSettings, CaptchaSettingsUpdate](TenantCaptchaMapper),
	}
	return settings.NewStore(NewCaptchaSettings(client), append(base, opts...)...)
}

// NewExternalProviderSettingsStore installs TenantExternalProviderMapper and
// TenantExternalProviderTransform for tenant callers.
func NewExternalProviderSettingsStore(client settings.Requester, side multitenancy.Side, opts ...settings.Option[ExternalProviderSettings, ExternalProviderSettingsUpdate]) *settings.Store[ExternalProviderSettings, ExternalProviderSettingsUpdate] {
	base := []settings.Option[ExternalProviderSettings, ExternalProviderSettingsUpdate]{
		settings.WithSide[ExternalProviderSettings, ExternalProviderSettingsUpdate](side),
		settings.WithSubmitMapper[ExternalProviderSettings, ExternalProviderSettingsUpdate](TenantExternalProviderMapper),
		settings.WithLoadTransform[ExternalProviderSettings, ExternalProviderSettingsUpdate](TenantExternalProviderTransform),
	}
	return settings.NewStore(NewExternalProviderSettings(client), append(base, opts...)...)
}
