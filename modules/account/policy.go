package account

// TenantCaptchaMapper forwards only version, siteKey and siteSecret. Tenants
// may not change where or how captcha is enforced.
func TenantCaptchaMapper(in CaptchaSettingsUpdate) CaptchaSettingsUpdate {
	return CaptchaSettingsUpdate{
		Version:    in.Version,
		SiteKey:    in.SiteKey,
		SiteSecret: in.SiteSecret,
	}
}

// TenantExternalProviderMapper blanks every property and secret property
// value of providers that use host settings. Name and enabled are kept and
// in is not modified.
func TenantExternalProviderMapper(in ExternalProviderSettingsUpdate) ExternalProviderSettingsUpdate {
	out := ExternalProviderSettingsUpdate{VerifyPasswordDuringExternalLogin: in.VerifyPasswordDuringExternalLogin}
	if in.Settings == nil {
		return out
	}
	out.Settings = make([]ExternalProvider, 0, len(in.Settings))
	for _, p := range in.Settings {
		p = p.clone()
		if p.usesHost() {
			blank(p.Properties)
			blank(p.SecretProperties)
		}
		out.Settings = append(out.Settings, p)
	}
	return out
}

// TenantExternalProviderTransform defaults a missing useHostSettings to true.
func TenantExternalProviderTransform(in ExternalProviderSettings) ExternalProviderSettings {
	out := in
	if in.Settings == nil {
		return out
	}
	out.Settings = make([]ExternalProvider, 0, len(in.Settings))
	for _, p := range in.Settings {
		p = p.clone()
		if p.UseHostSettings == nil {
			p.UseHostSettings = ptr(true)
		}
		out.Settings = append(out.Settings, p)
	}
	return out
}

func blank(props []ProviderProperty) {
	for i := range props {
		props[i].Value = ""
	}
}
