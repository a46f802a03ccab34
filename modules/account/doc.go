// Package account is the client side of ABP's account and account-admin
// modules.
//
// It has three parts:
//
//   - Settings resources: the five account-admin settings (general, LDAP,
//     two-factor, captcha, external providers), each as a settings.Adapter
//     plus a store constructor that installs the resource's tenant policy.
//   - Service: registration, password reset, profile, profile picture,
//     two-factor flag and tenant lookup. Inputs validate before sending.
//   - ProfileTabs: the registry of manage-profile tabs.
package account
