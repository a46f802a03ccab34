// Package abpfake is an in-memory stand-in for an ABP host. It serves the
// account, account-admin, multi-tenancy and token endpoints the SDK talks to,
// records every request, and can be told to fail specific calls.
//
// Tests mount Server.Handler on httptest.NewServer; the CLI's fake-server
// command serves it on a real port for local development.
package abpfake
