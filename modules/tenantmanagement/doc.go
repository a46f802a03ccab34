// Package tenantmanagement manages ABP tenants: a Service over the
// multi-tenancy REST endpoints, a list store built on collection.Store with
// tenant wording, and a StateService that lets unrelated code observe the
// loaded tenant page.
package tenantmanagement
