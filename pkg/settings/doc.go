// Package settings binds one server-side settings resource to a stateful
// store.
//
// An Adapter is stateless: it maps Get and Update onto GET and PUT of a fixed
// path. T is the read shape and S the submit shape; they are separate named
// types per resource.
//
// A Store owns the (data, loading, error) triple for one Adapter. Reload
// replaces the snapshot wholesale with the server's answer. Submit sends a
// payload and, on success, reloads, so the snapshot always reflects server
// truth and is never merged from the payload. For tenant callers the store
// applies the resource's submit Mapper before sending and its load Transform
// after fetching.
//
// Every call takes a new sequence number; a result is committed only if no
// newer call started meanwhile, so the latest call wins. A failed Reload keeps
// the previous snapshot and records the error.
//
//	store := settings.NewStore(adapter,
//	    settings.WithSide[CaptchaSettings, CaptchaSettingsUpdate](multitenancy.Tenant),
//	    settings.WithSubmitMapper[CaptchaSettings](TenantCaptchaPolicy),
//	)
//	_ = store.Mount(ctx)
//	st := store.State()
package settings
