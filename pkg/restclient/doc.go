// Package restclient is the HTTP transport used by every ABP service in this
// module.
//
// A Client is bound to one ABP host. It encodes request bodies as JSON (or
// multipart for file uploads), injects the bearer token from an
// oauth2.TokenSource and the ABP "__tenant" header, and decodes ABP's error
// envelope
//
//	{"error": {"code": "...", "message": "...", "details": "...", "validationErrors": [...]}}
//
// into *RemoteError. RemoteError matches the status sentinels (ErrNotFound,
// ErrUnauthorized, ...) with errors.Is.
//
// A Client may carry a global ErrorHook, the equivalent of a UI's error toast.
// Calls made with SkipErrorHandling bypass the hook; the error is still
// returned to the caller unchanged.
//
// The client performs exactly one attempt per call. There is no retry or
// backoff; the per-request timeout is the only transport policy.
package restclient
