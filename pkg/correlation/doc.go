// Package correlation carries ABP correlation ids across calls.
//
// ABP reads the X-Correlation-Id header, logs it with every record of the
// request and echoes it back. The client side attaches one id per logical
// operation (one CLI invocation, say) so that every HTTP call it makes can be
// found in the server logs under the same id:
//
//	ctx = correlation.WithContext(ctx, correlation.New())
//	err := client.Get(ctx, path, &out) // sends X-Correlation-Id
//
// Middleware does the server side: it reuses a well-formed incoming id or
// generates one, stores it in the request context and echoes it.
//
// LoggerExtractor plugs into logger.WithContextExtractors to add a
// correlation_id attribute.
package correlation
