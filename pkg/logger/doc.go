// Package logger builds *slog.Logger instances for the ABP admin client and
// provides attribute helpers so every package logs the same keys.
//
// New applies a set of Option functions on top of production defaults (JSON,
// info level, stdout). Options select the format, the level, static
// attributes and ContextExtractor callbacks. Extractors run on every record
// and pull request-scoped values, such as the current tenant side, out of the
// context passed to the *Context logging methods.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "abpadmin"),
//	    logger.WithContextExtractors(multitenancy.LoggerExtractor()),
//	)
//	log.DebugContext(ctx, "settings reloaded",
//	    logger.Component("settings"),
//	    logger.Resource("captcha"),
//	    logger.Seq(seq),
//	)
//
// Error and Errors return an empty attribute for nil errors so callers can
// pass them unconditionally.
package logger
