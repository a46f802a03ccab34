// Package httpserver runs an http.Handler with graceful shutdown, used by the
// fake-server command to serve the fake ABP host.
//
// Run binds the listener first, so Addr reports the real address even for
// ":0", then serves until the context is cancelled or SIGINT/SIGTERM
// arrives. Start hooks receive the bound address:
//
//	srv := httpserver.New(
//		httpserver.WithAddr("127.0.0.1:0"),
//		httpserver.WithStartHook(func(l *slog.Logger, addr string) {
//			l.Info("listening", slog.String("addr", addr))
//		}),
//	)
//	err := srv.Run(ctx, handler)
//
// Listen failures are wrapped with ErrStart and shutdown failures with
// ErrShutdown.
package httpserver
