// Package server runs an http.Handler with configured timeouts and graceful
// shutdown, designed to be one member of an errgroup:
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//	return g.Wait()
//
// Config is read from SERVER_* environment variables. When both
// SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE are set the server speaks TLS
// (TLS 1.2 minimum).
package server
