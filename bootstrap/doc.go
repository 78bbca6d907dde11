// Package bootstrap orchestrates the service lifecycle: it validates
// configuration, initializes the logger, starts registered components in
// order, and shuts everything down gracefully on OS signals.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.RegisterComponent(server.NewComponent(srv))
//	if err := app.Run(ctx); err != nil {
//	    os.Exit(1)
//	}
//
// RunTask wraps the same lifecycle around a finite task instead of blocking
// on signals, which is what the command-line runner uses.
package bootstrap
