// Package bootstrap runs a service's lifecycle: it validates the typed
// config, initializes logging, starts registered components in order, runs
// the configure callbacks that wire business code onto them, prints a
// startup summary and, on SIGINT/SIGTERM, stops everything in reverse.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.RegisterComponent(dbComponent)
//	app.RegisterComponent(serverComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    // a.Cfg is *AppConfig
//	    return nil
//	})
//	err = app.Run(ctx)
//
// RunTask runs the same sequence around a finite task instead of waiting
// for a signal; the service uses it for one-shot migration commands.
package bootstrap
