// Package ioc provides an in-process object-lifecycle container.
//
// Components are registered by id together with a zero-argument [Builder]
// and one of three policies: singleton (eager or lazy), prototype, or
// thread-local (one instance per goroutine). Dependencies between singletons
// are declared explicitly; nothing is discovered by reflection.
//
//	c := ioc.New(ioc.WithLogger(slog.Default()))
//	_ = c.AddSingleton("config", func() (any, error) { return loadConfig() })
//	_ = c.AddSingleton("db", func() (any, error) {
//	    cfg := ioc.MustGet[*Config](c, "config")
//	    return openDB(cfg.DSN)
//	})
//	_ = c.AddSingletonDependency("db", "config")
//	if err := c.Init(); err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
// [Container.Init] rejects edges that name anything but registered singletons,
// reports every dependency cycle in a [CycleError], and realizes eager
// singletons so that each provider is built before its dependants. Ids that
// take no part in any edge are realized afterwards in registration order.
//
// [Container.Close] runs destructors in registration order, discards every
// registration and instance, and returns the container to
// [StateUnconfigured] so it can be configured and initialized again.
package ioc
