// Command iocdemo wires a small HTTP service through an ioc container.
package main

import (
	"bytes"
	_ "embed"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/centraunit/ioc"
	"github.com/centraunit/ioc/props"
)

//go:embed defaults.env
var defaults []byte

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	source, err := propertySource()
	if err != nil {
		logger.Error("loading properties", "error", err)
		os.Exit(1)
	}

	c := ioc.New(ioc.WithLogger(logger), ioc.WithPropertySource(source))
	if err := register(c, logger); err != nil {
		logger.Error("registering components", "error", err)
		os.Exit(1)
	}
	if err := c.RegisterShutdownHook(); err != nil {
		logger.Error("registering shutdown hook", "error", err)
		os.Exit(1)
	}
	if err := c.Init(); err != nil {
		logger.Error("initializing container", "error", err)
		os.Exit(1)
	}

	srv := ioc.MustGet[*http.Server](c, "server")
	logger.Info("listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// propertySource layers IOCDEMO_* environment variables over an optional
// .env file over the bundled defaults.
func propertySource() (props.Source, error) {
	bundled, err := props.Parse(bytes.NewReader(defaults))
	if err != nil {
		return nil, err
	}

	var local props.Source
	if _, err := os.Stat(".env"); err == nil {
		if local, err = props.Load(".env"); err != nil {
			return nil, err
		}
	}

	return props.Chain(props.Env("IOCDEMO"), local, bundled), nil
}
