package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/lzxindustries/videomancer-sdk-sub001/internal/packstore"
	"github.com/lzxindustries/videomancer-sdk-sub001/internal/repo"
)

func serveCmd() *cli.Command {
	var (
		dir         string
		addr        string
		requireSig  bool
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve verified packages over HTTP for bench testing",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "directory containing .vmpg packages",
				Destination: &dir,
			},
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.BoolFlag{
				Name:        "require-signature",
				Usage:       "only serve packages with a valid signature",
				Destination: &requireSig,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fileCfg := LoadConfig()
			log := newLogger(fileCfg)
			if dir == "" {
				dir = fileCfg.PackagesDir
			}
			if dir == "" {
				return cli.Exit("error: --dir is required unless packages_dir is configured", 1)
			}
			if !cmd.IsSet("addr") && fileCfg.ServerAddress != "" {
				addr = fileCfg.ServerAddress
			}
			trust, err := configTrustKeys(fileCfg)
			if err != nil {
				return err
			}

			catalog, err := packstore.Scan(dir, packstore.Options{
				VerifySignature: requireSig,
				TrustKeys:       trust,
				Log:             log,
			})
			if err != nil {
				return err
			}
			log.Info("catalog scanned",
				"dir", dir,
				"packages", len(catalog.Packages()),
				"rejected", len(catalog.Failures()))

			server := repo.NewServer(catalog)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr, "instance", server.InstanceID())
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
