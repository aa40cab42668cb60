package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lzxindustries/videomancer-sdk-sub001/internal/packstore"
)

func listCmd() *cli.Command {
	var (
		dir        string
		requireSig bool
	)

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List verified packages in a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "directory containing .vmpg packages",
				Destination: &dir,
			},
			&cli.BoolFlag{
				Name:        "require-signature",
				Usage:       "only list packages with a valid signature",
				Destination: &requireSig,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fileCfg := LoadConfig()
			if dir == "" {
				dir = fileCfg.PackagesDir
			}
			if dir == "" {
				return cli.Exit("error: --dir is required unless packages_dir is configured", 1)
			}
			trust, err := configTrustKeys(fileCfg)
			if err != nil {
				return err
			}

			catalog, err := packstore.Scan(dir, packstore.Options{
				VerifySignature: requireSig,
				TrustKeys:       trust,
				Log:             newLogger(fileCfg),
			})
			if err != nil {
				return err
			}

			pkgs := catalog.Packages()
			if len(pkgs) == 0 {
				fmt.Printf("no verified packages in %s\n", dir)
			} else {
				fmt.Printf("Packages in %s:\n\n", dir)
				for _, p := range pkgs {
					signed := ""
					if p.Signed {
						signed = "  signed"
					}
					fmt.Printf("  %-24s %-10s %8s  %s%s\n",
						p.ProgramID, p.Version, humanSize(p.FileSize), p.Core, signed)
					if len(p.Artifacts) > 0 {
						fmt.Printf("  %-24s %s\n", "", strings.Join(p.Artifacts, ", "))
					}
				}
				fmt.Printf("\n%d package(s) verified", len(pkgs))
				if n := len(catalog.Failures()); n > 0 {
					fmt.Printf(", %d rejected", n)
				}
				fmt.Println()
			}
			for _, f := range catalog.Failures() {
				fmt.Printf("  rejected %s: %v\n", f.Path, f.Err)
			}
			return nil
		},
	}
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
