package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lzxindustries/videomancer-sdk-sub001/internal/programdef"
	"github.com/lzxindustries/videomancer-sdk-sub001/pkg/vmpg"
)

func convertCmd() *cli.Command {
	var (
		defPath string
		outPath string
	)

	return &cli.Command{
		Name:  "convert",
		Usage: "Convert a TOML program definition to a binary config record",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "definition",
				Aliases:     []string{"d"},
				Usage:       "path to the program definition (.toml)",
				Destination: &defPath,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path for the config record",
				Destination: &outPath,
				Required:    true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			def, err := programdef.Load(defPath)
			if err != nil {
				return err
			}
			cfg, err := def.Convert()
			if err != nil {
				return err
			}
			raw, err := vmpg.EncodeConfigRecord(cfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, raw, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d bytes, program %s %s)\n",
				outPath, len(raw), cfg.ProgramID(), cfg.Version())
			return nil
		},
	}
}
