package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lzxindustries/videomancer-sdk-sub001/internal/programdef"
	"github.com/lzxindustries/videomancer-sdk-sub001/pkg/vmpg"
)

func packCmd() *cli.Command {
	var (
		defPath   string
		recPath   string
		outPath   string
		artifacts []string
		signKey   string
		buildID   uint64
		wholeHash bool
	)

	return &cli.Command{
		Name:  "pack",
		Usage: "Assemble a .vmpg package from a program config and artifacts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "definition",
				Aliases:     []string{"d"},
				Usage:       "program definition (.toml); converted in-process",
				Destination: &defPath,
			},
			&cli.StringFlag{
				Name:        "config-record",
				Usage:       "pre-converted binary config record (alternative to --definition)",
				Destination: &recPath,
			},
			&cli.StringSliceFlag{
				Name:        "artifact",
				Aliases:     []string{"a"},
				Usage:       "artifact as type=path, e.g. bitstream_hd_hdmi=core.bit (repeatable)",
				Destination: &artifacts,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output .vmpg path",
				Destination: &outPath,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "sign",
				Usage:       "sign the package with this private key file",
				Destination: &signKey,
			},
			&cli.Uint64Flag{
				Name:        "build-id",
				Usage:       "opaque build identifier stored in the signed descriptor",
				Destination: &buildID,
			},
			&cli.BoolFlag{
				Name:        "whole-hash",
				Usage:       "fill in the header's whole-file hash",
				Value:       true,
				Destination: &wholeHash,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadPackConfig(defPath, recPath)
			if err != nil {
				return err
			}

			b := vmpg.NewBuilder()
			if err := b.SetConfig(cfg); err != nil {
				return err
			}
			for _, spec := range artifacts {
				name, path, ok := strings.Cut(spec, "=")
				if !ok {
					return fmt.Errorf("artifact %q is not type=path", spec)
				}
				t, err := vmpg.ParseEntryType(name)
				if err != nil {
					return err
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if err := b.AddArtifact(t, data); err != nil {
					return fmt.Errorf("artifact %s: %w", name, err)
				}
			}

			fileCfg := LoadConfig()
			if signKey == "" {
				signKey = fileCfg.SigningKey
			}
			if signKey != "" {
				priv, err := readPrivateKey(signKey)
				if err != nil {
					return err
				}
				if err := b.Sign(priv); err != nil {
					return err
				}
			}
			if buildID > 0 {
				if buildID > 0xFFFFFFFF {
					return fmt.Errorf("build id %d does not fit 32 bits", buildID)
				}
				b.SetBuildID(uint32(buildID))
			}
			b.SetWholeFileHash(wholeHash)

			image, err := b.Build()
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, image, 0o644); err != nil {
				return err
			}

			signed := "unsigned"
			if signKey != "" {
				signed = "signed"
			}
			fmt.Printf("wrote %s (%d bytes, %s, program %s %s)\n",
				outPath, len(image), signed, cfg.ProgramID(), cfg.Version())
			return nil
		},
	}
}

func loadPackConfig(defPath, recPath string) (*vmpg.ProgramConfig, error) {
	switch {
	case defPath != "" && recPath != "":
		return nil, fmt.Errorf("--definition and --config-record are mutually exclusive")
	case defPath != "":
		def, err := programdef.Load(defPath)
		if err != nil {
			return nil, err
		}
		return def.Convert()
	case recPath != "":
		raw, err := os.ReadFile(recPath)
		if err != nil {
			return nil, err
		}
		return vmpg.DecodeConfigRecord(raw)
	default:
		return nil, fmt.Errorf("one of --definition or --config-record is required")
	}
}
