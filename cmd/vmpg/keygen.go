package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/lzxindustries/videomancer-sdk-sub001/internal/packhash"
)

func keygenCmd() *cli.Command {
	var out string

	return &cli.Command{
		Name:  "keygen",
		Usage: "Generate an Ed25519 package signing keypair",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path prefix (writes <prefix>.key and <prefix>.pub)",
				Value:       "vmpg-signing",
				Destination: &out,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			pub, priv, err := packhash.GenerateKey()
			if err != nil {
				return err
			}
			if err := writeKeyFiles(out, pub, priv); err != nil {
				return err
			}
			fmt.Printf("private key: %s.key\n", out)
			fmt.Printf("public key:  %s.pub\n", out)
			fmt.Printf("key id:      %s\n", packhash.FormatDigest(packhash.Sum(pub)))
			return nil
		},
	}
}
