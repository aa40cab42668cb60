package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/lzxindustries/videomancer-sdk-sub001/pkg/vmpg"
)

func verifyCmd() *cli.Command {
	var (
		pkgPath    string
		keySpecs   []string
		requireSig bool
	)

	return &cli.Command{
		Name:  "verify",
		Usage: "Verify a package's content hashes and signature",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "package",
				Aliases:     []string{"p"},
				Usage:       "path to .vmpg file",
				Destination: &pkgPath,
				Required:    true,
			},
			&cli.StringSliceFlag{
				Name:        "key",
				Aliases:     []string{"k"},
				Usage:       "trusted public key (file or hex); repeatable, trialled in order",
				Destination: &keySpecs,
			},
			&cli.BoolFlag{
				Name:        "require-signature",
				Usage:       "fail unsigned packages",
				Destination: &requireSig,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			keys := make([]vmpg.PublicKey, 0, len(keySpecs))
			for _, spec := range keySpecs {
				k, err := readPublicKey(spec)
				if err != nil {
					return err
				}
				keys = append(keys, k)
			}
			if len(keys) == 0 {
				cfgKeys, err := configTrustKeys(LoadConfig())
				if err != nil {
					return err
				}
				keys = cfgKeys
			}
			if len(keys) == 0 {
				keys = vmpg.TrustedKeys()
			}

			r, err := vmpg.OpenFile(pkgPath, vmpg.OpenOptions{
				VerifyHashes: true,
				TrustKeys:    keys,
			})
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()
			fmt.Printf("%s: content hashes ok\n", pkgPath)

			if !r.IsSigned() {
				if requireSig {
					return fmt.Errorf("%s: package is not signed", pkgPath)
				}
				fmt.Printf("%s: unsigned package\n", pkgPath)
				return nil
			}

			idx, err := r.VerifySignature(keys...)
			if err != nil {
				return err
			}
			fmt.Printf("%s: signature ok (key %d of %d: %s)\n",
				pkgPath, idx, len(keys), keys[idx])
			return nil
		},
	}
}
