package main

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/lzxindustries/videomancer-sdk-sub001/pkg/vmpg"
)

type headerDoc struct {
	Version   string `json:"version"`
	FileSize  uint32 `json:"file_size"`
	Signed    bool   `json:"signed"`
	TOCCount  uint32 `json:"toc_count"`
	WholeHash string `json:"whole_file_hash,omitempty"`
}

type entryDoc struct {
	Type   string `json:"type"`
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
	Hash   string `json:"hash"`
}

type parameterDoc struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Mode    string   `json:"mode"`
	Min     uint16   `json:"min"`
	Max     uint16   `json:"max"`
	Initial uint16   `json:"initial"`
	Suffix  string   `json:"suffix,omitempty"`
	Labels  []string `json:"labels,omitempty"`
}

type programDoc struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Author      string         `json:"author,omitempty"`
	License     string         `json:"license,omitempty"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description,omitempty"`
	URL         string         `json:"url,omitempty"`
	ABIMin      string         `json:"abi_min"`
	ABIMax      string         `json:"abi_max"`
	Hardware    []string       `json:"hardware"`
	Core        string         `json:"core"`
	Parameters  []parameterDoc `json:"parameters"`
}

type inspectDoc struct {
	File        string      `json:"file"`
	Header      headerDoc   `json:"header"`
	Entries     []entryDoc  `json:"entries"`
	Program     *programDoc `json:"program,omitempty"`
	ConfigError string      `json:"config_error,omitempty"`
}

func inspectCmd() *cli.Command {
	var (
		pkgPath  string
		asJSON   bool
		noVerify bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Inspect the contents of a .vmpg package",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "package",
				Aliases:     []string{"p"},
				Usage:       "path to .vmpg file",
				Destination: &pkgPath,
				Required:    true,
			},
			&cli.BoolFlag{Name: "json", Usage: "emit a JSON document", Destination: &asJSON},
			&cli.BoolFlag{Name: "no-verify", Usage: "skip content hash verification", Destination: &noVerify},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, err := vmpg.OpenFile(pkgPath, vmpg.OpenOptions{VerifyHashes: !noVerify})
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			doc := buildInspectDoc(pkgPath, r)
			if asJSON {
				out, err := json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}
			printInspectDoc(doc)
			return nil
		},
	}
}

func buildInspectDoc(path string, r *vmpg.Reader) inspectDoc {
	hdr := r.Header()
	doc := inspectDoc{
		File: path,
		Header: headerDoc{
			Version:  fmt.Sprintf("%d.%d", hdr.VerMajor, hdr.VerMinor),
			FileSize: hdr.FileSize,
			Signed:   hdr.IsSigned(),
			TOCCount: hdr.TOCCount,
		},
	}
	if hdr.HasWholeHash() {
		doc.Header.WholeHash = hdr.WholeHash.String()
	}
	for _, e := range r.Entries() {
		doc.Entries = append(doc.Entries, entryDoc{
			Type:   e.Type.String(),
			Offset: e.Offset,
			Size:   e.Size,
			Hash:   e.Hash.String(),
		})
	}

	cfg, err := r.Config()
	if err != nil {
		doc.ConfigError = err.Error()
		return doc
	}
	prog := &programDoc{
		ID:          cfg.ProgramID(),
		Name:        cfg.ProgramName(),
		Version:     cfg.Version().String(),
		Author:      vmpg.CString(cfg.Author[:]),
		License:     vmpg.CString(cfg.License[:]),
		Category:    vmpg.CString(cfg.Category[:]),
		Description: vmpg.CString(cfg.Description[:]),
		URL:         vmpg.CString(cfg.URL[:]),
		ABIMin:      fmt.Sprintf("%d.%d", cfg.ABIMinMajor, cfg.ABIMinMinor),
		ABIMax:      fmt.Sprintf("%d.%d", cfg.ABIMaxMajor, cfg.ABIMaxMinor),
		Hardware:    cfg.Hardware(),
		Core:        cfg.Core().String(),
	}
	for i := 0; i < int(cfg.ParamCount); i++ {
		p := &cfg.Parameters[i]
		pd := parameterDoc{
			ID:      p.ID.String(),
			Name:    p.ParamName(),
			Mode:    p.Mode.String(),
			Min:     p.Min,
			Max:     p.Max,
			Initial: p.Initial,
			Suffix:  p.SuffixText(),
		}
		for l := 0; l < int(p.LabelCount); l++ {
			pd.Labels = append(pd.Labels, p.Label(l))
		}
		prog.Parameters = append(prog.Parameters, pd)
	}
	doc.Program = prog
	return doc
}

func printInspectDoc(doc inspectDoc) {
	fmt.Printf("%s\n", doc.File)
	fmt.Printf("  format %s, %d bytes, signed=%v\n",
		doc.Header.Version, doc.Header.FileSize, doc.Header.Signed)
	if doc.Header.WholeHash != "" {
		fmt.Printf("  whole-file hash %s\n", doc.Header.WholeHash)
	}

	fmt.Printf("\nEntries (%d):\n", len(doc.Entries))
	for _, e := range doc.Entries {
		fmt.Printf("  %-20s offset=%-8d size=%-8d %s\n", e.Type, e.Offset, e.Size, e.Hash)
	}

	if doc.ConfigError != "" {
		fmt.Printf("\nProgram config: %s\n", doc.ConfigError)
		return
	}
	p := doc.Program
	fmt.Printf("\nProgram:\n")
	fmt.Printf("  %s %s (%s)\n", p.ID, p.Version, p.Name)
	if p.Author != "" {
		fmt.Printf("  author:      %s\n", p.Author)
	}
	if p.License != "" {
		fmt.Printf("  license:     %s\n", p.License)
	}
	if p.Category != "" {
		fmt.Printf("  category:    %s\n", p.Category)
	}
	if p.Description != "" {
		fmt.Printf("  description: %s\n", p.Description)
	}
	fmt.Printf("  abi:         [%s, %s)\n", p.ABIMin, p.ABIMax)
	fmt.Printf("  hardware:    %s\n", strings.Join(p.Hardware, ", "))
	fmt.Printf("  core:        %s\n", p.Core)

	if len(p.Parameters) > 0 {
		fmt.Printf("\nParameters (%d):\n", len(p.Parameters))
		for _, pd := range p.Parameters {
			line := fmt.Sprintf("  %-10s %-20s %-14s [%d..%d] initial=%d",
				pd.ID, pd.Name, pd.Mode, pd.Min, pd.Max, pd.Initial)
			if pd.Suffix != "" {
				line += " " + pd.Suffix
			}
			if len(pd.Labels) > 0 {
				line += "  {" + strings.Join(pd.Labels, ", ") + "}"
			}
			fmt.Println(line)
		}
	}
}
