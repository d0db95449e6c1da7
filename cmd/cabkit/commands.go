package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/cabkit/internal/bom"
	"github.com/Simplici0/cabkit/internal/configurator"
	"github.com/Simplici0/cabkit/internal/sku"
	"github.com/Simplici0/cabkit/internal/validation"
)

var errBlocked = errors.New("configuration has blocking errors")

func (c *cli) skuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sku",
		Short: "Print the SKU of a configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := c.snapshot()
			return writeJSON(cmd.OutOrStdout(), map[string]string{"sku": snap.SKU})
		},
	}
}

func (c *cli) priceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price",
		Short: "Print the price breakdown of a configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), c.snapshot().Price)
		},
	}
}

type validateOutput struct {
	Findings          []validation.Finding `json:"findings"`
	Fixes             []validation.Fix     `json:"fixes"`
	HasBlockingErrors bool                 `json:"hasBlockingErrors"`
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Print validation findings; exits non-zero on blocking errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := c.snapshot()
			out := validateOutput{
				Findings:          nonNil(snap.Findings),
				Fixes:             nonNil(snap.Fixes),
				HasBlockingErrors: snap.Blocked,
			}
			if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if snap.Blocked {
				return errBlocked
			}
			return nil
		},
	}
}

func (c *cli) bomCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "bom",
		Short: "Print the bill of materials as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := c.snapshot()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), snap.BOM)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), bom.CSV(snap.BOM))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON instead of CSV")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var zipPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the export document, or write a zip package with --zip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := c.snapshot()
			if snap.Blocked {
				return errBlocked
			}
			exp := snap.Export(c.now())
			if zipPath == "" {
				return writeJSON(cmd.OutOrStdout(), exp)
			}
			return writePackage(zipPath, snap, exp)
		},
	}
	cmd.Flags().StringVar(&zipPath, "zip", "", "write the CSV and JSON export into this zip file")
	return cmd
}

func writePackage(path string, snap configurator.Snapshot, exp sku.Export) error {
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	if err := bom.WritePackage(f, snap.SKU, snap.CSV(), data, exp.Timestamp); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (c *cli) partsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parts",
		Short: "Print part geometry, exploded by --explode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), c.snapshot().Parts)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
