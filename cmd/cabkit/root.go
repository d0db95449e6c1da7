package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Simplici0/cabkit/internal/cabinet"
	"github.com/Simplici0/cabkit/internal/configurator"
	"github.com/Simplici0/cabkit/internal/pricing"
)

const envPrefix = "CABKIT"

// paramFlag binds a kebab-case flag to a parameter key.
type paramFlag struct {
	key   string
	flag  string
	usage string
}

var numericFlags = []paramFlag{
	{"width", "width", "outer width in mm"},
	{"height", "height", "outer height in mm"},
	{"depth", "depth", "outer depth in mm"},
	{"thickness", "thickness", "carcass panel thickness in mm"},
	{"backThickness", "back-thickness", "back panel thickness in mm"},
	{"gap", "gap", "door gap in mm"},
	{"doorThickness", "door-thickness", "door thickness in mm"},
	{"doorCount", "doors", "number of doors (1 or 2)"},
	{"shelfCount", "shelves", "number of shelves"},
}

var textFlags = []paramFlag{
	{"material", "material", "material code (ML, PN, WD, MB, SS, PW)"},
	{"handle", "handle", "handle code (HB, KN, DP, RC, NL)"},
	{"handlePosition", "handle-position", "top, middle or bottom"},
	{"handleOrientation", "handle-orientation", "horizontal, vertical or depth"},
	{"hingeSide", "hinge", "LEFT or RIGHT"},
	{"pricingPreset", "preset", "pricing preset id"},
}

type cli struct {
	v          *viper.Viper
	paramsFile string
	catalog    pricing.Catalog
	now        func() time.Time
}

func newRootCmd() *cobra.Command {
	c := &cli{
		v:       viper.New(),
		catalog: pricing.DefaultCatalog(),
		now:     time.Now,
	}

	root := &cobra.Command{
		Use:   "cabkit",
		Short: "Evaluate parametric cabinet configurations",
		Long: `cabkit derives the SKU, price, validation findings, bill of materials
and part geometry of a cabinet from its parameters.

Parameters come from flags, a --params file (YAML, JSON or TOML) and
CABKIT_* environment variables, in that order of precedence. Anything
left unset takes its default value.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadParamsFile,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.paramsFile, "params", "", "parameter file (yaml, json or toml)")
	flags.Float64("explode", 0, "explode factor in [0,1] for parts output")
	for _, f := range numericFlags {
		flags.Float64(f.flag, 0, f.usage)
	}
	for _, f := range textFlags {
		flags.String(f.flag, "", f.usage)
	}

	for _, f := range append(append([]paramFlag{}, numericFlags...), textFlags...) {
		_ = c.v.BindPFlag(f.key, flags.Lookup(f.flag))
	}
	_ = c.v.BindPFlag("explode", flags.Lookup("explode"))
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(
		c.skuCmd(),
		c.priceCmd(),
		c.validateCmd(),
		c.bomCmd(),
		c.exportCmd(),
		c.partsCmd(),
	)
	return root
}

func (c *cli) loadParamsFile(cmd *cobra.Command, args []string) error {
	if c.paramsFile == "" {
		return nil
	}
	c.v.SetConfigFile(c.paramsFile)
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read params file: %w", err)
	}
	return nil
}

// rawParams collects every parameter that was set anywhere.
func (c *cli) rawParams() map[string]any {
	raw := map[string]any{}
	for _, f := range numericFlags {
		if c.v.IsSet(f.key) {
			raw[f.key] = c.v.GetFloat64(f.key)
		}
	}
	for _, f := range textFlags {
		if c.v.IsSet(f.key) {
			raw[f.key] = c.v.GetString(f.key)
		}
	}
	return raw
}

func (c *cli) snapshot() configurator.Snapshot {
	p := cabinet.ParseRaw(c.rawParams())
	return configurator.Evaluate(p, c.v.GetFloat64("explode"), c.catalog)
}
