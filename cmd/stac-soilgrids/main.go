package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/isric/go-stac-soilgrids/internal/log"
	"github.com/isric/go-stac-soilgrids/pkg/config"
	"github.com/isric/go-stac-soilgrids/pkg/gdal"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML configuration file",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error)",
	}
	gdalBinFlag = &cli.StringFlag{
		Name:  "gdal-bin-dir",
		Usage: "Directory holding the GDAL binaries (defaults to PATH lookup)",
	}
)

func main() {
	cmd := &cli.Command{
		Name:  "stac-soilgrids",
		Usage: "Create STAC metadata for ISRIC SoilGrids soil property rasters",
		Flags: []cli.Flag{configFlag, logLevelFlag, gdalBinFlag},
		Commands: []*cli.Command{
			newCreateCollectionCommand(),
			newCreateItemCommand(),
			newProcessDatasetCommand(),
			newOrganizeCogsCommand(),
			newInspectCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides, and configures logging.
func setup(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String(configFlag.Name))
	if err != nil {
		return config.Config{}, err
	}

	if level := cmd.String(logLevelFlag.Name); level != "" {
		cfg.LogLevel = level
	}
	if dir := cmd.String(gdalBinFlag.Name); dir != "" {
		cfg.GDAL.BinDir = dir
	}

	log.Configure(log.Config{Level: cfg.LogLevel})
	return cfg, nil
}

func gdalTool(cfg config.Config) *gdal.Tool {
	var opts []gdal.Option
	if cfg.GDAL.BinDir != "" {
		opts = append(opts, gdal.WithBinDir(cfg.GDAL.BinDir))
	}
	return gdal.New(opts...)
}
