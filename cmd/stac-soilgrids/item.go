package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/isric/go-stac-soilgrids/internal/log"
	"github.com/isric/go-stac-soilgrids/pkg/fetch"
	"github.com/isric/go-stac-soilgrids/pkg/soilgrids"
	"github.com/isric/go-stac-soilgrids/pkg/stac"
)

var skipGDALFlag = &cli.BoolFlag{
	Name:  "skip-gdal",
	Usage: "Skip raster metadata acquisition via gdalinfo",
}

func newCreateItemCommand() *cli.Command {
	return &cli.Command{
		Name:      "create-item",
		Usage:     "Create a STAC Item from a SoilGrids COG, VRT, item directory, or URL",
		ArgsUsage: "<source> <destination>",
		Flags:     []cli.Flag{skipGDALFlag},
		Action:    createItemAction,
	}
}

func createItemAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected 2 arguments: source and destination")
	}
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	source := cmd.Args().Get(0)
	destination := cmd.Args().Get(1)
	logger := log.WithComponent("cli")

	if fetch.IsRemote(source) {
		name, err := fetch.Filename(source)
		if err != nil {
			return err
		}
		local := filepath.Join(os.TempDir(), name)
		logger.Info().Str("url", source).Str("local", local).Msg("fetching remote source")
		if err := fetch.Fetch(ctx, source, local); err != nil {
			return err
		}
		defer os.Remove(local) //nolint:errcheck
		source = local
	}

	var opts []soilgrids.ItemOption
	if !cmd.Bool(skipGDALFlag.Name) {
		opts = append(opts, soilgrids.WithReader(gdalTool(cfg).Info))
	}

	item, err := soilgrids.CreateItem(ctx, source, opts...)
	if err != nil {
		return err
	}
	item.SetSelfHref(destination)

	if err := stac.WriteFile(destination, item); err != nil {
		return err
	}

	logger.Info().
		Str("item", item.Id).
		Str("destination", destination).
		Msg("wrote item")
	return nil
}
