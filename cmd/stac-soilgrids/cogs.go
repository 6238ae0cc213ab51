package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/isric/go-stac-soilgrids/pkg/cog"
)

var propertyFlag = &cli.StringSliceFlag{
	Name:    "property",
	Aliases: []string{"p"},
	Usage:   "Soil property code to process (repeatable; defaults to all)",
}

func newProcessDatasetCommand() *cli.Command {
	return &cli.Command{
		Name:      "process-dataset",
		Usage:     "Retile SoilGrids VRTs into COG tiles, dropping empty tiles",
		ArgsUsage: "<source> <destination>",
		Flags:     []cli.Flag{propertyFlag},
		Action:    processDatasetAction,
	}
}

func processDatasetAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected 2 arguments: source and destination")
	}
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	properties := cmd.StringSlice(propertyFlag.Name)
	if len(properties) == 0 {
		properties = cfg.Properties
	}

	pipeline := cog.NewPipeline(gdalTool(cfg), cog.WithPixelSize(cfg.PixelSize()))
	return pipeline.ProcessDataset(ctx, cmd.Args().Get(0), cmd.Args().Get(1), properties)
}

func newOrganizeCogsCommand() *cli.Command {
	return &cli.Command{
		Name:      "organize-cogs",
		Usage:     "Arrange processed COG tiles into per-item directories",
		ArgsUsage: "<source> <destination>",
		Action:    organizeCogsAction,
	}
}

func organizeCogsAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected 2 arguments: source and destination")
	}
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	pipeline := cog.NewPipeline(gdalTool(cfg))
	return pipeline.OrganizeCOGs(cmd.Args().Get(0), cmd.Args().Get(1))
}
