package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/isric/go-stac-soilgrids/internal/log"
	"github.com/isric/go-stac-soilgrids/pkg/soilgrids"
	"github.com/isric/go-stac-soilgrids/pkg/stac"
)

func newCreateCollectionCommand() *cli.Command {
	return &cli.Command{
		Name:      "create-collection",
		Usage:     "Create the SoilGrids STAC Collection",
		ArgsUsage: "<destination>",
		Action:    createCollectionAction,
	}
}

func createCollectionAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected 1 argument: destination")
	}
	if _, err := setup(cmd); err != nil {
		return err
	}

	destination := cmd.Args().First()

	collection, err := soilgrids.CreateCollection()
	if err != nil {
		return err
	}
	collection.SetSelfHref(destination)

	if err := stac.WriteFile(destination, collection); err != nil {
		return err
	}

	logger := log.WithComponent("cli")
	logger.Info().
		Str("collection", collection.Id).
		Str("destination", destination).
		Msg("wrote collection")
	return nil
}
