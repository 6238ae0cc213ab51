package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	pstac "github.com/planetlabs/go-stac"
	"github.com/urfave/cli/v3"

	"github.com/isric/go-stac-soilgrids/pkg/stac"
)

func newInspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print a summary of a written STAC Item or Collection document",
		ArgsUsage: "<path>",
		Action:    inspectAction,
	}
}

func inspectAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected 1 argument: path")
	}
	if _, err := setup(cmd); err != nil {
		return err
	}

	path := cmd.Args().First()
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	docType, err := stac.DocType(data)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}

	var summary any
	switch docType {
	case stac.TypeFeature:
		var item pstac.Item
		if err := json.Unmarshal(data, &item); err != nil {
			return fmt.Errorf("decode item %s: %w", path, err)
		}
		summary, err = newItemSummary(&item)
		if err != nil {
			return err
		}
	case stac.TypeCollection:
		var col pstac.Collection
		if err := json.Unmarshal(data, &col); err != nil {
			return fmt.Errorf("decode collection %s: %w", path, err)
		}
		summary = newCollectionSummary(&col)
	default:
		return fmt.Errorf("inspect %s: unsupported document type %q", path, docType)
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

type itemSummary struct {
	ID         string          `json:"id"`
	Geometry   json.RawMessage `json:"geometry,omitempty"`
	Properties map[string]any  `json:"properties"`
	Assets     []string        `json:"assets"`
	Links      []*pstac.Link   `json:"links"`
}

func newItemSummary(item *pstac.Item) (*itemSummary, error) {
	geometry, err := json.Marshal(item.Geometry)
	if err != nil {
		return nil, err
	}

	properties := make(map[string]any, len(item.Properties))
	for k, v := range item.Properties {
		properties[k] = v
	}

	assets := make([]string, 0, len(item.Assets))
	for key := range item.Assets {
		assets = append(assets, key)
	}
	sort.Strings(assets)

	return &itemSummary{
		ID:         item.Id,
		Geometry:   geometry,
		Properties: properties,
		Assets:     assets,
		Links:      item.Links,
	}, nil
}

type collectionSummary struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Extent      *pstac.Extent `json:"extent"`
	Links       []*pstac.Link `json:"links"`
}

func newCollectionSummary(col *pstac.Collection) *collectionSummary {
	return &collectionSummary{
		ID:          col.Id,
		Title:       col.Title,
		Description: col.Description,
		Extent:      col.Extent,
		Links:       col.Links,
	}
}
