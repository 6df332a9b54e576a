// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alexei Voronov

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avoronov/cellarsync/models"
)

var breweryCmd = &cobra.Command{
	Use:   "brewery",
	Short: "Manage tracked breweries",
}

var breweryAddCmd = &cobra.Command{
	Use:                "add",
	Short:              "Track a new brewery",
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		country, _ := cmd.Flags().GetString("country")
		city, _ := cmd.Flags().GetString("city")
		if name == "" {
			return fmt.Errorf("--name is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := a.logger.WithContext(context.Background())

		rec, err := a.services.TrackBrewery(ctx, models.Brewery{
			Name:    name,
			Country: country,
			City:    city,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Brewery %s tracked (queued for upload)\n", rec.ID)
		return nil
	},
}

var breweryListCmd = &cobra.Command{
	Use:                "list",
	Short:              "List tracked breweries",
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := a.logger.WithContext(context.Background())

		breweries, err := a.services.ListBreweries(ctx)
		if err != nil {
			return err
		}

		for _, b := range breweries {
			fmt.Printf("%s  %s (%s, %s)\n", b.ID, b.Name, b.City, b.Country)
		}
		return nil
	},
}

var beerCmd = &cobra.Command{
	Use:   "beer",
	Short: "Manage tracked beers",
}

var beerAddCmd = &cobra.Command{
	Use:                "add",
	Short:              "Track a new beer",
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		breweryID, _ := cmd.Flags().GetString("brewery")
		style, _ := cmd.Flags().GetString("style")
		abv, _ := cmd.Flags().GetFloat64("abv")
		rating, _ := cmd.Flags().GetInt("rating")
		if name == "" || breweryID == "" {
			return fmt.Errorf("--name and --brewery are required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := a.logger.WithContext(context.Background())

		rec, err := a.services.TrackBeer(ctx, models.Beer{
			Name:      name,
			BreweryID: breweryID,
			Style:     style,
			ABV:       abv,
			Rating:    rating,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Beer %s tracked (queued for upload)\n", rec.ID)
		return nil
	},
}

var beerListCmd = &cobra.Command{
	Use:                "list",
	Short:              "List tracked beers",
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := a.logger.WithContext(context.Background())

		beers, err := a.services.ListBeers(ctx)
		if err != nil {
			return err
		}

		for _, b := range beers {
			fmt.Printf("%s  %s  %s  %.1f%%  %d/10\n", b.ID, b.Name, b.Style, b.ABV, b.Rating)
		}
		return nil
	},
}

var beerLabelCmd = &cobra.Command{
	Use:   "label <beer-id> <image-file>",
	Short: "Attach a label image to a beer",
	Long: `Point a beer at a local label image and queue its upload. The record
shows the local path until the upload pass replaces it with the stored
object's URL.`,
	Args:               cobra.ExactArgs(2),
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := a.logger.WithContext(context.Background())

		if err := a.services.AttachLabelImage(ctx, args[0], args[1]); err != nil {
			return err
		}

		fmt.Println("Label image queued for upload")
		return nil
	},
}

func init() {
	breweryAddCmd.Flags().String("name", "", "Brewery name")
	breweryAddCmd.Flags().String("country", "", "Country")
	breweryAddCmd.Flags().String("city", "", "City")
	breweryCmd.AddCommand(breweryAddCmd, breweryListCmd)

	beerAddCmd.Flags().String("name", "", "Beer name")
	beerAddCmd.Flags().String("brewery", "", "Brewery id the beer belongs to")
	beerAddCmd.Flags().String("style", "", "Style (e.g. imperial stout)")
	beerAddCmd.Flags().Float64("abv", 0, "Alcohol by volume")
	beerAddCmd.Flags().Int("rating", 0, "Personal rating, 0-10")
	beerCmd.AddCommand(beerAddCmd, beerListCmd, beerLabelCmd)

	rootCmd.AddCommand(breweryCmd, beerCmd)
}
