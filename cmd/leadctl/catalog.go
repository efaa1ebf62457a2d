package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cleanclear-sd/lead-api/internal/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the services and options offered on the quote form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printCatalog(cmd.OutOrStdout(), catalog.Catalog())
		return nil
	},
}

func printCatalog(out io.Writer, c catalog.Snapshot) {
	section := func(title string) {
		fmt.Fprintf(out, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
	}

	section("Services")
	for _, o := range c.Services {
		fmt.Fprintf(out, "  %-16s %s\n", o.ID, o.Label)
	}
	section("Property types")
	printList(out, c.PropertyTypes)
	section("Stories")
	printList(out, c.StoryOptions)
	section("Square footage")
	printList(out, c.SquareFootageOptions)
	section("Solar panels")
	printList(out, c.SolarPanelOptions)
	section("Timeframes")
	for _, o := range c.TimeframeOptions {
		fmt.Fprintf(out, "  %-16s %s\n", o.ID, o.Label)
	}
	section("Time of day")
	for _, o := range c.TimeOfDayOptions {
		fmt.Fprintf(out, "  %-16s %s\n", o.ID, o.Label)
	}
	section("Steps")
	for i, title := range c.StepTitles {
		fmt.Fprintf(out, "  %d. %s\n", i+1, title)
	}
}

func printList(out io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(out, "  %s\n", item)
	}
}
