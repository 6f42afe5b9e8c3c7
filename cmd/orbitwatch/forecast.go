package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stellarsignal/orbitwatch/core"
	"github.com/stellarsignal/orbitwatch/internal/chart"
)

func forecastCmd() *cobra.Command {
	var (
		startYear int
		endYear   int
		htmlOut   string
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Print the debris growth forecast, or render it as an HTML chart",
		RunE: func(_ *cobra.Command, _ []string) error {
			if endYear == 0 {
				endYear = time.Now().Year() + 10
			}
			if endYear < startYear {
				return fmt.Errorf("end year %d precedes start year %d", endYear, startYear)
			}

			points := core.ProjectDebrisGrowth(startYear, endYear, core.BaselineCount)

			if htmlOut != "" {
				f, err := os.Create(htmlOut)
				if err != nil {
					return fmt.Errorf("create %s: %w", htmlOut, err)
				}
				defer f.Close()
				if err := chart.ForecastChart(points).Render(f); err != nil {
					return fmt.Errorf("render chart: %w", err)
				}
				fmt.Printf("wrote forecast chart to %s\n", htmlOut)
				return nil
			}

			fmt.Printf("%-6s %8s %8s %8s %11s %9s\n", "year", "total", "large", "small", "collisions", "risk")
			for _, p := range points {
				fmt.Printf("%-6d %8d %8d %8d %11d %9s\n",
					p.Year, p.Total, p.LargeDebris, p.SmallDebris, p.CollisionEvents, p.Risk)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&startYear, "start", core.BaselineYear, "first forecast year")
	cmd.Flags().IntVar(&endYear, "end", 0, "last forecast year (default: current year + 10)")
	cmd.Flags().StringVar(&htmlOut, "html", "", "write an HTML chart to this path instead of printing a table")
	return cmd
}
