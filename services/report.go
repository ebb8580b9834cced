package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FDT12/TN-by-Night-B/geo"
)

// PrintHeatmapReport renders the governorate density report to the terminal
// at the end of a scrape run.
func PrintHeatmapReport(data map[string]*Bucket, summary Summary) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  EVENT DENSITY BY GOVERNORATE\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total events         : \033[1m%d\033[0m\n", summary.TotalEvents)
	fmt.Printf("  Active governorates  : \033[1m%d / %d\033[0m\n",
		summary.ActiveGovernorates, summary.TotalGovernorates)
	fmt.Println()

	fmt.Printf("\033[1;33m  Events per Governorate\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if summary.ActiveGovernorates == 0 {
		fmt.Printf("  No geolocated events\n")
	} else {
		type govScore struct {
			gov   string
			score int
		}
		var active []govScore
		for _, gov := range geo.Governorates {
			if data[gov].Score > 0 {
				active = append(active, govScore{gov, data[gov].Score})
			}
		}
		sort.SliceStable(active, func(i, j int) bool {
			return active[i].score > active[j].score
		})
		for _, gs := range active {
			bar := strings.Repeat("█", gs.score)
			fmt.Printf("  %-14s %s (%d)\n", gs.gov, bar, gs.score)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}
