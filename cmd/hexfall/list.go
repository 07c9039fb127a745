package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexfall/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all board variants",
	Long:  `Shows every board variant with its size and color count.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	boards := registry.List()

	if len(boards) == 0 {
		fmt.Println("No boards available.")
		return
	}

	fmt.Println("Available boards:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, b := range boards {
		if len(b.ID) > maxIDLen {
			maxIDLen = len(b.ID)
		}
	}

	fmt.Printf("  %-*s  %-8s  %s\n", maxIDLen, "ID", "Size", "Title")
	fmt.Printf("  %-*s  %-8s  %s\n", maxIDLen, "--", "----", "-----")

	for _, b := range boards {
		fmt.Printf("  %-*s  %-8s  %s\n", maxIDLen, b.ID, b.Size(), b.Title)
	}

	fmt.Println()
	fmt.Println("Run 'hexfall play <id>' to play a board.")
}
