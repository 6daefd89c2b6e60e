// Package main - allocate
// Command-line front door to the allocator: four integers in, a room
// table out. Exits 1 when no feasible assignment exists.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/lmoratilla/RoomPlanner/server/internal/allocation"
	"github.com/lmoratilla/RoomPlanner/server/internal/domain/room"
)

func main() {
	rooms := flag.Int("rooms", 0, "Number of rooms")
	adults := flag.Int("adults", 0, "Number of adults")
	seniors := flag.Int("seniors", 0, "Number of seniors")
	children := flag.Int("children", 0, "Number of children")
	capacity := flag.Int("capacity", room.DefaultCapacity, "Beds per room")
	flag.Parse()

	// Positional form: allocate ROOMS ADULTS SENIORS CHILDREN
	if args := flag.Args(); len(args) == 4 {
		vals := make([]int, 4)
		for i, raw := range args {
			n, err := strconv.Atoi(raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "not a number: %q\n", raw)
				os.Exit(2)
			}
			vals[i] = n
		}
		*rooms, *adults, *seniors, *children = vals[0], vals[1], vals[2], vals[3]
	}

	result := allocation.DistributeWithCapacity(*rooms, *adults, *seniors, *children, *capacity)
	if len(result) == 0 {
		fmt.Println("no feasible assignment")
		os.Exit(1)
	}

	fmt.Printf("%-6s %-7s %-8s %-9s %-6s\n", "room", "adults", "seniors", "children", "total")
	for i, r := range result {
		fmt.Printf("%-6d %-7d %-8d %-9d %-6d\n", i+1, r.Adults, r.Seniors, r.Children, r.Total())
	}
}
