// Package party defines the domain types for a travel party requesting rooms.
// This package is PURE and must NOT import any infrastructure packages.
package party

import "fmt"

// Request describes a party to be split across a fixed number of rooms.
type Request struct {
	RoomCount int `json:"room_count"`
	Adults    int `json:"adults"`
	Seniors   int `json:"seniors"`
	Children  int `json:"children"`
}

// Size returns the total number of people in the party.
func (r Request) Size() int {
	return r.Adults + r.Seniors + r.Children
}

// Validate screens malformed input at the service boundary. The allocator
// itself only reasons about feasibility, not about nonsense counts.
func (r Request) Validate() error {
	if r.Adults < 0 || r.Seniors < 0 || r.Children < 0 {
		return fmt.Errorf("negative head count: adults=%d seniors=%d children=%d",
			r.Adults, r.Seniors, r.Children)
	}
	if r.RoomCount < 0 {
		return fmt.Errorf("negative room count: %d", r.RoomCount)
	}
	return nil
}

// CacheKey returns the canonical cache key for this request.
func (r Request) CacheKey() string {
	return fmt.Sprintf("alloc:%d:%d:%d:%d", r.RoomCount, r.Adults, r.Seniors, r.Children)
}
