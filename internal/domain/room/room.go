// Package room defines the domain entities for a bookable room.
// This package is PURE and must NOT import any infrastructure packages.
package room

// DefaultCapacity is the number of beds in a standard room.
const DefaultCapacity = 4

// Room is the finalized, immutable occupancy record of a single room.
type Room struct {
	Adults   int `json:"adults"`
	Seniors  int `json:"seniors"`
	Children int `json:"children"`
}

// Total returns the number of occupants in the room.
func (r Room) Total() int {
	return r.Adults + r.Seniors + r.Children
}

// Container is the mutable working state of a room while people are
// being placed into it. All adds saturate at capacity; none of them fail.
type Container struct {
	adults   int
	seniors  int
	children int
	capacity int
}

// NewContainer creates an empty container with the given capacity.
// Non-positive capacities fall back to DefaultCapacity.
func NewContainer(capacity int) *Container {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Container{capacity: capacity}
}

// AddAdults places up to n adults and returns how many actually fit.
func (c *Container) AddAdults(n int) int {
	added := c.fit(n)
	c.adults += added
	return added
}

// AddSeniors places up to n seniors and returns how many actually fit.
func (c *Container) AddSeniors(n int) int {
	added := c.fit(n)
	c.seniors += added
	return added
}

// AddChildren places up to n children and returns how many actually fit.
func (c *Container) AddChildren(n int) int {
	added := c.fit(n)
	c.children += added
	return added
}

func (c *Container) fit(n int) int {
	if n < 0 {
		return 0
	}
	if free := c.Remaining(); n > free {
		return free
	}
	return n
}

// Total returns the current number of occupants.
func (c *Container) Total() int {
	return c.adults + c.seniors + c.children
}

// Remaining returns the number of free beds.
func (c *Container) Remaining() int {
	return c.capacity - c.Total()
}

// Adults returns the current adult count.
func (c *Container) Adults() int { return c.adults }

// Seniors returns the current senior count.
func (c *Container) Seniors() int { return c.seniors }

// Children returns the current child count.
func (c *Container) Children() int { return c.children }

// Snapshot freezes the current counts into an immutable Room record.
func (c *Container) Snapshot() Room {
	return Room{
		Adults:   c.adults,
		Seniors:  c.seniors,
		Children: c.children,
	}
}
