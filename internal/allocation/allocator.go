// Package allocation implements the room assignment engine. Given a fixed
// number of rooms and the composition of a travel party (adults, seniors,
// children), it either produces a full assignment honoring the occupancy
// rules or reports that none could be found.
//
// Rules enforced on every returned assignment:
//   - no room is empty and no room exceeds its capacity
//   - a room holding children also holds at least one adult or senior
//   - seniors are grouped into senior-only rooms where possible
package allocation

import (
	"sort"

	"github.com/lmoratilla/RoomPlanner/server/internal/domain/room"
)

// Distribute assigns the party to roomCount rooms of the default capacity.
// The returned slice is sorted by adults, then seniors, then children, all
// descending. An empty result is the sole infeasibility signal.
func Distribute(roomCount, adults, seniors, children int) []room.Room {
	return DistributeWithCapacity(roomCount, adults, seniors, children, room.DefaultCapacity)
}

// DistributeWithCapacity is Distribute with an explicit per-room capacity.
func DistributeWithCapacity(roomCount, adults, seniors, children, capacity int) []room.Room {
	if capacity <= 0 {
		capacity = room.DefaultCapacity
	}

	// Feasibility gate. Anything that fails here is impossible regardless
	// of how people are arranged.
	people := adults + seniors + children
	if roomCount <= 0 {
		return nil
	}
	if people < roomCount {
		return nil // at least one room would stay empty
	}
	if people > roomCount*capacity {
		return nil
	}
	if children > 0 && adults+seniors == 0 {
		return nil // nobody can chaperone
	}

	// The quota heuristic can commit to a senior-room split that the greedy
	// passes cannot finish. Retry with progressively fewer senior-only rooms
	// before giving up.
	for quota := seniorRoomQuota(roomCount, adults, seniors, children, capacity); quota >= 0; quota-- {
		if rooms := attempt(roomCount, adults, seniors, children, capacity, quota); rooms != nil {
			return rooms
		}
	}
	return nil
}

// seniorRoomQuota decides how many rooms to reserve exclusively for seniors.
// It starts from the largest quota that still leaves enough rooms for the
// non-seniors, then shrinks it while the leftover seniors plus all adults
// could not anchor every remaining room.
func seniorRoomQuota(roomCount, adults, seniors, children, capacity int) int {
	roomsNeeded := ceilDiv(adults+children, capacity)
	spare := roomCount - roomsNeeded
	if spare < 0 {
		spare = 0
	}
	quota := ceilDiv(seniors, capacity)
	if quota > spare {
		quota = spare
	}
	for quota > 0 {
		housed := quota * capacity
		if housed > seniors {
			housed = seniors
		}
		if adults+(seniors-housed) >= roomCount-quota {
			break
		}
		quota--
	}
	return quota
}

// attempt runs one full placement pass with a fixed senior-only quota.
// Returns nil if the pass dead-ends or breaks an invariant.
func attempt(roomCount, adults, seniors, children, capacity, quota int) []room.Room {
	remAdults, remSeniors, remChildren := adults, seniors, children

	seniorRooms := make([]*room.Container, quota)
	for i := range seniorRooms {
		seniorRooms[i] = room.NewContainer(capacity)
	}
	mixedRooms := make([]*room.Container, roomCount-quota)
	for i := range mixedRooms {
		mixedRooms[i] = room.NewContainer(capacity)
	}

	// Seed the senior-only rooms to capacity, in creation order.
	for _, r := range seniorRooms {
		n := capacity
		if n > remSeniors {
			n = remSeniors
		}
		remSeniors -= r.AddSeniors(n)
	}

	// Anchor every mixed room with one adult, falling back to a senior.
	// The quota selection guarantees enough anchors, but a dead-end here
	// must still fail the whole pass rather than leave an empty room.
	for _, r := range mixedRooms {
		switch {
		case remAdults > 0:
			remAdults -= r.AddAdults(1)
		case remSeniors > 0:
			remSeniors -= r.AddSeniors(1)
		default:
			return nil
		}
	}

	seniorFirst := make([]*room.Container, 0, roomCount)
	seniorFirst = append(seniorFirst, seniorRooms...)
	seniorFirst = append(seniorFirst, mixedRooms...)

	mixedFirst := make([]*room.Container, 0, roomCount)
	mixedFirst = append(mixedFirst, mixedRooms...)
	mixedFirst = append(mixedFirst, seniorRooms...)

	// Remaining seniors: keep them grouped while possible, then anywhere.
	sweep(&remSeniors, seniorFirst, hasSenior, (*room.Container).AddSeniors)
	sweep(&remSeniors, seniorFirst, anyRoom, (*room.Container).AddSeniors)

	// Remaining adults: mixed rooms first so senior rooms stay senior-heavy.
	sweep(&remAdults, mixedRooms, anyRoom, (*room.Container).AddAdults)
	sweep(&remAdults, seniorRooms, anyRoom, (*room.Container).AddAdults)

	// Remaining children: rooms with an adult first, then any chaperoned room.
	sweep(&remChildren, mixedFirst, hasAdult, (*room.Container).AddChildren)
	sweep(&remChildren, seniorFirst, hasSenior, (*room.Container).AddChildren)

	if remAdults > 0 || remSeniors > 0 || remChildren > 0 {
		return nil
	}

	rooms := make([]room.Room, 0, roomCount)
	for _, c := range seniorFirst {
		snap := c.Snapshot()
		if snap.Total() == 0 {
			return nil
		}
		if snap.Children > 0 && snap.Adults+snap.Seniors == 0 {
			return nil
		}
		rooms = append(rooms, snap)
	}

	sort.Slice(rooms, func(i, j int) bool {
		a, b := rooms[i], rooms[j]
		if a.Adults != b.Adults {
			return a.Adults > b.Adults
		}
		if a.Seniors != b.Seniors {
			return a.Seniors > b.Seniors
		}
		return a.Children > b.Children
	})
	return rooms
}

// sweep repeatedly passes over rooms, placing one person per eligible room
// per pass, until the pool drains or a full pass places nobody.
func sweep(remaining *int, rooms []*room.Container, eligible func(*room.Container) bool, add func(*room.Container, int) int) {
	for *remaining > 0 {
		placed := 0
		for _, r := range rooms {
			if *remaining == 0 {
				break
			}
			if r.Remaining() == 0 || !eligible(r) {
				continue
			}
			n := add(r, 1)
			placed += n
			*remaining -= n
		}
		if placed == 0 {
			return
		}
	}
}

func hasSenior(r *room.Container) bool { return r.Seniors() > 0 }
func hasAdult(r *room.Container) bool  { return r.Adults() > 0 }
func anyRoom(*room.Container) bool     { return true }

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
