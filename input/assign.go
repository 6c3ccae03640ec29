package input

// Assignment holds one slot per requested player, in request order. A nil
// slot means no compatible device was available.
type Assignment []*Device

// Trace describes how an assignment was reached.
type Trace struct {
	// Passes is the number of split passes that claimed at least one device.
	// It never exceeds the size of the pool.
	Passes int
	// Claimed is the number of pool devices bound to a slot.
	Claimed int
	// Dropped is the number of devices no slot could use.
	Dropped int
}

// Split gives each player, in order, the remaining device with the lowest
// affinity for the requested type. On equal affinity the device that comes
// first in the pool wins. Claimed devices are converted to the requested type
// and removed from consideration for later players; whatever is left is
// returned as the remainder.
func Split(pool Pool, players []DeviceType) (Assignment, Pool) {
	remaining := pool.Devices()
	found := make(Assignment, len(players))

	for i, want := range players {
		best := -1
		bestScore := 0
		for j, d := range remaining {
			score, ok := d.Affinity(want)
			if !ok {
				continue
			}
			if best >= 0 && score >= bestScore {
				continue
			}
			best, bestScore = j, score
		}
		if best < 0 {
			continue
		}
		converted, ok := remaining[best].Convert(want)
		if !ok {
			continue
		}
		found[i] = &converted
		remaining = append(remaining[:best:best], remaining[best+1:]...)
	}

	return found, Pool{devices: remaining}
}

// Assign distributes the pool over the requested player types.
//
// The first pass is a best-fit Split. Further passes split the remainder
// again and combine what they find into slots that are already filled, so a
// second controller in a one player game still drives that player. Slots left
// empty by the first pass stay empty. Passes stop once one claims nothing;
// the devices still left over are dropped.
func Assign(pool Pool, players []DeviceType) Assignment {
	a, _ := AssignTrace(pool, players)
	return a
}

// AssignTrace is Assign that also reports how the result was reached.
func AssignTrace(pool Pool, players []DeviceType) (Assignment, Trace) {
	var tr Trace

	result, remaining := Split(pool, players)
	if remaining.Len() < pool.Len() {
		tr.Passes++
	}

	for {
		next, nextRemaining := Split(remaining, players)
		if nextRemaining.Len() == remaining.Len() {
			break
		}
		tr.Passes++
		for i, slot := range result {
			if slot == nil || next[i] == nil {
				continue
			}
			merged := Combine(*slot, *next[i])
			result[i] = &merged
		}
		remaining = nextRemaining
	}

	tr.Dropped = remaining.Len()
	tr.Claimed = pool.Len() - tr.Dropped
	return result, tr
}
