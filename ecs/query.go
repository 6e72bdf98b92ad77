package ecs

// intersect returns entities present in every set, iterating the smallest.
func intersect(sets []*sparseSet) []Entity {
	if len(sets) == 0 {
		return nil
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if s.len() < smallest.len() {
			smallest = s
		}
	}
	out := make([]Entity, 0, smallest.len())
	for _, e := range smallest.snapshot() {
		keep := true
		for _, s := range sets {
			if s != smallest && !s.has(e) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, e)
		}
	}
	return out
}
