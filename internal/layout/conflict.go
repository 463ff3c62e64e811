package layout

// Region is the overlap between rectangle Index and rectangle Other.
type Region struct {
	Rect
	Index int
	Other int
	Color string
}

// Pair is one overlapping pair of rectangles, A < B.
type Pair struct {
	A, B    int
	Overlap Rect
}

// FindConflict returns the overlap of rects[i] with the first other
// rectangle, in slice order, that it intersects. Only one region is
// reported even when rects[i] overlaps several shows.
func FindConflict(rects []Rectangle, i int) (Region, bool) {
	main := rects[i].Rect
	for j := range rects {
		if j == i {
			continue
		}
		if main.Intersects(rects[j].Rect) {
			return Region{Rect: main.Intersect(rects[j].Rect), Index: i, Other: j}, true
		}
	}
	return Region{}, false
}

// FindConflicts runs FindConflict for every rectangle and collects the
// hits in rectangle order, coloured with the conflict colour.
func FindConflicts(rects []Rectangle, color string) []Region {
	var out []Region
	for i := range rects {
		if r, ok := FindConflict(rects, i); ok {
			r.Color = color
			out = append(out, r)
		}
	}
	return out
}

// OverlapPairs lists every pair of intersecting rectangles.
func OverlapPairs(rects []Rectangle) []Pair {
	var out []Pair
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Intersects(rects[j].Rect) {
				out = append(out, Pair{A: i, B: j, Overlap: rects[i].Intersect(rects[j].Rect)})
			}
		}
	}
	return out
}
