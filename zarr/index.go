package zarr

// ChunkProjection names one chunk touched by a selection and the two
// sub-rectangles (within-chunk, within-output) that share data, per
// §4.3.
type ChunkProjection struct {
	ChunkCoords []int
	ChunkSel    []Range
	OutSel      []Range
}

// dimProjection is one axis's contribution to a ChunkProjection.
type dimProjection struct {
	chunkIndex int
	chunkSel   Range
	outSel     Range
}

// dimProjections computes every per-axis projection for one axis, per
// the algorithm in §4.3: advance the chunk index from the first
// touched chunk while its storage offset is still within the
// selection, clipping each chunk's selection to the array's trailing
// edge.
func dimProjections(dimLen, chunkLen int, sel Range) []dimProjection {
	if sel.Hi <= sel.Lo {
		return nil
	}
	var out []dimProjection
	chunkIndex := sel.Lo / chunkLen
	for {
		offset := chunkIndex * chunkLen
		if offset >= sel.Hi {
			break
		}
		limit := (chunkIndex + 1) * chunkLen
		if limit > dimLen {
			limit = dimLen
		}

		var chunkSelStart, outOffset int
		if sel.Lo < offset {
			outOffset = offset - sel.Lo
		} else {
			chunkSelStart = sel.Lo - offset
		}

		chunkSelStop := limit - offset
		if sel.Hi < limit {
			chunkSelStop = sel.Hi - offset
		}

		nitems := chunkSelStop - chunkSelStart
		out = append(out, dimProjection{
			chunkIndex: chunkIndex,
			chunkSel:   Range{chunkSelStart, chunkSelStop},
			outSel:     Range{outOffset, outOffset + nitems},
		})
		chunkIndex++
	}
	return out
}

// BasicIndex computes every ChunkProjection touched by sel over an
// array of the given logical shape and chunk shape, per §4.3. The
// Cartesian product of per-axis projections is emitted in canonical
// order (axis 0 outermost, last axis innermost).
//
// Across all returned projections, the union of OutSel rectangles
// exactly tiles ∏[0, hi_i-lo_i) with no overlap, and each projection's
// ChunkSel and OutSel share the same per-axis extents (so equal
// volume).
func BasicIndex(shape, chunkShape []int, sel []Range) []ChunkProjection {
	rank := len(shape)
	if rank == 0 {
		return []ChunkProjection{{ChunkCoords: []int{}, ChunkSel: []Range{}, OutSel: []Range{}}}
	}

	perAxis := make([][]dimProjection, rank)
	for i := 0; i < rank; i++ {
		perAxis[i] = dimProjections(shape[i], chunkShape[i], sel[i])
	}
	for _, axis := range perAxis {
		if len(axis) == 0 {
			return nil
		}
	}

	var out []ChunkProjection
	coords := make([]int, rank)
	chunkSel := make([]Range, rank)
	outSel := make([]Range, rank)

	var walk func(dim int)
	walk = func(dim int) {
		if dim == rank {
			cc := make([]int, rank)
			cs := make([]Range, rank)
			os := make([]Range, rank)
			copy(cc, coords)
			copy(cs, chunkSel)
			copy(os, outSel)
			out = append(out, ChunkProjection{ChunkCoords: cc, ChunkSel: cs, OutSel: os})
			return
		}
		for _, p := range perAxis[dim] {
			coords[dim] = p.chunkIndex
			chunkSel[dim] = p.chunkSel
			outSel[dim] = p.outSel
			walk(dim + 1)
		}
	}
	walk(0)
	return out
}

// GridShape computes the number of chunks along each axis:
// ceil(shape[i] / chunkShape[i]).
func GridShape(shape, chunkShape []int) []int {
	grid := make([]int, len(shape))
	for i := range shape {
		grid[i] = (shape[i] + chunkShape[i] - 1) / chunkShape[i]
	}
	return grid
}

// chunkExtent returns the logical extent of chunk coords within shape
// under chunkShape, accounting for a shorter trailing chunk.
func chunkExtent(shape, chunkShape, coords []int) []int {
	ext := make([]int, len(shape))
	for i, c := range coords {
		start := c * chunkShape[i]
		end := start + chunkShape[i]
		if end > shape[i] {
			end = shape[i]
		}
		ext[i] = end - start
	}
	return ext
}
