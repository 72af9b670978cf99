package zarr_test

import (
	"testing"

	"github.com/TuSKan/zarr-gomlx/zarr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicIndex_NonAlignedSelection(t *testing.T) {
	// spec.md §8 scenario 3.
	projections := zarr.BasicIndex(
		[]int{6, 2},
		[]int{3, 2},
		[]zarr.Range{{Lo: 2, Hi: 5}, {Lo: 1, Hi: 2}},
	)

	require.Len(t, projections, 2)

	assert.Equal(t, []int{0, 0}, projections[0].ChunkCoords)
	assert.Equal(t, []zarr.Range{{Lo: 2, Hi: 3}, {Lo: 1, Hi: 2}}, projections[0].ChunkSel)
	assert.Equal(t, []zarr.Range{{Lo: 0, Hi: 1}, {Lo: 0, Hi: 1}}, projections[0].OutSel)

	assert.Equal(t, []int{1, 0}, projections[1].ChunkCoords)
	assert.Equal(t, []zarr.Range{{Lo: 0, Hi: 2}, {Lo: 1, Hi: 2}}, projections[1].ChunkSel)
	assert.Equal(t, []zarr.Range{{Lo: 1, Hi: 3}, {Lo: 0, Hi: 1}}, projections[1].OutSel)
}

func TestBasicIndex_TilesOutputExactly(t *testing.T) {
	shape := []int{7, 5}
	chunkShape := []int{3, 2}
	sel := []zarr.Range{{Lo: 1, Hi: 6}, {Lo: 0, Hi: 5}}

	projections := zarr.BasicIndex(shape, chunkShape, sel)
	require.NotEmpty(t, projections)

	outShape := []int{sel[0].Hi - sel[0].Lo, sel[1].Hi - sel[1].Lo}
	covered := make([][]bool, outShape[0])
	for i := range covered {
		covered[i] = make([]bool, outShape[1])
	}

	for _, p := range projections {
		// Equal volume per projection.
		volChunk := 1
		volOut := 1
		for i := range p.ChunkSel {
			volChunk *= p.ChunkSel[i].Hi - p.ChunkSel[i].Lo
			volOut *= p.OutSel[i].Hi - p.OutSel[i].Lo
		}
		assert.Equal(t, volChunk, volOut)

		for r := p.OutSel[0].Lo; r < p.OutSel[0].Hi; r++ {
			for c := p.OutSel[1].Lo; c < p.OutSel[1].Hi; c++ {
				require.False(t, covered[r][c], "overlap at (%d,%d)", r, c)
				covered[r][c] = true
			}
		}
	}

	for r := range covered {
		for c := range covered[r] {
			assert.True(t, covered[r][c], "uncovered at (%d,%d)", r, c)
		}
	}
}

func TestBasicIndex_FullArraySingleChunk(t *testing.T) {
	projections := zarr.BasicIndex([]int{4}, []int{4}, []zarr.Range{{Lo: 0, Hi: 4}})
	require.Len(t, projections, 1)
	assert.Equal(t, []int{0}, projections[0].ChunkCoords)
	assert.Equal(t, []zarr.Range{{Lo: 0, Hi: 4}}, projections[0].ChunkSel)
	assert.Equal(t, []zarr.Range{{Lo: 0, Hi: 4}}, projections[0].OutSel)
}

func TestBasicIndex_EmptySelectionYieldsNoProjections(t *testing.T) {
	projections := zarr.BasicIndex([]int{4}, []int{2}, []zarr.Range{{Lo: 2, Hi: 2}})
	assert.Empty(t, projections)
}

func TestGridShape(t *testing.T) {
	assert.Equal(t, []int{2, 1}, zarr.GridShape([]int{6, 2}, []int{3, 2}))
	assert.Equal(t, []int{3}, zarr.GridShape([]int{7}, []int{3}))
}
