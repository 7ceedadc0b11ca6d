package geom

import (
	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"
)

// RTree wraps tidwall/rtree for spatial indexing of graph segments by bound.
type RTree struct {
	tree rtree.RTreeG[int64]
}

// NewRTree creates an empty RTree.
func NewRTree() *RTree {
	return &RTree{}
}

// Insert adds id with the given bound.
func (r *RTree) Insert(id int64, b orb.Bound) {
	r.tree.Insert([2]float64{b.Min.Lon(), b.Min.Lat()}, [2]float64{b.Max.Lon(), b.Max.Lat()}, id)
}

// Search returns the ids whose bounds intersect b.
func (r *RTree) Search(b orb.Bound) []int64 {
	var result []int64
	r.tree.Search(
		[2]float64{b.Min.Lon(), b.Min.Lat()},
		[2]float64{b.Max.Lon(), b.Max.Lat()},
		func(min, max [2]float64, id int64) bool {
			result = append(result, id)
			return true
		},
	)
	return result
}

// SearchNearPoint returns the ids whose bounds come within meters of p.
func (r *RTree) SearchNearPoint(p orb.Point, meters float64) []int64 {
	return r.Search(DegreesAround(p, meters))
}

// Size returns the number of indexed items.
func (r *RTree) Size() int {
	return r.tree.Len()
}
