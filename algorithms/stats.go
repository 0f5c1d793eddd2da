package algorithms

import (
	"context"
	"math"
	"runtime"
	"sync"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"golang.org/x/sync/errgroup"

	mesh "github.com/flywave/go-vcmesh"
)

// Stats summarizes the geometry of a mesh.
type Stats struct {
	VertexNumber uint32
	FaceNumber   uint32
	BoundingBox  dvec3.Box
	SurfaceArea  float64
	// QualityMin and QualityMax are set only when per vertex quality is
	// available.
	QualityMin float64
	QualityMax float64
	HasQuality bool
}

const statsChunk = 4096

type partial struct {
	box        dvec3.Box
	area       float64
	qmin, qmax float64
}

// ComputeStats reads m from several goroutines and reduces the partial
// results under a mutex. m must not be modified while it runs.
func ComputeStats(ctx context.Context, m FaceMesh) (*Stats, error) {
	st := &Stats{
		VertexNumber: m.VertexNumber(),
		FaceNumber:   m.FaceNumber(),
		BoundingBox:  dvec3.MinBox,
		QualityMin:   math.Inf(1),
		QualityMax:   math.Inf(-1),
	}
	vc, fc := m.PerVertex(), m.PerFace()
	st.HasQuality = vc.IsComponentAvailable(mesh.QUALITY)

	var mu sync.Mutex
	merge := func(p *partial) {
		mu.Lock()
		defer mu.Unlock()
		st.BoundingBox.Join(&p.box)
		st.SurfaceArea += p.area
		st.QualityMin = math.Min(st.QualityMin, p.qmin)
		st.QualityMax = math.Max(st.QualityMax, p.qmax)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for first := uint32(0); first < vc.ElementContainerSize(); first += statsChunk {
		last := min(first+statsChunk, vc.ElementContainerSize())
		g.Go(func() error {
			p := &partial{box: dvec3.MinBox, qmin: math.Inf(1), qmax: math.Inf(-1)}
			for i := first; i < last; i++ {
				if vc.IsDeleted(i) {
					continue
				}
				v := m.Vertex(i)
				pos := *v.Position()
				bbx := dvec3.Box{Min: pos, Max: pos}
				p.box.Join(&bbx)
				if st.HasQuality {
					p.qmin = math.Min(p.qmin, *v.Quality())
					p.qmax = math.Max(p.qmax, *v.Quality())
				}
			}
			merge(p)
			return ctx.Err()
		})
	}
	for first := uint32(0); first < fc.ElementContainerSize(); first += statsChunk {
		last := min(first+statsChunk, fc.ElementContainerSize())
		g.Go(func() error {
			p := &partial{box: dvec3.MinBox, qmin: math.Inf(1), qmax: math.Inf(-1)}
			for i := first; i < last; i++ {
				if fc.IsDeleted(i) {
					continue
				}
				p.area += FaceArea(m.Face(i))
			}
			merge(p)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !st.HasQuality {
		st.QualityMin, st.QualityMax = 0, 0
	}
	return st, nil
}
