package convert

import (
	"math"

	"github.com/golang/geo/s2"
	geo "github.com/paulmach/go.geo"

	"github.com/godeepar/geocore/geometry"
)

// ExtentContainer grows a dataset extent from envelopes sent on ch by any
// number of goroutines. Only the listener touches extent, and done closes
// once the listener has seen ch close.
type ExtentContainer struct {
	extent geometry.Envelope
	ch     chan geometry.Envelope
	done   chan struct{}
}

// initExtentContainer starts the listener for a new dataset.
func initExtentContainer() *ExtentContainer {
	container := &ExtentContainer{
		extent: geometry.EmptyEnvelope(),
		ch:     make(chan geometry.Envelope),
		done:   make(chan struct{}),
	}
	go BBOXListener(container)
	return container
}

// BBOXListener observes every envelope on the channel and keeps the union.
func BBOXListener(container *ExtentContainer) {
	defer close(container.done)
	for env := range container.ch {
		container.extent = container.extent.ExpandToIncludeEnvelope(env)
	}
}

// s2MaxCells bounds the size of a covering.
const s2MaxCells = 8

// S2Covering returns the s2 cell tokens covering extent, each cut to at most
// 8 characters. Projected extents are brought back to lon/lat first. An
// empty extent has no covering.
func S2Covering(extent geometry.Envelope) []string {
	var s2hash []string
	if extent.IsEmpty() {
		return s2hash
	}
	lx, ly := To4326(extent.MinX, extent.MinY)
	rx, uy := To4326(extent.MaxX, extent.MaxY)

	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(ly, lx))
	rect = rect.AddPoint(s2.LatLngFromDegrees(uy, rx))
	coverer := &s2.RegionCoverer{MaxLevel: 30, MaxCells: s2MaxCells}

	seen := make(map[string]bool)
	for _, cellid := range coverer.Covering(rect) {
		token := cellid.ToToken()
		if len(token) > 8 {
			runes := []rune(token)
			token = string(runes[0:8])
		}
		if seen[token] {
			continue
		}
		seen[token] = true
		s2hash = append(s2hash, token)
	}
	return s2hash
}

// To4326 converts web mercator to lon/lat, to 4 decimals. Values already
// within ±180 are taken to be lon/lat and returned unchanged.
func To4326(x float64, y float64) (float64, float64) {
	if x > 180 || x < -180 || y > 180 || y < -180 {
		mercPoint := geo.NewPoint(x, y)
		geo.Mercator.Inverse(mercPoint)
		x = math.Round(mercPoint[0]*10000) / 10000
		y = math.Round(mercPoint[1]*10000) / 10000
	}
	return x, y
}

// To3857 converts lon/lat to web mercator, to the cm. Values outside ±180
// are taken to be projected already and returned unchanged.
func To3857(x float64, y float64) (float64, float64) {
	if x >= -180 && x <= 180 && y >= -180 && y <= 180 {
		mercPoint := geo.NewPoint(x, y)
		geo.Mercator.Project(mercPoint)
		x = math.Round(mercPoint[0]*100) / 100
		y = math.Round(mercPoint[1]*100) / 100
	}
	return x, y
}
