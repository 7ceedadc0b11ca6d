package geom

import (
	"encoding/json"

	"github.com/paulmach/orb"
)

// GeoJSONFeatureCollection represents a GeoJSON FeatureCollection
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// GeoJSONFeature represents a GeoJSON Feature
type GeoJSONFeature struct {
	Type       string          `json:"type"`
	Properties json.RawMessage `json:"properties,omitempty"`
	Geometry   GeoJSONGeometry `json:"geometry"`
}

// GeoJSONGeometry holds Point or LineString geometry. Coordinates stays raw so
// both shapes decode into the same struct.
type GeoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Positions returns the coordinates of a Point or LineString as lon/lat pairs.
func (g GeoJSONGeometry) Positions() ([][]float64, error) {
	switch g.Type {
	case "Point":
		var p []float64
		if err := json.Unmarshal(g.Coordinates, &p); err != nil {
			return nil, err
		}
		return [][]float64{p}, nil
	default:
		var ps [][]float64
		if err := json.Unmarshal(g.Coordinates, &ps); err != nil {
			return nil, err
		}
		return ps, nil
	}
}

// NewPointFeature builds a Point feature with the given properties.
func NewPointFeature(lon, lat float64, props any) (GeoJSONFeature, error) {
	coords, err := json.Marshal([]float64{lon, lat})
	if err != nil {
		return GeoJSONFeature{}, err
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return GeoJSONFeature{}, err
	}
	return GeoJSONFeature{
		Type:       "Feature",
		Properties: raw,
		Geometry:   GeoJSONGeometry{Type: "Point", Coordinates: coords},
	}, nil
}

// NewLineFeature builds a LineString feature from ls.
func NewLineFeature(ls orb.LineString, props any) (GeoJSONFeature, error) {
	pts := make([][]float64, len(ls))
	for i, p := range ls {
		pts[i] = []float64{p.Lon(), p.Lat()}
	}
	coords, err := json.Marshal(pts)
	if err != nil {
		return GeoJSONFeature{}, err
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return GeoJSONFeature{}, err
	}
	return GeoJSONFeature{
		Type:       "Feature",
		Properties: raw,
		Geometry:   GeoJSONGeometry{Type: "LineString", Coordinates: coords},
	}, nil
}
