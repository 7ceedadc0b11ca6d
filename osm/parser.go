package osm

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/qedus/osmpbf"
)

// LoadOsmFile decodes a PBF extract and builds the segment graph.
func LoadOsmFile(filePath string, logger *slog.Logger) (*OsmGraph, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open pbf: %w", err)
	}
	defer f.Close()

	d := osmpbf.NewDecoder(f)

	// use more memory from the start, it is faster
	d.SetBufferSize(osmpbf.MaxBlobSize)

	// start decoding with several goroutines, it is faster
	if err := d.Start(runtime.GOMAXPROCS(-1)); err != nil {
		return nil, fmt.Errorf("start pbf decoder: %w", err)
	}

	var nc, wc, rc uint64
	nodes := make(map[int64]*OsmNode)
	var ways []RawWay

	for {
		v, err := d.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode pbf: %w", err)
		}
		switch v := v.(type) {
		case *osmpbf.Node:
			n := &OsmNode{
				ID:  OsmNodeId(v.ID),
				Lat: v.Lat,
				Lon: v.Lon,
			}
			if v.Tags["highway"] == "motorway_junction" {
				n.ExitRef = v.Tags["ref"]
				n.ExitLabel = v.Tags["name"]
				n.ExitTo = v.Tags["exit_to"]
			}
			nodes[v.ID] = n
			nc++
		case *osmpbf.Way:
			if _, ok := RoadTypeOf(v.Tags["highway"]); !ok {
				wc++
				continue
			}
			nodeIDs := make([]OsmNodeId, len(v.NodeIDs))
			for i, id := range v.NodeIDs {
				nodeIDs[i] = OsmNodeId(id)
			}
			ways = append(ways, RawWay{ID: v.ID, Nodes: nodeIDs, Tags: v.Tags})
			wc++
		case *osmpbf.Relation:
			// turn restrictions are not modelled
			rc++
		default:
			return nil, fmt.Errorf("decode pbf: unknown type %T", v)
		}
	}
	logger.Info("decoded pbf", "path", filePath, "nodes", nc, "ways", wc, "relations", rc, "routable", len(ways))

	return Build(nodes, ways, logger), nil
}
