// Package network holds the routable network of one instance: vertices,
// edges with attributes, a spatial index, and the routing primitives the
// tour service needs (candidate search, travel-cost matrices, route assembly).
package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/merrydance/logistics/geo"
)

var (
	ErrInvalidNetwork = errors.New("invalid network")
	ErrNoCandidate    = errors.New("no candidate found")
	ErrUnsupported    = errors.New("profile not supported by network")
)

// Edge a directed-by-storage, possibly bidirectional road segment.
type Edge struct {
	ID         int
	From       int
	To         int
	Distance   float64
	Attributes geo.Attributes
}

type adjacent struct {
	edge    int
	forward bool
}

// Network the in-memory road network of an instance. Read-only once built.
type Network struct {
	Name      string
	Vehicles  []string
	Vertices  []geo.Coordinate
	Edges     []Edge
	adjacency [][]adjacent
	index     *edgeIndex
}

type document struct {
	Name     string         `json:"name"`
	Vehicles []string       `json:"vehicles"`
	Vertices [][2]float64   `json:"vertices"`
	Edges    []edgeDocument `json:"edges"`
}

type edgeDocument struct {
	From       int               `json:"from"`
	To         int               `json:"to"`
	Distance   float64           `json:"distance,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// New builds a network from vertices and edges. Missing edge distances are
// computed from the vertex coordinates.
func New(name string, vehicles []string, vertices []geo.Coordinate, edges []Edge) (*Network, error) {
	n := &Network{
		Name:      name,
		Vehicles:  vehicles,
		Vertices:  vertices,
		Edges:     make([]Edge, len(edges)),
		adjacency: make([][]adjacent, len(vertices)),
	}
	for i, v := range vertices {
		if !v.Valid() {
			return nil, fmt.Errorf("%w: vertex %d has invalid coordinate %s", ErrInvalidNetwork, i, v)
		}
	}
	for i, e := range edges {
		if e.From < 0 || e.From >= len(vertices) || e.To < 0 || e.To >= len(vertices) {
			return nil, fmt.Errorf("%w: edge %d references unknown vertex", ErrInvalidNetwork, i)
		}
		if e.From == e.To {
			return nil, fmt.Errorf("%w: edge %d is a loop", ErrInvalidNetwork, i)
		}
		if e.Distance <= 0 || math.IsNaN(e.Distance) || math.IsInf(e.Distance, 0) {
			e.Distance = geo.Distance(vertices[e.From], vertices[e.To])
		}
		e.ID = i
		n.Edges[i] = e
		n.adjacency[e.From] = append(n.adjacency[e.From], adjacent{edge: i, forward: true})
		n.adjacency[e.To] = append(n.adjacency[e.To], adjacent{edge: i, forward: false})
	}
	n.index = newEdgeIndex(n)
	return n, nil
}

// Supports reports whether the network carries data for the vehicle.
func (n *Network) Supports(vehicle string) bool {
	for _, v := range n.Vehicles {
		if v == vehicle {
			return true
		}
	}
	return false
}

// Segment the start and end coordinate of an edge.
func (n *Network) Segment(edgeID int) (geo.Coordinate, geo.Coordinate) {
	e := n.Edges[edgeID]
	return n.Vertices[e.From], n.Vertices[e.To]
}

// Decode reads a network document.
func Decode(r io.Reader) (*Network, error) {
	var doc document
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode network: %w", err)
	}
	if len(doc.Vertices) == 0 {
		return nil, fmt.Errorf("%w: no vertices", ErrInvalidNetwork)
	}

	vertices := make([]geo.Coordinate, len(doc.Vertices))
	for i, v := range doc.Vertices {
		vertices[i] = geo.NewCoordinate(v[0], v[1])
	}
	edges := make([]Edge, len(doc.Edges))
	for i, e := range doc.Edges {
		edges[i] = Edge{
			From:       e.From,
			To:         e.To,
			Distance:   e.Distance,
			Attributes: geo.AttributesFromMap(e.Attributes),
		}
	}
	return New(doc.Name, doc.Vehicles, vertices, edges)
}

// Encode writes the network as a document readable by Decode.
func Encode(w io.Writer, n *Network) error {
	doc := document{
		Name:     n.Name,
		Vehicles: n.Vehicles,
		Vertices: make([][2]float64, len(n.Vertices)),
		Edges:    make([]edgeDocument, len(n.Edges)),
	}
	for i, v := range n.Vertices {
		doc.Vertices[i] = [2]float64{v.Latitude, v.Longitude}
	}
	for i, e := range n.Edges {
		attributes := make(map[string]string, e.Attributes.Len())
		for _, a := range e.Attributes.Items() {
			attributes[a.Key] = a.Value
		}
		doc.Edges[i] = edgeDocument{From: e.From, To: e.To, Distance: e.Distance, Attributes: attributes}
	}
	return json.NewEncoder(w).Encode(doc)
}

// Load reads a network file; files ending in .gz are gzip-compressed.
func Load(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open network %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip network %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	return Decode(r)
}

// Save writes a network file; paths ending in .gz are gzip-compressed.
func Save(path string, n *Network) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create network %s: %w", path, err)
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".gz") {
		return Encode(f, n)
	}
	zw := gzip.NewWriter(f)
	if err := Encode(zw, n); err != nil {
		return err
	}
	return zw.Close()
}
