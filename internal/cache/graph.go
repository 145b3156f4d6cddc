// Package cache persists the road graph and the projected highway
// directory to disk so subsequent startups skip the network fetches of
// C1 (spec.md §4.2). Two independent blobs are written: a CRC32-checked
// binary layout for the graph (adapted from the teacher's
// pkg/graph/binary.go) and a gob-encoded directory for the highway
// projections (adapted from the pack's routestore snapshot pattern).
package cache

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"

	"itinerant/internal/graph"
)

const (
	graphMagic   = "ITINGRPH"
	graphVersion = uint32(1)
)

type graphHeader struct {
	Magic    [8]byte
	Version  uint32
	NumNodes uint32
	NumEdges uint32
}

// WriteGraph serializes a Graph to a binary file. Only topology, length,
// and maxspeed are persisted: congestion and itime are cycle-local and
// are rebuilt fresh from the congestion feed on every load (spec.md §4.2
// carries no versioning guarantee and no congestion state across process
// restarts).
func WriteGraph(path string, g *graph.Graph) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	cw := &crc32Writer{w: f, hash: crc32.NewIEEE()}

	hdr := graphHeader{Version: graphVersion, NumNodes: g.NumNodes, NumEdges: g.NumEdges}
	copy(hdr.Magic[:], graphMagic)
	if err := binary.Write(cw, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if err := writeUint32Slice(cw, g.FirstOut); err != nil {
		return fmt.Errorf("write FirstOut: %w", err)
	}
	if err := writeUint32Slice(cw, g.Head); err != nil {
		return fmt.Errorf("write Head: %w", err)
	}
	if err := writeFloat64Slice(cw, g.NodeLon); err != nil {
		return fmt.Errorf("write NodeLon: %w", err)
	}
	if err := writeFloat64Slice(cw, g.NodeLat); err != nil {
		return fmt.Errorf("write NodeLat: %w", err)
	}
	if err := writeFloat64Slice(cw, g.Length); err != nil {
		return fmt.Errorf("write Length: %w", err)
	}
	if err := writeFloat64Slice(cw, g.MaxSpeed); err != nil {
		return fmt.Errorf("write MaxSpeed: %w", err)
	}

	checksum := cw.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// ReadGraph deserializes a Graph from a binary file written by WriteGraph.
// Congestion, CongestionInfo, and ITime come back zeroed; the caller is
// expected to rerun C5-C7 before serving queries.
func ReadGraph(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	cr := &crc32Reader{r: f, hash: crc32.NewIEEE()}

	var hdr graphHeader
	if err := binary.Read(cr, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != graphMagic {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != graphVersion {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}

	g := &graph.Graph{NumNodes: hdr.NumNodes, NumEdges: hdr.NumEdges}
	if g.FirstOut, err = readUint32Slice(cr, int(hdr.NumNodes+1)); err != nil {
		return nil, fmt.Errorf("read FirstOut: %w", err)
	}
	if g.Head, err = readUint32Slice(cr, int(hdr.NumEdges)); err != nil {
		return nil, fmt.Errorf("read Head: %w", err)
	}
	if g.NodeLon, err = readFloat64Slice(cr, int(hdr.NumNodes)); err != nil {
		return nil, fmt.Errorf("read NodeLon: %w", err)
	}
	if g.NodeLat, err = readFloat64Slice(cr, int(hdr.NumNodes)); err != nil {
		return nil, fmt.Errorf("read NodeLat: %w", err)
	}
	if g.Length, err = readFloat64Slice(cr, int(hdr.NumEdges)); err != nil {
		return nil, fmt.Errorf("read Length: %w", err)
	}
	if g.MaxSpeed, err = readFloat64Slice(cr, int(hdr.NumEdges)); err != nil {
		return nil, fmt.Errorf("read MaxSpeed: %w", err)
	}

	expected := cr.hash.Sum32()
	var stored uint32
	if err := binary.Read(f, binary.LittleEndian, &stored); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if stored != expected {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", stored, expected)
	}

	g.Congestion = make([]uint8, hdr.NumEdges)
	g.CongestionInfo = make([]bool, hdr.NumEdges)
	g.ITime = make([]float64, hdr.NumEdges)
	return g, nil
}

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func writeFloat64Slice(w io.Writer, s []float64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readFloat64Slice(r io.Reader, n int) ([]float64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]float64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
