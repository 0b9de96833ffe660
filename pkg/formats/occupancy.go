package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Occupancy archive errors.
var (
	ErrInvalidOccupancyMagic = errors.New("invalid occupancy archive magic: expected 'OCCP'")
	ErrOccupancyVersion      = errors.New("unsupported occupancy archive version")
	ErrOccupancyLength       = errors.New("occupancy flag count does not match point count")
)

const (
	occupancyMagic   = "OCCP"
	occupancyVersion = 1
)

// OccupancySet holds sampled points and their per-point occupancy
// flags. Points are stored as float32 triples; flags are packed into
// bits on disk.
type OccupancySet struct {
	Points   [][3]float32
	Occupied []bool
}

// WriteOccupancy writes the set to a gzip-compressed binary archive:
// magic, version, point count, float32 point triples, packed bits.
func WriteOccupancy(path string, set *OccupancySet) error {
	if len(set.Points) != len(set.Occupied) {
		return ErrOccupancyLength
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if err := encodeOccupancy(zw, set); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func encodeOccupancy(w io.Writer, set *OccupancySet) error {
	if _, err := w.Write([]byte(occupancyMagic)); err != nil {
		return err
	}
	header := []uint32{occupancyVersion, uint32(len(set.Points))}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, set.Points); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, packBits(set.Occupied))
}

// ReadOccupancy reads an archive written by WriteOccupancy.
func ReadOccupancy(path string) (*OccupancySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer zr.Close()

	set, err := decodeOccupancy(zr)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return set, nil
}

func decodeOccupancy(r io.Reader) (*OccupancySet, error) {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, err
	}
	if string(magic) != occupancyMagic {
		return nil, ErrInvalidOccupancyMagic
	}
	var header [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if header[0] != occupancyVersion {
		return nil, fmt.Errorf("%w: %d", ErrOccupancyVersion, header[0])
	}
	n := int(header[1])

	set := &OccupancySet{Points: make([][3]float32, n)}
	if err := binary.Read(r, binary.LittleEndian, set.Points); err != nil {
		return nil, err
	}
	packed := make([]byte, (n+7)/8)
	if _, err := io.ReadFull(r, packed); err != nil {
		return nil, err
	}
	set.Occupied = unpackBits(packed, n)
	return set, nil
}

// packBits packs flags into bytes, most significant bit first.
func packBits(flags []bool) []byte {
	out := make([]byte, (len(flags)+7)/8)
	for i, f := range flags {
		if f {
			out[i/8] |= 1 << (7 - i%8)
		}
	}
	return out
}

func unpackBits(packed []byte, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = packed[i/8]&(1<<(7-i%8)) != 0
	}
	return out
}
