// Package vacmap decodes the raw map payloads a WeBack vacuum stores in
// the cloud and renders them into a composited PNG.
package vacmap

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
)

// ErrDecode marks a malformed map payload. Construction fails wholesale;
// a partial map is never returned.
var ErrDecode = errors.New("vacmap: malformed map payload")

// Payload block types.
const (
	blockGrid    = 1
	blockCharger = 2
	blockRobot   = 3
	blockPath    = 4
)

// Grid cell values.
const (
	CellOutside = 0x00
	CellWall    = 0x01
	CellFloor   = 0xFF

	cellRoomBase = 0x10
	cellRoomMax  = 0xEF
)

const maxGridDim = 4096

// Point is a position in grid-pixel coordinates.
type Point struct {
	X int
	Y int
}

// Grid is the decoded occupancy grid, row-major from the bottom-left.
type Grid struct {
	Width  int
	Height int
	Cells  []byte
}

// Map is the decoded form of one raw map payload. A new payload produces
// a new Map; none of the fields are mutated after Parse returns.
type Map struct {
	Grid    Grid
	Charger *Point
	Robot   *Point
	Path    []Point
}

// Parse decodes a raw map payload, transparently handling gzip-wrapped
// data. The grid block is mandatory; charger, robot and path are
// optional. Unknown block types are skipped.
func Parse(raw []byte) (*Map, error) {
	data := raw
	if len(raw) >= 2 && raw[0] == 0x1f && raw[1] == 0x8b {
		decompressed, err := gzipDecompress(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrDecode, err)
		}
		data = decompressed
	}

	if len(data) < 4 {
		return nil, fmt.Errorf("%w: payload too short", ErrDecode)
	}
	headerLen := int(u16le(data, 0x02))
	if headerLen < 4 || headerLen > len(data) {
		return nil, fmt.Errorf("%w: invalid header length %d", ErrDecode, headerLen)
	}

	m := &Map{}
	haveGrid := false
	off := headerLen
	for off < len(data) {
		if off+8 > len(data) {
			return nil, fmt.Errorf("%w: truncated block header", ErrDecode)
		}
		blockType := int(u16le(data, off))
		blockHeaderLen := int(u16le(data, off+2))
		blockDataLen := int(u32le(data, off+4))
		if blockHeaderLen < 8 || off+blockHeaderLen > len(data) {
			return nil, fmt.Errorf("%w: invalid block header length %d", ErrDecode, blockHeaderLen)
		}
		header := data[off : off+blockHeaderLen]
		dataStart := off + blockHeaderLen
		if blockDataLen < 0 || dataStart+blockDataLen > len(data) {
			return nil, fmt.Errorf("%w: truncated block data", ErrDecode)
		}
		blockData := data[dataStart : dataStart+blockDataLen]

		switch blockType {
		case blockGrid:
			grid, err := parseGrid(header, blockData)
			if err != nil {
				return nil, err
			}
			m.Grid = grid
			haveGrid = true
		case blockCharger:
			p, err := parsePoint(blockData)
			if err != nil {
				return nil, fmt.Errorf("%w: charger block: %v", ErrDecode, err)
			}
			m.Charger = p
		case blockRobot:
			p, err := parsePoint(blockData)
			if err != nil {
				return nil, fmt.Errorf("%w: robot block: %v", ErrDecode, err)
			}
			m.Robot = p
		case blockPath:
			path, err := parsePath(blockData)
			if err != nil {
				return nil, err
			}
			m.Path = path
		}

		off = dataStart + blockDataLen
	}

	if !haveGrid {
		return nil, fmt.Errorf("%w: grid block missing", ErrDecode)
	}
	return m, nil
}

func parseGrid(header, data []byte) (Grid, error) {
	if len(header) < 16 {
		return Grid{}, fmt.Errorf("%w: grid header too short", ErrDecode)
	}
	width := int(i32le(header, len(header)-8))
	height := int(i32le(header, len(header)-4))
	if width <= 0 || height <= 0 || width > maxGridDim || height > maxGridDim {
		return Grid{}, fmt.Errorf("%w: invalid grid dimensions %dx%d", ErrDecode, width, height)
	}
	if len(data) != width*height {
		return Grid{}, fmt.Errorf("%w: grid data length %d does not match %dx%d", ErrDecode, len(data), width, height)
	}
	return Grid{Width: width, Height: height, Cells: data}, nil
}

func parsePoint(data []byte) (*Point, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("point data too short")
	}
	return &Point{X: int(i32le(data, 0x00)), Y: int(i32le(data, 0x04))}, nil
}

func parsePath(data []byte) ([]Point, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: path block too short", ErrDecode)
	}
	count := int(u32le(data, 0x00))
	if count < 0 || 4+count*8 != len(data) {
		return nil, fmt.Errorf("%w: path block length mismatch", ErrDecode)
	}
	path := make([]Point, 0, count)
	for i := 0; i < count; i++ {
		off := 4 + i*8
		path = append(path, Point{X: int(i32le(data, off)), Y: int(i32le(data, off+4))})
	}
	return path, nil
}

// RoomIndex returns the room number a grid cell belongs to, or false for
// non-room cells.
func RoomIndex(cell byte) (int, bool) {
	if cell >= cellRoomBase && cell <= cellRoomMax {
		return int(cell) - cellRoomBase, true
	}
	return 0, false
}

func gzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func u16le(data []byte, offset int) uint16 {
	return uint16(data[offset]) | uint16(data[offset+1])<<8
}

func u32le(data []byte, offset int) uint32 {
	return uint32(data[offset]) | uint32(data[offset+1])<<8 | uint32(data[offset+2])<<16 | uint32(data[offset+3])<<24
}

func i32le(data []byte, offset int) int32 {
	return int32(u32le(data, offset))
}
