package vacmap

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPayload(blocks ...[]byte) []byte {
	payload := []byte{1, 0, 4, 0}
	for _, b := range blocks {
		payload = append(payload, b...)
	}
	return payload
}

func block(blockType int, headerExtra, data []byte) []byte {
	header := make([]byte, 8)
	binary.LittleEndian.PutUint16(header[0:], uint16(blockType))
	binary.LittleEndian.PutUint16(header[2:], uint16(8+len(headerExtra)))
	binary.LittleEndian.PutUint32(header[4:], uint32(len(data)))
	out := append(header, headerExtra...)
	return append(out, data...)
}

func gridBlock(width, height int, cells []byte) []byte {
	extra := make([]byte, 8)
	binary.LittleEndian.PutUint32(extra[0:], uint32(width))
	binary.LittleEndian.PutUint32(extra[4:], uint32(height))
	return block(blockGrid, extra, cells)
}

func pointBlock(blockType, x, y int) []byte {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint32(data[0:], uint32(int32(x)))
	binary.LittleEndian.PutUint32(data[4:], uint32(int32(y)))
	return block(blockType, nil, data)
}

func pathBlock(points []Point) []byte {
	data := make([]byte, 4+len(points)*8)
	binary.LittleEndian.PutUint32(data[0:], uint32(len(points)))
	for i, p := range points {
		binary.LittleEndian.PutUint32(data[4+i*8:], uint32(int32(p.X)))
		binary.LittleEndian.PutUint32(data[8+i*8:], uint32(int32(p.Y)))
	}
	return block(blockPath, nil, data)
}

func fullPayload() []byte {
	cells := make([]byte, 8*6)
	for i := range cells {
		cells[i] = CellFloor
	}
	cells[0] = CellWall
	cells[1] = cellRoomBase + 2
	return buildPayload(
		gridBlock(8, 6, cells),
		pointBlock(blockCharger, 1, 1),
		pointBlock(blockRobot, 5, 4),
		pathBlock([]Point{{X: 1, Y: 1}, {X: 3, Y: 2}, {X: 5, Y: 4}}),
	)
}

func TestParseFullPayload(t *testing.T) {
	m, err := Parse(fullPayload())
	require.NoError(t, err)

	assert.Equal(t, 8, m.Grid.Width)
	assert.Equal(t, 6, m.Grid.Height)
	assert.Len(t, m.Grid.Cells, 48)

	require.NotNil(t, m.Charger)
	assert.Equal(t, Point{X: 1, Y: 1}, *m.Charger)
	require.NotNil(t, m.Robot)
	assert.Equal(t, Point{X: 5, Y: 4}, *m.Robot)
	assert.Equal(t, []Point{{X: 1, Y: 1}, {X: 3, Y: 2}, {X: 5, Y: 4}}, m.Path)
}

func TestParseGzipWrapped(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(fullPayload())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	m, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 8, m.Grid.Width)
}

func TestParseGridOnly(t *testing.T) {
	m, err := Parse(buildPayload(gridBlock(2, 2, []byte{0, 1, 0xFF, 0xFF})))
	require.NoError(t, err)
	assert.Nil(t, m.Charger)
	assert.Nil(t, m.Robot)
	assert.Empty(t, m.Path)
}

func TestParseUnknownBlockSkipped(t *testing.T) {
	payload := buildPayload(
		block(99, nil, []byte{1, 2, 3, 4}),
		gridBlock(2, 2, []byte{0, 0, 0, 0}),
	)
	m, err := Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Grid.Width)
}

func TestParseMissingGrid(t *testing.T) {
	_, err := Parse(buildPayload(pointBlock(blockCharger, 1, 1)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestParseTooShort(t *testing.T) {
	_, err := Parse([]byte{0x01})
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestParseGridLengthMismatch(t *testing.T) {
	_, err := Parse(buildPayload(gridBlock(4, 4, []byte{0, 0, 0})))
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestParseTruncatedBlock(t *testing.T) {
	payload := buildPayload(gridBlock(2, 2, []byte{0, 0, 0, 0}))
	_, err := Parse(payload[:len(payload)-2])
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestParsePathLengthMismatch(t *testing.T) {
	data := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(data[0:], 5)
	payload := buildPayload(
		gridBlock(2, 2, []byte{0, 0, 0, 0}),
		block(blockPath, nil, data),
	)
	_, err := Parse(payload)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestRoomIndex(t *testing.T) {
	room, ok := RoomIndex(cellRoomBase)
	assert.True(t, ok)
	assert.Equal(t, 0, room)

	room, ok = RoomIndex(cellRoomBase + 9)
	assert.True(t, ok)
	assert.Equal(t, 9, room)

	_, ok = RoomIndex(CellWall)
	assert.False(t, ok)
	_, ok = RoomIndex(CellFloor)
	assert.False(t, ok)
}
