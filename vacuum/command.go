package vacuum

import "fmt"

// Payload is a single-use command mapping handed to the transport as-is.
type Payload map[string]any

// Zone is an axis-aligned cleaning box in full-resolution map units.
type Zone struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

func encodeTurnOn() Payload {
	return Payload{keyWorkingStatus: ModeAutoClean}
}

func encodeReturnToBase() Payload {
	return Payload{keyWorkingStatus: ModeReturnCharge}
}

func encodePause() Payload {
	return Payload{keyWorkingStatus: ModeStandby}
}

func encodeCleanSpot() Payload {
	return Payload{keyWorkingStatus: ModeSpotClean}
}

func encodeLocate() Payload {
	return Payload{keyWorkingStatus: ModeLocate}
}

func encodeGoto(point string) (Payload, error) {
	if point == "" {
		return nil, fmt.Errorf("%w: empty goto point", errRejected)
	}
	return Payload{
		keyWorkingStatus: ModePlanLocation,
		keyGotoPoint:     point,
	}, nil
}

func encodeCleanRect(rect string) (Payload, error) {
	if rect == "" {
		return nil, fmt.Errorf("%w: empty rectangle", errRejected)
	}
	return Payload{
		keyWorkingStatus: ModePlanRect,
		keyRectangle:     rect,
	}, nil
}

func encodeCleanRooms(roomIDs []int) (Payload, error) {
	if len(roomIDs) == 0 {
		return nil, fmt.Errorf("%w: no rooms selected", errRejected)
	}
	rooms := make([]map[string]any, 0, len(roomIDs))
	for _, id := range roomIDs {
		rooms = append(rooms, map[string]any{keyRoomID: id})
	}
	return Payload{
		keyWorkingStatus: ModeRoomClean,
		keySelectedZone:  rooms,
	}, nil
}

// encodeCleanZone expands each box into its four corners on the coarse
// grid the device understands: coordinates are divided by 10, X runs
// (x1,x1,x2,x2) and Y runs (y1,y2,y2,y1). The corner order must be kept
// stable across boxes so the device reads contiguous quads.
func encodeCleanZone(zones []Zone) (Payload, error) {
	if len(zones) == 0 {
		return nil, fmt.Errorf("%w: no zones given", errRejected)
	}
	boxX := make([]int, 0, len(zones)*4)
	boxY := make([]int, 0, len(zones)*4)
	for _, z := range zones {
		boxX = append(boxX, z.X1/10, z.X1/10, z.X2/10, z.X2/10)
		boxY = append(boxY, z.Y1/10, z.Y2/10, z.Y2/10, z.Y1/10)
	}
	return Payload{
		keyWorkingStatus: ModePlanRect,
		keyPointNum:      len(zones) * 4,
		keyRectX:         boxX,
		keyRectY:         boxY,
	}, nil
}

func encodeFanWaterSpeed(speed string) (Payload, error) {
	if _, ok := fanWaterSpeeds[speed]; !ok {
		return nil, fmt.Errorf("%w: fan/mop value %q is not available", errRejected, speed)
	}
	return Payload{keyFanStatus: speed}, nil
}

func encodeSwitch(key, state string) (Payload, error) {
	if _, ok := switchValues[state]; !ok {
		return nil, fmt.Errorf("%w: %s cannot be set to %q", errRejected, key, state)
	}
	return Payload{key: state}, nil
}
