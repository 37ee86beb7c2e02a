package vacuum

import (
	"fmt"
	"strconv"
)

// CleanKind reports whether the robot is vacuuming or mopping.
type CleanKind int

const (
	NoFanNoMop CleanKind = iota
	VacuumOn
	MopOn
)

func (k CleanKind) String() string {
	switch k {
	case VacuumOn:
		return "vacuum"
	case MopOn:
		return "mop"
	default:
		return "none"
	}
}

// Status is a snapshot of the raw status mapping the cloud reports for a
// device. Keys are not guaranteed present and the mapping is replaced
// wholesale on every push; accessors are pure derivations with documented
// defaults, so a sparse first report never breaks a caller.
type Status struct {
	fields map[string]any
}

// NewStatus wraps a raw status mapping. The mapping is owned by the Status
// from here on and must not be mutated by the caller.
func NewStatus(fields map[string]any) Status {
	if fields == nil {
		fields = map[string]any{}
	}
	return Status{fields: fields}
}

// Field exposes a raw field for consumers that need vendor keys this layer
// does not interpret.
func (s Status) Field(key string) (any, bool) {
	v, ok := s.fields[key]
	return v, ok
}

// Mode returns the raw working_status string, Standby when absent.
func (s Status) Mode() string {
	if v, ok := s.fields[keyWorkingStatus]; ok {
		return stringFrom(v)
	}
	return ModeStandby
}

// IsCleaning reports whether the current mode is one of the cleaning
// states. Unknown mode strings are not cleaning.
func (s Status) IsCleaning() bool {
	_, ok := cleaningStates[s.Mode()]
	return ok
}

// IsCharging reports whether the current mode is one of the charging
// states.
func (s Status) IsCharging() bool {
	_, ok := chargingStates[s.Mode()]
	return ok
}

// IsAvailable reports whether the device is connected to the cloud. The
// device reports booleans as strings; only the literal "true" counts, any
// other value or type means unavailable.
func (s Status) IsAvailable() bool {
	return s.fields[keyConnected] == "true"
}

// ErrorInfo returns the raw error_info field, false when absent.
func (s Status) ErrorInfo() (string, bool) {
	v, ok := s.fields[keyErrorInfo]
	if !ok {
		return "", false
	}
	return stringFrom(v), true
}

// BatteryLevel returns the battery percentage, 0 when absent. A present
// but unparseable value is a MalformedValueError, not a silent zero.
func (s Status) BatteryLevel() (int, error) {
	v, ok := s.fields[keyBatteryLevel]
	if !ok {
		return 0, nil
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, &MalformedValueError{Key: keyBatteryLevel, Value: v}
		}
		return n, nil
	default:
		return 0, &MalformedValueError{Key: keyBatteryLevel, Value: v}
	}
}

// FanStatus returns the raw fan_status field, false when absent.
func (s Status) FanStatus() (string, bool) {
	v, ok := s.fields[keyFanStatus]
	if !ok {
		return "", false
	}
	return stringFrom(v), true
}

// MopStatus returns the raw water_level field, false when absent.
func (s Status) MopStatus() (string, bool) {
	v, ok := s.fields[keyWaterLevel]
	if !ok {
		return "", false
	}
	return stringFrom(v), true
}

// CleanTime returns the current cleaning time in seconds, 0 when absent.
func (s Status) CleanTime() int {
	return intFrom(s.fields[keyCleanTime])
}

// CleanArea returns the cleaned area in square meters, 0 when absent.
func (s Status) CleanArea() int {
	return intFrom(s.fields[keyCleanArea])
}

// VacuumOrMop derives what the robot is doing with its fan and mop.
// MopOn requires the fan disabled and a water level other than the
// disabled sentinel; any other combination with both fields present is
// VacuumOn. Missing either field yields NoFanNoMop.
func (s Status) VacuumOrMop() CleanKind {
	fan, fanOK := s.FanStatus()
	mop, mopOK := s.MopStatus()
	if !fanOK || !mopOK {
		return NoFanNoMop
	}
	if fan == FanDisabled && mop != MopDisabled {
		return MopOn
	}
	return VacuumOn
}

// ActiveMapID returns the id of the map the robot currently uses. Absence
// means no map is available, which is a normal state.
func (s Status) ActiveMapID() (string, bool) {
	v, ok := s.fields[keyActiveMapID]
	if !ok {
		return "", false
	}
	id := stringFrom(v)
	return id, id != ""
}

func stringFrom(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.0f", t)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

func intFrom(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		i, _ := strconv.Atoi(t)
		return i
	default:
		return 0
	}
}
