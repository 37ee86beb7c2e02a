package vacuum

// Wire-level field names of the WeBack cloud protocol. The device reports
// and accepts plain strings; these tables are the single place that gives
// them meaning.
const (
	keyWorkingStatus = "working_status"
	keyConnected     = "connected"
	keyErrorInfo     = "error_info"
	keyBatteryLevel  = "battery_level"
	keyFanStatus     = "fan_status"
	keyWaterLevel    = "water_level"
	keyCleanTime     = "clean_time"
	keyCleanArea     = "clean_area"
	keyActiveMapID   = "map_id"

	keyGotoPoint    = "goto_point"
	keyRectangle    = "virtual_rect_info"
	keySelectedZone = "selected_zone"
	keyRoomID       = "room_id"
	keyPointNum     = "planning_rect_point_num"
	keyRectX        = "planning_rect_x"
	keyRectY        = "planning_rect_y"
	keyVoiceSwitch  = "voice_switch"
	keyUndisturb    = "undisturb_mode"
)

// Working modes. The same strings double as command values for
// working_status and as reported states.
const (
	ModeStandby      = "Standby"
	ModeAutoClean    = "AutoClean"
	ModeEdgeClean    = "EdgeClean"
	ModeSpotClean    = "SpotClean"
	ModeRoomClean    = "RoomClean"
	ModeSmartClean   = "SmartClean"
	ModeMopClean     = "MopClean"
	ModePlanLocation = "PlanningLocation"
	ModePlanRect     = "PlanningRect"
	ModeLocate       = "LocationAlarm"
	ModeReturnCharge = "BackCharging"
	ModeCharging     = "Charging"
	ModePileCharging = "PileCharging"
	ModeDirCharging  = "DirCharging"
	ModeChargeDone   = "ChargeDone"
)

// Fan speeds and mop water levels. Pause and None are the disabled
// sentinels the device uses for fan and mop respectively.
const (
	FanDisabled    = "Pause"
	FanSpeedQuiet  = "Quiet"
	FanSpeedNormal = "Normal"
	FanSpeedHigh   = "Strong"

	MopDisabled    = "None"
	MopSpeedLow    = "Low"
	MopSpeedNormal = "Default"
	MopSpeedHigh   = "High"

	SwitchOn  = "on"
	SwitchOff = "off"
)

var cleaningStates = map[string]struct{}{
	ModeAutoClean:    {},
	ModeEdgeClean:    {},
	ModeSpotClean:    {},
	ModeRoomClean:    {},
	ModeSmartClean:   {},
	ModeMopClean:     {},
	ModePlanLocation: {},
	ModePlanRect:     {},
}

var chargingStates = map[string]struct{}{
	ModeCharging:     {},
	ModePileCharging: {},
	ModeDirCharging:  {},
	ModeChargeDone:   {},
}

var switchValues = map[string]struct{}{
	SwitchOn:  {},
	SwitchOff: {},
}

var fanWaterSpeeds = map[string]struct{}{
	FanSpeedQuiet:  {},
	FanSpeedNormal: {},
	FanSpeedHigh:   {},
	MopSpeedLow:    {},
	MopSpeedNormal: {},
	MopSpeedHigh:   {},
}

// FanSpeedList returns the selectable fan speeds.
func FanSpeedList() []string {
	return []string{FanSpeedQuiet, FanSpeedNormal, FanSpeedHigh}
}

// MopLevelList returns the selectable mop water levels.
func MopLevelList() []string {
	return []string{MopSpeedLow, MopSpeedNormal, MopSpeedHigh}
}
