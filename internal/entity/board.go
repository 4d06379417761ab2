package entity

// Board geometry of the standard 4-seat track. The track is a 52-cell cycle
// shared by all colors; each color turns off into its own 6-cell lane after
// passing its lane-entry cell.
const (
	TrackLength     = 52
	LaneLength      = 6
	TokensPerSeat   = 4
	SeatsPerSession = 4
)

type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
)

// SeatColors - fixed seat order: seat index is an index into this array.
var SeatColors = [SeatsPerSession]Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// StartIndex - the track cell where a color's tokens enter from base.
var StartIndex = map[Color]int{
	ColorRed:    0,
	ColorBlue:   13,
	ColorYellow: 26,
	ColorGreen:  39,
}

// LaneEntryIndex - the last track cell a color passes before turning into
// its lane.
var LaneEntryIndex = map[Color]int{
	ColorRed:    51,
	ColorBlue:   11,
	ColorGreen:  37,
	ColorYellow: 24,
}

// SafeCells - track cells where capture cannot occur.
var SafeCells = map[int]struct{}{
	0: {}, 8: {}, 13: {}, 21: {}, 26: {}, 34: {}, 39: {}, 47: {},
}

func IsSafeCell(trackIndex int) bool {
	_, ok := SafeCells[trackIndex]
	return ok
}

// DistanceToLaneEntry - how many steps a token at trackIndex must travel to
// land on its color's lane-entry cell. A token sitting exactly on the entry
// cell has not entered the lane and must travel the whole track again to
// re-reach it, so a raw distance of 0 means a full lap.
func DistanceToLaneEntry(color Color, trackIndex int) int {
	distance := (LaneEntryIndex[color] - trackIndex + TrackLength) % TrackLength
	if distance == 0 {
		return TrackLength
	}

	return distance
}
