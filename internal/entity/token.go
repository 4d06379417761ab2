package entity

// LocationKind - where a token is. Exactly one kind applies at any time.
type LocationKind string

const (
	AtBase   LocationKind = "base"
	OnTrack  LocationKind = "track"
	InLane   LocationKind = "lane"
	Finished LocationKind = "finished"
)

// Location - a closed variant: Index is only meaningful for OnTrack (0..51)
// and InLane (0..5). Use the constructors, never build one by hand.
type Location struct {
	Kind  LocationKind `json:"kind"`
	Index int          `json:"index,omitempty"`
}

func BaseLocation() Location {
	return Location{Kind: AtBase}
}

func TrackLocation(trackIndex int) Location {
	return Location{Kind: OnTrack, Index: trackIndex}
}

func LaneLocation(laneIndex int) Location {
	return Location{Kind: InLane, Index: laneIndex}
}

func FinishedLocation() Location {
	return Location{Kind: Finished}
}

type Token struct {
	ID       int      `json:"id"`
	Location Location `json:"location"`
}

func NewToken(id int) *Token {
	return &Token{ID: id, Location: BaseLocation()}
}

func (that *Token) IsAtBase() bool {
	return that.Location.Kind == AtBase
}

func (that *Token) IsOnTrack() bool {
	return that.Location.Kind == OnTrack
}

func (that *Token) IsInLane() bool {
	return that.Location.Kind == InLane
}

func (that *Token) IsFinished() bool {
	return that.Location.Kind == Finished
}

// TrackIndex - the token's track cell; ok is false unless the token is on
// the shared track.
func (that *Token) TrackIndex() (int, bool) {
	if !that.IsOnTrack() {
		return 0, false
	}

	return that.Location.Index, true
}

// LaneIndex - the token's lane cell; ok is false unless the token is inside
// its lane.
func (that *Token) LaneIndex() (int, bool) {
	if !that.IsInLane() {
		return 0, false
	}

	return that.Location.Index, true
}
