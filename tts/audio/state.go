package audio

// State is the playback state of a Player. A single tagged state replaces
// the playing/paused flag pair so paused-without-playing cannot be
// represented.
type State int

const (
	// Stopped indicates no audio is loaded or playback has ended.
	Stopped State = iota
	// Playing indicates audio is audibly playing.
	Playing
	// Paused indicates playback is suspended and can be resumed.
	Paused
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// transitions lists the legal state changes driven by transport operations:
// Stopped->Playing on speak, Playing->Paused on pause, Paused->Playing on
// resume. Stop and end-of-utterance reach Stopped from any state.
var transitions = map[State][]State{
	Stopped: {Playing},
	Playing: {Paused, Stopped},
	Paused:  {Playing, Stopped},
}

// canTransition reports whether moving from one state to another is legal.
func canTransition(from, to State) bool {
	if to == Stopped {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// playbackState is the shared mutable record for one playback session. The
// player's mutex guards every field; the position tracker and the public
// API both mutate it, so readers never observe a torn combination of
// buffer, position, and state.
type playbackState struct {
	// samples is the normalized utterance buffer, immutable once set and
	// replaced wholesale by each new speak.
	samples []float64

	// position is the playback index in 0..=len(samples).
	position int

	state State

	// window holds the most recent tick's worth of samples for
	// visualization. Cleared on stop.
	window []float64

	// gen retires position trackers: a tracker whose generation no
	// longer matches exits on its next tick.
	gen uint64
}
