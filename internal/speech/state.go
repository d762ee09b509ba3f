package speech

// State is the read side of a speech engine. Implementations report which
// sentence is being spoken and the range currently being voiced.
type State interface {
	IsSpeaking() bool
	CurrentText() (string, bool)
	CurrentRange() (Range, bool)
}

// Snapshot is a fixed State, useful for rendering and tests.
type Snapshot struct {
	Speaking bool
	Text     string
	Range    *Range
}

func (s Snapshot) IsSpeaking() bool { return s.Speaking }

func (s Snapshot) CurrentText() (string, bool) {
	if !s.Speaking {
		return "", false
	}
	return s.Text, true
}

func (s Snapshot) CurrentRange() (Range, bool) {
	if !s.Speaking || s.Range == nil {
		return Range{}, false
	}
	return *s.Range, true
}
