package speech

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/f3rmion/kanjicard/internal/reading"
)

// DefaultWordsPerMinute paces narration when no rate is configured.
const DefaultWordsPerMinute = 90

// ErrEmptyText is returned when asked to narrate nothing.
var ErrEmptyText = errors.New("nothing to speak")

// Segmenter splits text into spoken words.
type Segmenter interface {
	Words(text string) []reading.Word
}

// SegmenterFunc adapts a plain function to a Segmenter.
type SegmenterFunc func(text string) []reading.Word

// Words implements Segmenter.
func (f SegmenterFunc) Words(text string) []reading.Word { return f(text) }

// Narrator walks through a sentence word by word and reports its progress
// through the State interface. It is owned by a single goroutine (the UI
// loop); only the optional voice runs elsewhere.
type Narrator struct {
	segmenter Segmenter
	voice     Voice
	interval  time.Duration
	logger    *slog.Logger

	text     string
	words    []Range
	pos      int
	speaking bool
	session  int
	cancel   context.CancelFunc
}

// NewNarrator creates a narrator. voice may be nil for silent narration.
func NewNarrator(seg Segmenter, voice Voice, wordsPerMinute int, logger *slog.Logger) *Narrator {
	if seg == nil {
		seg = SegmenterFunc(reading.Characters)
	}
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Narrator{
		segmenter: seg,
		voice:     voice,
		interval:  time.Minute / time.Duration(wordsPerMinute),
		logger:    logger.With(slog.String("component", "narrator")),
	}
}

// Start begins narrating text, replacing any narration in progress. It
// returns the new session number; ticks from older sessions should be
// dropped by the caller.
func (n *Narrator) Start(ctx context.Context, text string) (int, error) {
	n.Stop()

	words := n.ranges(text)
	if len(words) == 0 {
		return n.session, ErrEmptyText
	}

	n.session++
	n.text = text
	n.words = words
	n.pos = 0
	n.speaking = true

	if n.voice != nil {
		vctx, cancel := context.WithCancel(ctx)
		n.cancel = cancel
		session := n.session
		go func() {
			if err := n.voice.Say(vctx, text); err != nil && vctx.Err() == nil {
				n.logger.Warn("voice failed",
					slog.Int("session", session),
					slog.String("error", err.Error()))
			}
		}()
	}

	n.logger.Debug("narration started",
		slog.Int("session", n.session),
		slog.Int("words", len(words)))
	return n.session, nil
}

// Advance moves to the next word. It returns false once narration has
// finished, at which point the narrator is no longer speaking.
func (n *Narrator) Advance() bool {
	if !n.speaking {
		return false
	}
	if n.pos+1 >= len(n.words) {
		n.finish()
		return false
	}
	n.pos++
	return true
}

// Stop ends narration and silences the voice.
func (n *Narrator) Stop() {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	n.finish()
}

// Session returns the current session number.
func (n *Narrator) Session() int { return n.session }

// SetWordsPerMinute changes the pace of later ticks.
func (n *Narrator) SetWordsPerMinute(wpm int) {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	n.interval = time.Minute / time.Duration(wpm)
}

// Interval is the time each word is highlighted.
func (n *Narrator) Interval() time.Duration { return n.interval }

// IsSpeaking implements State.
func (n *Narrator) IsSpeaking() bool { return n.speaking }

// CurrentText implements State.
func (n *Narrator) CurrentText() (string, bool) {
	if !n.speaking {
		return "", false
	}
	return n.text, true
}

// CurrentRange implements State.
func (n *Narrator) CurrentRange() (Range, bool) {
	if !n.speaking || n.pos >= len(n.words) {
		return Range{}, false
	}
	return n.words[n.pos], true
}

func (n *Narrator) finish() {
	n.speaking = false
	n.text = ""
	n.words = nil
	n.pos = 0
}

// ranges converts segmenter byte offsets to UTF-16 ranges.
func (n *Narrator) ranges(text string) []Range {
	words := n.segmenter.Words(text)
	out := make([]Range, 0, len(words))
	for _, w := range words {
		if w.Start < 0 || w.End > len(text) || w.Start >= w.End {
			continue
		}
		out = append(out, Range{
			Location: Length(text[:w.Start]),
			Length:   Length(text[w.Start:w.End]),
		})
	}
	return out
}
