package speech

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/f3rmion/kanjicard/internal/reading"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spaceSegmenter splits on ASCII spaces so tests control word boundaries.
func spaceSegmenter(text string) []reading.Word {
	var words []reading.Word
	start := 0
	for _, part := range strings.Split(text, " ") {
		if part != "" {
			words = append(words, reading.Word{Surface: part, Start: start, End: start + len(part)})
		}
		start += len(part) + 1
	}
	return words
}

type recordingVoice struct {
	mu     sync.Mutex
	spoken []string
	done   chan struct{}
}

func (v *recordingVoice) Say(ctx context.Context, text string) error {
	v.mu.Lock()
	v.spoken = append(v.spoken, text)
	v.mu.Unlock()
	<-ctx.Done()
	close(v.done)
	return ctx.Err()
}

func TestNarratorWalksWords(t *testing.T) {
	n := NewNarrator(SegmenterFunc(spaceSegmenter), nil, 120, nil)
	text := "日本語 を 話す"

	_, err := n.Start(context.Background(), text)
	require.NoError(t, err)
	assert.True(t, n.IsSpeaking())

	got, ok := n.CurrentText()
	require.True(t, ok)
	assert.Equal(t, text, got)

	var highlighted []string
	for {
		r, ok := n.CurrentRange()
		require.True(t, ok)
		for _, seg := range ForState(text, n) {
			if seg.Style == Active {
				highlighted = append(highlighted, seg.Text)
			}
		}
		assert.Equal(t, text, Join(Highlight(text, &r, true)))
		if !n.Advance() {
			break
		}
	}

	assert.Equal(t, []string{"日本語", "を", "話す"}, highlighted)
	assert.False(t, n.IsSpeaking())
	_, ok = n.CurrentText()
	assert.False(t, ok)
	_, ok = n.CurrentRange()
	assert.False(t, ok)
}

func TestNarratorRangesUseUTF16Units(t *testing.T) {
	n := NewNarrator(SegmenterFunc(spaceSegmenter), nil, 0, nil)
	text := "🈁 x"

	_, err := n.Start(context.Background(), text)
	require.NoError(t, err)

	r, _ := n.CurrentRange()
	assert.Equal(t, Range{Location: 0, Length: 2}, r)

	require.True(t, n.Advance())
	r, _ = n.CurrentRange()
	assert.Equal(t, Range{Location: 3, Length: 1}, r)
}

func TestNarratorSessions(t *testing.T) {
	n := NewNarrator(nil, nil, 60, nil)
	assert.Equal(t, time.Second, n.Interval())

	s1, err := n.Start(context.Background(), "一二")
	require.NoError(t, err)
	s2, err := n.Start(context.Background(), "三四")
	require.NoError(t, err)
	assert.Greater(t, s2, s1)
	assert.Equal(t, s2, n.Session())

	got, _ := n.CurrentText()
	assert.Equal(t, "三四", got)

	_, err = n.Start(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.False(t, n.IsSpeaking())
}

func TestNarratorStopCancelsVoice(t *testing.T) {
	voice := &recordingVoice{done: make(chan struct{})}
	n := NewNarrator(nil, voice, 0, nil)

	_, err := n.Start(context.Background(), "猫")
	require.NoError(t, err)
	n.Stop()

	select {
	case <-voice.done:
	case <-time.After(2 * time.Second):
		t.Fatal("voice was not cancelled")
	}

	voice.mu.Lock()
	defer voice.mu.Unlock()
	assert.Equal(t, []string{"猫"}, voice.spoken)
	assert.False(t, n.IsSpeaking())
}

func TestNarratorAdvanceWhenIdle(t *testing.T) {
	n := NewNarrator(nil, nil, 0, nil)
	assert.False(t, n.Advance())
	assert.False(t, n.IsSpeaking())
}

func TestNarratorPace(t *testing.T) {
	n := NewNarrator(nil, nil, 120, nil)
	assert.Equal(t, 500*time.Millisecond, n.Interval())

	n.SetWordsPerMinute(60)
	assert.Equal(t, time.Second, n.Interval())

	n.SetWordsPerMinute(0)
	assert.Equal(t, time.Minute/DefaultWordsPerMinute, n.Interval())
}
