package audio

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
)

type fakePlayer struct {
	loaded []string
	block  bool
	plays  int
	pauses int
	seeks  []float64
	muted  bool
}

func (f *fakePlayer) Load(t Track) { f.loaded = append(f.loaded, t.Title) }

func (f *fakePlayer) Play() error {
	f.plays++
	if f.block {
		return ErrPlaybackBlocked
	}
	return nil
}

func (f *fakePlayer) Pause()               { f.pauses++ }
func (f *fakePlayer) Seek(seconds float64) { f.seeks = append(f.seeks, seconds) }
func (f *fakePlayer) SetMuted(m bool)      { f.muted = m }

func newTestSession(p Player) *Session {
	return NewSession(Config{
		Player: p,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestRotation(t *testing.T) {
	s := newTestSession(nil)
	if s.Current().Title != "Opening Theme" {
		t.Fatalf("unexpected first track %q", s.Current().Title)
	}
	up := s.Upcoming()
	if len(up) != 5 || up[0].Title != "Dragon Realms" || up[4].Title != "Peaceful Ice Slider" {
		t.Errorf("unexpected upcoming list %v", up)
	}

	s.Back()
	if s.Current().Title != "Peaceful Ice Slider" {
		t.Errorf("expected wrap to last track, got %q", s.Current().Title)
	}
	for i := 0; i < len(DefaultPlaylist); i++ {
		s.Forward()
	}
	if s.Current().Title != "Peaceful Ice Slider" {
		t.Errorf("expected full rotation to return, got %q", s.Current().Title)
	}
	if up := s.Upcoming(); up[0].Title != "Opening Theme" {
		t.Errorf("expected rotation to wrap in upcoming, got %q", up[0].Title)
	}
}

func TestOpenAutoplays(t *testing.T) {
	p := &fakePlayer{}
	s := newTestSession(p)
	s.Open()

	if !s.Status().Playing {
		t.Error("expected autoplay on first open")
	}
	if len(p.loaded) != 1 || p.loaded[0] != "Opening Theme" {
		t.Errorf("unexpected loads %v", p.loaded)
	}
}

func TestBlockedAutoplayStaysPaused(t *testing.T) {
	p := &fakePlayer{block: true}
	s := newTestSession(p)
	s.Open()

	if s.Status().Playing {
		t.Error("expected session paused after blocked autoplay")
	}
	if err := s.TogglePlay(); !errors.Is(err, ErrPlaybackBlocked) {
		t.Errorf("expected ErrPlaybackBlocked, got %v", err)
	}

	p.block = false
	if err := s.TogglePlay(); err != nil || !s.Status().Playing {
		t.Errorf("expected play to succeed, err=%v", err)
	}
}

func TestTrackChangeKeepsPlayState(t *testing.T) {
	p := &fakePlayer{}
	s := newTestSession(p)
	s.Open()
	s.Forward()
	if !s.Status().Playing || p.plays != 2 {
		t.Errorf("expected playback to continue, plays=%d", p.plays)
	}

	s.TogglePlay()
	s.Ended()
	if s.Status().Playing {
		t.Error("expected paused session to stay paused on track change")
	}
	if s.Current().Title != "Dragonfly Dojo" {
		t.Errorf("unexpected current track %q", s.Current().Title)
	}
}

func TestSeekClamps(t *testing.T) {
	p := &fakePlayer{}
	s := newTestSession(p)
	s.Seek(10)
	if len(p.seeks) != 0 {
		t.Error("expected seek on closed session to be ignored")
	}

	s.Open()
	s.SetDuration(120)
	tests := []struct {
		in, want float64
	}{
		{-5, 0},
		{60, 60},
		{500, 120},
	}
	for _, tt := range tests {
		s.Seek(tt.in)
		if got := s.Status().Position; got != tt.want {
			t.Errorf("Seek(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
	if s.TrackDuration(s.Current()) != 120 {
		t.Error("expected duration recorded for current track")
	}
}

func TestStop(t *testing.T) {
	p := &fakePlayer{}
	s := newTestSession(p)
	s.Open()
	s.Forward()
	s.Tick(42)
	s.Stop()

	st := s.Status()
	if st.Open || st.Playing || st.Position != 0 || st.Duration != 0 {
		t.Errorf("expected stopped session, got %+v", st)
	}
	if s.Current().Title != "Dragon Realms" {
		t.Error("expected rotation kept across stop")
	}

	s.Open()
	if !s.Status().Playing {
		t.Error("expected reopen to autoplay again")
	}
}

func TestToggleMute(t *testing.T) {
	p := &fakePlayer{}
	s := newTestSession(p)
	if !s.ToggleMute() || !p.muted {
		t.Error("expected muted")
	}
	if s.ToggleMute() || p.muted {
		t.Error("expected unmuted")
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{5.9, "0:05"},
		{65, "1:05"},
		{600, "10:00"},
		{math.NaN(), "0:00"},
		{math.Inf(1), "0:00"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.in); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1:05", 65, true},
		{"12:30", 750, true},
		{"0:7", 7, true},
		{"90", 90, true},
		{"2.5", 2.5, true},
		{"-3", 0, false},
		{"abc", 0, false},
		{"1:234", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseTime(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseTime(%q) = %v, %v; expected %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
