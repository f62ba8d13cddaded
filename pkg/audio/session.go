// Package audio models the music player of the audio window: a rotating
// playlist plus play, mute and seek state. Decoding and output are left to a
// Player implementation.
package audio

import (
	"errors"
	"log/slog"
)

// ErrPlaybackBlocked is returned by a Player when the environment refuses to
// start playback without a user gesture.
var ErrPlaybackBlocked = errors.New("playback blocked")

// upcomingCount is how many tracks the soundtrack list shows after the
// current one.
const upcomingCount = 5

// Track is one playlist entry.
type Track struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	File   string `json:"file"`
}

// DefaultPlaylist is the built-in soundtrack.
var DefaultPlaylist = []Track{
	{Title: "Opening Theme", Artist: "Spyro", File: "/sound0-OpeningTheme.mp3"},
	{Title: "Dragon Realms", Artist: "Spyro", File: "/sound1-DragonRealms.mp3"},
	{Title: "Dragonfly Dojo", Artist: "Spyro", File: "/sound2-DragonflyDojo.mp3"},
	{Title: "Luau Island", Artist: "Spyro", File: "/sound3-LuauIsland.mp3"},
	{Title: "Cloud 9", Artist: "Spyro", File: "/sound4-Cloud9.mp3"},
	{Title: "Peaceful Ice Slider", Artist: "Spyro", File: "/sound5-PeacefulIceSlider.mp3"},
}

// Player is the output device. Play may fail with ErrPlaybackBlocked.
type Player interface {
	Load(t Track)
	Play() error
	Pause()
	Seek(seconds float64)
	SetMuted(muted bool)
}

// NopPlayer accepts every command. It is used when no real output exists.
type NopPlayer struct{}

func (NopPlayer) Load(Track)    {}
func (NopPlayer) Play() error   { return nil }
func (NopPlayer) Pause()        {}
func (NopPlayer) Seek(float64)  {}
func (NopPlayer) SetMuted(bool) {}

// Config holds configuration for a Session.
type Config struct {
	Tracks []Track
	Player Player
	Logger *slog.Logger
}

// Status is a point-in-time view of the session.
type Status struct {
	Current  Track   `json:"current"`
	Upcoming []Track `json:"upcoming"`
	Open     bool    `json:"open"`
	Playing  bool    `json:"playing"`
	Muted    bool    `json:"muted"`
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
}

// Session is the state of the audio window. It is not safe for concurrent
// use.
type Session struct {
	tracks []Track
	offset int

	player Player
	logger *slog.Logger

	open        bool
	initialized bool
	playing     bool
	muted       bool
	position    float64
	duration    float64
	durations   map[string]float64
}

// NewSession creates a session positioned on the first track.
func NewSession(cfg Config) *Session {
	tracks := cfg.Tracks
	if len(tracks) == 0 {
		tracks = DefaultPlaylist
	}
	player := cfg.Player
	if player == nil {
		player = NopPlayer{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		tracks:    append([]Track(nil), tracks...),
		player:    player,
		logger:    logger,
		durations: make(map[string]float64),
	}
}

// rotated returns track i of the rotation.
func (s *Session) rotated(i int) Track {
	return s.tracks[(i+s.offset)%len(s.tracks)]
}

// Current returns the track at the head of the rotation.
func (s *Session) Current() Track {
	return s.rotated(0)
}

// Upcoming returns the tracks that follow the current one, at most five.
func (s *Session) Upcoming() []Track {
	n := min(upcomingCount, len(s.tracks)-1)
	out := make([]Track, n)
	for i := range out {
		out[i] = s.rotated(i + 1)
	}
	return out
}

// TrackDuration returns the recorded length of a track, or 0 if unknown.
func (s *Session) TrackDuration(t Track) float64 {
	return s.durations[t.File]
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	return Status{
		Current:  s.Current(),
		Upcoming: s.Upcoming(),
		Open:     s.open,
		Playing:  s.playing,
		Muted:    s.muted,
		Position: s.position,
		Duration: s.duration,
	}
}

// Open loads the current track. The first load tries to autoplay; a blocked
// autoplay is logged and leaves the session paused.
func (s *Session) Open() {
	if s.open {
		return
	}
	s.open = true
	s.load(!s.initialized)
}

// load switches the player to the current track. Playback starts if
// autoplay is set or the previous track was playing.
func (s *Session) load(autoplay bool) {
	wasPlaying := s.playing
	cur := s.Current()
	s.player.Load(cur)
	s.position = 0
	s.duration = s.durations[cur.File]
	if autoplay || wasPlaying {
		s.play()
	}
	s.initialized = true
}

func (s *Session) play() error {
	if err := s.player.Play(); err != nil {
		s.playing = false
		s.logger.Warn("audio: play failed", "track", s.Current().Title, "error", err)
		return err
	}
	s.playing = true
	return nil
}

// Forward rotates the playlist by one.
func (s *Session) Forward() {
	s.offset = (s.offset + 1) % len(s.tracks)
	if s.open {
		s.load(false)
	}
}

// Back rotates the playlist back by one.
func (s *Session) Back() {
	s.offset = (s.offset - 1 + len(s.tracks)) % len(s.tracks)
	if s.open {
		s.load(false)
	}
}

// Ended is called when the current track finishes.
func (s *Session) Ended() {
	s.Forward()
}

// TogglePlay pauses a playing session or resumes a paused one.
func (s *Session) TogglePlay() error {
	if !s.open {
		return nil
	}
	if s.playing {
		s.player.Pause()
		s.playing = false
		return nil
	}
	return s.play()
}

// ToggleMute flips the mute state and returns it.
func (s *Session) ToggleMute() bool {
	s.muted = !s.muted
	s.player.SetMuted(s.muted)
	return s.muted
}

// Seek moves the playhead, clamped to the current track.
func (s *Session) Seek(seconds float64) {
	if !s.open {
		return
	}
	s.position = max(0, min(seconds, s.duration))
	s.player.Seek(s.position)
}

// SetDuration records the length of the current track once known.
func (s *Session) SetDuration(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	s.duration = seconds
	s.durations[s.Current().File] = seconds
}

// Tick reports playback progress.
func (s *Session) Tick(seconds float64) {
	if s.open {
		s.position = seconds
	}
}

// Stop pauses, rewinds and releases the player. The rotation is kept.
func (s *Session) Stop() {
	if s.open {
		s.player.Pause()
		s.player.Seek(0)
	}
	s.open = false
	s.initialized = false
	s.playing = false
	s.position = 0
	s.duration = 0
}
