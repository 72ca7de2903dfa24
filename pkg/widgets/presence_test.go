package widgets

import (
	"context"
	"image"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/presence-pulse/pkg/app"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/collectors/presence"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/lanyard"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/prefs"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

var pwAnsiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// pwStrip removes color codes and bubblezone markers for content assertions.
func pwStrip(s string) string {
	return zone.Scan(pwAnsiRe.ReplaceAllString(s, ""))
}

var pwNow = time.Unix(1700000000, 0)

func newTestWidget() *PresenceWidget {
	w := NewPresenceWidget(PresenceOptions{Prefs: prefs.DefaultPreferences()})
	w.nowFunc = func() time.Time { return pwNow }
	return w
}

func pwUser() lanyard.User {
	return lanyard.User{
		ID:            "94490510688792576",
		Username:      "jess",
		GlobalName:    "Jess",
		Discriminator: "0",
		Avatar:        "a1b2c3",
	}
}

func pwOnline(activities ...lanyard.Activity) *lanyard.Presence {
	return &lanyard.Presence{
		DiscordUser:   pwUser(),
		DiscordStatus: lanyard.StatusOnline,
		Activities:    activities,
	}
}

// pwPlaying builds a presence with the Spotify activity primary; the track
// started startAgo before pwNow and runs for total.
func pwPlaying(startAgo, total time.Duration) *lanyard.Presence {
	start := pwNow.Add(-startAgo).UnixMilli()
	p := pwOnline(musicActivity())
	p.ListeningToSpotify = true
	sp := nowPlayingFixture()
	sp.Timestamps = lanyard.ActivityTimestamps{Start: start, End: start + total.Milliseconds()}
	p.Spotify = sp
	return p
}

func pwDeliver(w *PresenceWidget, seq uint64, p *lanyard.Presence) tea.Cmd {
	return w.Update(app.DataUpdateEvent{
		Source:    "presence",
		Data:      &presence.Snapshot{Presence: p, Tracked: true, Seq: seq, FetchedAt: pwNow},
		Timestamp: pwNow,
	})
}

func TestPresenceLoadingBeforeFirstSnapshot(t *testing.T) {
	w := newTestWidget()
	view := pwStrip(w.View(60, 10))
	if !strings.Contains(view, "Connecting to Lanyard") {
		t.Errorf("expected loading message, got:\n%s", view)
	}
}

func TestPresenceProfileLine(t *testing.T) {
	w := newTestWidget()
	pwDeliver(w, 1, pwOnline())

	view := pwStrip(w.View(60, 10))
	if !strings.Contains(view, "Jess") {
		t.Errorf("expected display name in view:\n%s", view)
	}
	if !strings.Contains(view, "(online)") {
		t.Errorf("expected status in view:\n%s", view)
	}
	if strings.Contains(view, "#0") {
		t.Error("sentinel discriminator must not render")
	}
}

func TestPresenceLegacyDiscriminatorShown(t *testing.T) {
	w := newTestWidget()
	p := pwOnline()
	p.DiscordUser.Discriminator = "1337"
	pwDeliver(w, 1, p)

	if view := pwStrip(w.View(60, 10)); !strings.Contains(view, "#1337") {
		t.Errorf("expected legacy discriminator in view:\n%s", view)
	}
}

func TestPresenceStaleSeqDropped(t *testing.T) {
	w := newTestWidget()

	fresh := pwOnline()
	fresh.DiscordUser.GlobalName = "Fresh"
	pwDeliver(w, 5, fresh)

	late := pwOnline()
	late.DiscordUser.GlobalName = "Late"
	pwDeliver(w, 4, late)

	view := pwStrip(w.View(60, 10))
	if !strings.Contains(view, "Fresh") || strings.Contains(view, "Late") {
		t.Errorf("late snapshot must not overwrite newer one:\n%s", view)
	}
}

func TestPresenceUntrackedMessage(t *testing.T) {
	w := newTestWidget()
	w.Update(app.DataUpdateEvent{
		Source:    "presence",
		Data:      &presence.Snapshot{Tracked: false, Seq: 1, FetchedAt: pwNow},
		Timestamp: pwNow,
	})

	view := pwStrip(w.View(80, 10))
	if !strings.Contains(view, "Could not fetch Discord status") {
		t.Errorf("expected not-tracked message, got:\n%s", view)
	}
}

func TestPresenceFetchFailureMessage(t *testing.T) {
	w := newTestWidget()
	w.Update(app.DataUpdateEvent{
		Source:    "presence",
		Err:       &pwTestError{"connection refused"},
		Timestamp: pwNow,
	})

	view := pwStrip(w.View(80, 10))
	if !strings.Contains(view, "Failed to fetch Discord status") {
		t.Errorf("expected failure message, got:\n%s", view)
	}
}

func TestPresenceRecoversAfterFailure(t *testing.T) {
	w := newTestWidget()
	w.Update(app.DataUpdateEvent{Source: "presence", Err: &pwTestError{"boom"}, Timestamp: pwNow})
	pwDeliver(w, 1, pwOnline())

	view := pwStrip(w.View(60, 10))
	if strings.Contains(view, "Failed to fetch") {
		t.Errorf("expected recovery to a normal card:\n%s", view)
	}
	if !strings.Contains(view, "Jess") {
		t.Errorf("expected profile after recovery:\n%s", view)
	}
}

func TestPresenceIgnoresOtherSources(t *testing.T) {
	w := newTestWidget()
	w.Update(app.DataUpdateEvent{Source: "other", Data: "junk", Timestamp: pwNow})

	if w.haveData {
		t.Error("widget must ignore updates from other sources")
	}
}

func TestPresenceMusicStartsTicker(t *testing.T) {
	w := newTestWidget()
	cmd := pwDeliver(w, 1, pwPlaying(30*time.Second, time.Minute))
	if cmd == nil {
		t.Error("expected a scheduled progress tick for a playing track")
	}
}

func TestPresenceNoTickerWhenAnimationDisabled(t *testing.T) {
	w := newTestWidget()
	w.prefs.AnimationEnabled = false

	if cmd := pwDeliver(w, 1, pwPlaying(30*time.Second, time.Minute)); cmd != nil {
		t.Error("expected no tick with animation disabled")
	}
}

func TestPresenceNonPositiveDurationNoTicker(t *testing.T) {
	w := newTestWidget()

	p := pwPlaying(30*time.Second, time.Minute)
	p.Spotify.Timestamps.End = p.Spotify.Timestamps.Start // zero duration
	if cmd := pwDeliver(w, 1, p); cmd != nil {
		t.Error("expected no tick for a non-positive duration")
	}

	view := pwStrip(w.View(60, 12))
	if got := strings.Count(view, "0:00"); got < 2 {
		t.Errorf("expected 0:00/0:00 display, got:\n%s", view)
	}
}

func TestPresenceTrackTickStaleGenDropped(t *testing.T) {
	w := newTestWidget()
	pwDeliver(w, 1, pwPlaying(30*time.Second, 2*time.Minute))

	if cmd := w.Update(app.TrackTickEvent{Gen: w.trackGen - 1, Time: pwNow}); cmd != nil {
		t.Error("stale-generation tick must be dropped")
	}
	if cmd := w.Update(app.TrackTickEvent{Gen: w.trackGen, Time: pwNow}); cmd == nil {
		t.Error("current-generation tick must re-arm while playing")
	}
}

func TestPresenceTickerStopsAtTrackEnd(t *testing.T) {
	w := newTestWidget()
	pwDeliver(w, 1, pwPlaying(2*time.Minute, time.Minute)) // already past the end

	if cmd := w.Update(app.TrackTickEvent{Gen: w.trackGen, Time: pwNow}); cmd != nil {
		t.Error("tick chain must self-stop at track end")
	}
}

func TestPresenceNewSnapshotBumpsGeneration(t *testing.T) {
	w := newTestWidget()
	pwDeliver(w, 1, pwPlaying(10*time.Second, 3*time.Minute))
	oldGen := w.trackGen

	pwDeliver(w, 2, pwPlaying(11*time.Second, 3*time.Minute))
	if w.trackGen == oldGen {
		t.Error("a new snapshot must orphan the previous tick chain")
	}
	if cmd := w.Update(app.TrackTickEvent{Gen: oldGen, Time: pwNow}); cmd != nil {
		t.Error("tick from the replaced chain must be dropped")
	}
}

func TestPresenceProgressLineValues(t *testing.T) {
	w := newTestWidget()
	pwDeliver(w, 1, pwPlaying(30*time.Second, time.Minute))

	view := pwStrip(w.View(60, 12))
	if !strings.Contains(view, "1:00") {
		t.Errorf("expected total 1:00 in view:\n%s", view)
	}
	if !strings.Contains(view, "0:30") {
		t.Errorf("expected elapsed 0:30 in view:\n%s", view)
	}
}

func TestPresenceSpotifyBlockCopy(t *testing.T) {
	w := newTestWidget()
	pwDeliver(w, 1, pwPlaying(5*time.Second, 3*time.Minute))

	view := pwStrip(w.View(60, 14))
	for _, want := range []string{
		"Listening to Spotify",
		"Never Gonna Give You Up",
		"by Rick Astley",
		"on Whenever You Need Somebody",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestPresenceSecondaryToggle(t *testing.T) {
	w := newTestWidget()
	p := pwPlaying(5*time.Second, 3*time.Minute)
	p.Activities = append(p.Activities, lanyard.Activity{
		Type:  lanyard.CustomActivity,
		Name:  "Custom Status",
		State: "Chilling",
		Emoji: &lanyard.Emoji{Name: "\U0001F389"},
	})
	pwDeliver(w, 1, p)

	view := pwStrip(w.View(60, 16))
	if !strings.Contains(view, "Show Activity +1") {
		t.Errorf("expected collapsed toggle label:\n%s", view)
	}
	if strings.Contains(view, "Chilling") {
		t.Error("secondary panel must be hidden while collapsed")
	}

	w.HandleKey(pwKeyRune('a'))
	view = pwStrip(w.View(60, 16))
	if !strings.Contains(view, "Hide Activity") || strings.Contains(view, "Hide Activities") {
		t.Errorf("expected singular expanded label:\n%s", view)
	}
	if !strings.Contains(view, "\U0001F389 “Chilling”") {
		t.Errorf("expected custom status in expanded panel:\n%s", view)
	}
}

func TestPresenceToggleLabelPlural(t *testing.T) {
	w := newTestWidget()
	p := pwOnline(
		lanyard.Activity{Type: lanyard.GameActivity, Name: "Hades"},
		lanyard.Activity{Type: lanyard.GameActivity, Name: "Factorio"},
		lanyard.Activity{Type: lanyard.CustomActivity, Name: "Custom Status", State: "afk"},
	)
	pwDeliver(w, 1, p)

	view := pwStrip(w.View(60, 16))
	if !strings.Contains(view, "Show Activity +2") {
		t.Errorf("expected +2 toggle label:\n%s", view)
	}

	w.HandleKey(pwKeyRune('a'))
	if view := pwStrip(w.View(60, 16)); !strings.Contains(view, "Hide Activities") {
		t.Errorf("expected plural expanded label:\n%s", view)
	}
}

func TestPresenceToggleSurvivesRepoll(t *testing.T) {
	w := newTestWidget()
	p := pwOnline(
		lanyard.Activity{Type: lanyard.GameActivity, Name: "Hades"},
		lanyard.Activity{Type: lanyard.CustomActivity, Name: "Custom Status", State: "afk"},
	)
	pwDeliver(w, 1, p)
	w.HandleKey(pwKeyRune('a'))

	pwDeliver(w, 2, p)
	if !w.secondaryExpanded {
		t.Error("expanded state must survive a re-poll")
	}
	if view := pwStrip(w.View(60, 16)); !strings.Contains(view, "Hide Activity") {
		t.Errorf("expected expanded label after re-poll:\n%s", view)
	}
}

func TestPresenceToggleKeyNoSecondaryNoOp(t *testing.T) {
	w := newTestWidget()
	pwDeliver(w, 1, pwOnline(lanyard.Activity{Type: lanyard.GameActivity, Name: "Hades"}))

	w.HandleKey(pwKeyRune('a'))
	if w.secondaryExpanded {
		t.Error("toggle must be a no-op without secondary activities")
	}
}

func TestPresenceMouseToggleStaleZoneNoOp(t *testing.T) {
	w := newTestWidget()
	p := pwOnline(
		lanyard.Activity{Type: lanyard.GameActivity, Name: "Hades"},
		lanyard.Activity{Type: lanyard.CustomActivity, Name: "Custom Status", State: "afk"},
	)
	pwDeliver(w, 1, p)
	zone.Scan(w.View(60, 16))

	z := zone.Get(pcToggleZone)
	for i := 0; i < 100 && z.IsZero(); i++ {
		time.Sleep(2 * time.Millisecond)
		z = zone.Get(pcToggleZone)
	}
	if z.IsZero() {
		t.Fatal("toggle zone never registered")
	}

	click := tea.MouseMsg{
		X:      z.StartX,
		Y:      z.StartY,
		Action: tea.MouseActionRelease,
		Button: tea.MouseButtonLeft,
	}

	w.Update(click)
	if !w.secondaryExpanded {
		t.Fatal("click inside the toggle zone must expand the secondary list")
	}
	w.Update(click)

	// Re-poll without secondaries. The zone from the previous render is
	// still registered, but a click there has nothing to show.
	pwDeliver(w, 2, pwOnline(lanyard.Activity{Type: lanyard.GameActivity, Name: "Hades"}))
	w.Update(click)
	if w.secondaryExpanded {
		t.Error("click on a leftover zone must be a no-op without secondaries")
	}
}

func TestPresencePrefsChangeOrphansTicker(t *testing.T) {
	w := newTestWidget()
	pwDeliver(w, 1, pwPlaying(10*time.Second, 3*time.Minute))
	oldGen := w.trackGen

	cmd := w.Update(app.PrefsChangedEvent{
		Prefs: prefs.Preferences{CursorEnabled: true, AnimationEnabled: false},
	})
	if cmd != nil {
		t.Error("expected no new tick with animation disabled")
	}
	if w.trackGen == oldGen {
		t.Error("prefs change must orphan the running tick chain")
	}
}

func TestPresencePrefsReenableRestartsTicker(t *testing.T) {
	w := newTestWidget()
	w.prefs.AnimationEnabled = false
	pwDeliver(w, 1, pwPlaying(10*time.Second, 3*time.Minute))

	cmd := w.Update(app.PrefsChangedEvent{Prefs: prefs.DefaultPreferences()})
	if cmd == nil {
		t.Error("expected ticker restart when animation is re-enabled mid-track")
	}
}

func TestPresenceRestoreMarksCached(t *testing.T) {
	w := newTestWidget()
	w.Restore(pwOnline(), pwNow.Add(-time.Hour))

	if view := pwStrip(w.View(60, 10)); !strings.Contains(view, "[cached]") {
		t.Errorf("expected cached marker:\n%s", view)
	}

	pwDeliver(w, 1, pwOnline())
	if view := pwStrip(w.View(60, 10)); strings.Contains(view, "[cached]") {
		t.Errorf("live snapshot must clear the cached marker:\n%s", view)
	}
}

func TestPresenceArtLoadTracksCurrentURL(t *testing.T) {
	w := newTestWidget()
	w.artFetcher = pwNullFetcher{}
	pwDeliver(w, 1, pwPlaying(5*time.Second, 3*time.Minute))

	if w.artURL != "https://i.scdn.co/image/abc123" {
		t.Fatalf("expected album art URL tracked, got %q", w.artURL)
	}

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	w.Update(artLoadedMsg{url: "https://elsewhere/old.png", img: img})
	if w.artImg != nil {
		t.Error("art for a superseded URL must be discarded")
	}

	w.Update(artLoadedMsg{url: w.artURL, img: img})
	if w.artImg == nil {
		t.Error("art for the current URL must be kept")
	}
}

func TestPresenceViewZeroDimensions(t *testing.T) {
	w := newTestWidget()
	if v := w.View(0, 0); v != "" {
		t.Errorf("expected empty view at 0x0, got %q", v)
	}
}

func TestPresenceViewExactHeight(t *testing.T) {
	w := newTestWidget()
	pwDeliver(w, 1, pwPlaying(5*time.Second, 3*time.Minute))

	for _, h := range []int{3, 8, 20} {
		view := w.View(50, h)
		if got := len(strings.Split(view, "\n")); got != h {
			t.Errorf("height %d: got %d lines", h, got)
		}
	}
}

type pwNullFetcher struct{}

func (pwNullFetcher) Fetch(_ context.Context, _ string) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func pwKeyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

type pwTestError struct{ msg string }

func (e *pwTestError) Error() string { return e.msg }
