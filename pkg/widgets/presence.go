package widgets

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/presence-pulse/pkg/app"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/collectors/presence"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/components"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/lanyard"
	"gitlab.com/tinyland/lab/presence-pulse/pkg/prefs"
)

// Discord's status palette.
const (
	pcColorOnline  = "#23A55A"
	pcColorIdle    = "#F0B232"
	pcColorDND     = "#F23F43"
	pcColorOffline = "#80848E"
	pcColorSpotify = "#1DB954"
)

const pcStatusDot = "●" // ● filled circle

// Fixed user-facing messages for the two non-snapshot outcomes.
const (
	pcMsgFetchFailed = "Failed to fetch Discord status. Ensure user is in the Lanyard Discord server."
	pcMsgNotTracked  = "Could not fetch Discord status. The user might not be in the Lanyard Discord server or is offline with no cached data."
)

// pcToggleZone is the bubblezone ID of the secondary-activities toggle.
const pcToggleZone = "presence.secondary"

// ArtFetcher downloads an image by URL. *art.Fetcher satisfies this.
type ArtFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// ArtRenderer encodes an image for the terminal. *art.Renderer satisfies this.
type ArtRenderer interface {
	Render(key string, img image.Image, widthCells, heightCells int) (string, error)
}

// artLoadedMsg delivers a finished background art fetch.
type artLoadedMsg struct {
	url string
	img image.Image
	err error
}

// PresenceOptions configures a PresenceWidget.
type PresenceOptions struct {
	Prefs prefs.Preferences

	// ArtFetcher and ArtRenderer enable inline activity art when both are
	// set. Either may be nil to disable art.
	ArtFetcher  ArtFetcher
	ArtRenderer ArtRenderer
}

// PresenceWidget renders the live Discord presence card: profile line,
// featured activity, collapsible secondary activities, and a Spotify
// now-playing block with a one-second progress ticker.
type PresenceWidget struct {
	snapshot  *lanyard.Presence
	cls       lanyard.Classification
	fetchedAt time.Time

	// stale marks a snapshot restored from the disk cache before the first
	// live poll lands.
	stale bool

	lastSeq    uint64
	haveData   bool
	failed     bool
	notTracked bool

	secondaryExpanded bool

	// trackGen identifies the live progress tick chain. Bumping it orphans
	// any scheduled tick, which is how the previous ticker is cancelled.
	trackGen uint64

	prefs    prefs.Preferences
	cursorOn bool

	spin     spinner.Model
	spinning bool

	artFetcher  ArtFetcher
	artRenderer ArtRenderer
	artURL      string
	artImg      image.Image

	// nowFunc allows tests to override time.Now for deterministic output.
	nowFunc func() time.Time
}

// NewPresenceWidget creates the presence card widget.
func NewPresenceWidget(opts PresenceOptions) *PresenceWidget {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	return &PresenceWidget{
		prefs:       opts.Prefs,
		spin:        sp,
		artFetcher:  opts.ArtFetcher,
		artRenderer: opts.ArtRenderer,
		nowFunc:     time.Now,
	}
}

// Restore seeds the widget with a cached snapshot so the card renders
// immediately at startup. The card is marked stale until the first live
// poll replaces it.
func (w *PresenceWidget) Restore(p *lanyard.Presence, fetchedAt time.Time) {
	if p == nil {
		return
	}
	w.snapshot = p
	w.cls = lanyard.Classify(p.Activities)
	w.fetchedAt = fetchedAt
	w.stale = true
	w.haveData = true
}

// ID returns the unique identifier for this widget.
func (w *PresenceWidget) ID() string {
	return "presence"
}

// Title returns the human-readable display name.
func (w *PresenceWidget) Title() string {
	return "Discord Presence"
}

// MinSize returns the minimum width and height this widget requires.
func (w *PresenceWidget) MinSize() (int, int) {
	return 30, 6
}

// Update handles messages directed at this widget.
func (w *PresenceWidget) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case app.DataUpdateEvent:
		if msg.Source != w.ID() {
			return nil
		}
		if msg.Err != nil {
			w.haveData = true
			w.failed = true
			w.trackGen++
			return nil
		}
		if snap, ok := msg.Data.(*presence.Snapshot); ok {
			return w.applySnapshot(snap)
		}
		return nil

	case app.TickEvent:
		w.cursorOn = !w.cursorOn
		if !w.haveData && !w.spinning && w.prefs.AnimationEnabled {
			w.spinning = true
			return w.spin.Tick
		}
		return nil

	case spinner.TickMsg:
		if w.haveData || !w.prefs.AnimationEnabled {
			w.spinning = false
			return nil
		}
		var cmd tea.Cmd
		w.spin, cmd = w.spin.Update(msg)
		return cmd

	case app.TrackTickEvent:
		return w.handleTrackTick(msg)

	case app.PrefsChangedEvent:
		w.prefs = msg.Prefs
		w.trackGen++
		return w.startTickerCmd()

	case artLoadedMsg:
		if msg.err == nil && msg.url == w.artURL {
			w.artImg = msg.img
		}
		return nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft &&
			zone.Get(pcToggleZone).InBounds(msg) {
			w.toggleSecondary()
		}
		return nil
	}

	return nil
}

// HandleKey processes a key event when this widget has focus.
func (w *PresenceWidget) HandleKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "a":
		w.toggleSecondary()
	}
	return nil
}

// toggleSecondary flips the secondary activity list open or closed. It is
// a no-op when there are no secondaries, so neither the key binding nor a
// click on a zone left over from a previous render can flip hidden state.
func (w *PresenceWidget) toggleSecondary() {
	if len(w.cls.Secondary) == 0 {
		return
	}
	w.secondaryExpanded = !w.secondaryExpanded
}

// applySnapshot installs a freshly polled snapshot. Snapshots that are not
// strictly newer than the last applied one are dropped, so a late response
// from an overlapping cycle can never overwrite current data.
func (w *PresenceWidget) applySnapshot(snap *presence.Snapshot) tea.Cmd {
	if snap == nil || snap.Seq <= w.lastSeq {
		return nil
	}
	w.lastSeq = snap.Seq
	w.haveData = true
	w.failed = false
	w.trackGen++

	if !snap.Tracked {
		w.notTracked = true
		w.snapshot = nil
		w.cls = lanyard.Classification{}
		w.artURL = ""
		w.artImg = nil
		return nil
	}

	w.notTracked = false
	w.stale = false
	w.snapshot = snap.Presence
	w.fetchedAt = snap.FetchedAt
	w.cls = lanyard.Classify(snap.Presence.Activities)

	var cmds []tea.Cmd
	if cmd := w.startTickerCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := w.refreshArtCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// startTickerCmd schedules the first tick of a new progress chain when a
// track is playing, animation is enabled, and the track has time remaining.
// The caller must have bumped trackGen already.
func (w *PresenceWidget) startTickerCmd() tea.Cmd {
	if !w.prefs.AnimationEnabled {
		return nil
	}
	sp := w.nowPlaying()
	if sp == nil {
		return nil
	}
	elapsed, total := w.trackProgress(sp)
	if total <= 0 || elapsed >= total {
		return nil
	}
	return app.TrackTickCmd(w.trackGen, time.Second)
}

func (w *PresenceWidget) handleTrackTick(msg app.TrackTickEvent) tea.Cmd {
	if msg.Gen != w.trackGen {
		return nil
	}
	sp := w.nowPlaying()
	if sp == nil {
		return nil
	}
	elapsed, total := w.trackProgress(sp)
	if total <= 0 || elapsed >= total {
		// Pinned at 100%; the chain self-stops.
		return nil
	}
	return app.TrackTickCmd(w.trackGen, time.Second)
}

// refreshArtCmd starts a background fetch when the primary activity's icon
// URL changed. Art failures never affect the card text.
func (w *PresenceWidget) refreshArtCmd() tea.Cmd {
	if w.artFetcher == nil {
		return nil
	}
	frag := w.primaryFragment()
	if frag.IconURL == w.artURL {
		return nil
	}
	w.artURL = frag.IconURL
	w.artImg = nil
	if w.artURL == "" {
		return nil
	}

	fetcher, url := w.artFetcher, w.artURL
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		img, err := fetcher.Fetch(ctx, url)
		return artLoadedMsg{url: url, img: img, err: err}
	}
}

// nowPlaying returns the Spotify metadata when the primary activity is the
// music activity, nil otherwise.
func (w *PresenceWidget) nowPlaying() *lanyard.Spotify {
	if w.snapshot == nil || w.snapshot.Spotify == nil {
		return nil
	}
	if w.cls.Primary == nil || w.cls.Primary.ID != lanyard.MusicActivityID {
		return nil
	}
	return w.snapshot.Spotify
}

// trackProgress returns the clamped elapsed and total track milliseconds.
// A non-positive duration yields (0, 0).
func (w *PresenceWidget) trackProgress(sp *lanyard.Spotify) (elapsed, total int64) {
	total = sp.DurationMs()
	if total <= 0 {
		return 0, 0
	}
	elapsed = w.nowFunc().UnixMilli() - sp.Timestamps.Start
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > total {
		elapsed = total
	}
	return elapsed, total
}

func (w *PresenceWidget) primaryFragment() Fragment {
	if w.cls.Primary == nil || w.snapshot == nil {
		return Fragment{}
	}
	return renderActivity(*w.cls.Primary, w.snapshot.Spotify)
}

// View renders the card into the given area dimensions.
func (w *PresenceWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	switch {
	case w.failed:
		return pcFitLines(pcMessageLines(pcMsgFetchFailed, ColorError, width), width, height)
	case w.notTracked:
		return pcFitLines(pcMessageLines(pcMsgNotTracked, ColorDim, width), width, height)
	case !w.haveData:
		return pcFitLines(w.pcLoadingLines(width), width, height)
	}

	return pcFitLines(w.pcCardLines(width), width, height)
}

// pcLoadingLines renders the pre-first-snapshot state.
func (w *PresenceWidget) pcLoadingLines(width int) []string {
	line := "Connecting to Lanyard..."
	if w.prefs.AnimationEnabled {
		line = w.spin.View() + " " + line
	}
	return []string{"", components.Truncate(line, width)}
}

// pcCardLines builds the full card: profile, separator, primary activity,
// secondary toggle and panel.
func (w *PresenceWidget) pcCardLines(width int) []string {
	var lines []string

	lines = append(lines, w.pcProfileLine(width))
	if tag := w.pcTagLine(width); tag != "" {
		lines = append(lines, tag)
	}

	if !w.cls.HasActivities() {
		return lines
	}

	sepW := width
	if sepW > 28 {
		sepW = 28
	}
	lines = append(lines, components.Dim(strings.Repeat("─", sepW)))

	if frag := w.primaryFragment(); !frag.IsEmpty() {
		lines = append(lines, w.pcFragmentLines(frag, width)...)
	}

	if n := len(w.cls.Secondary); n > 0 {
		lines = append(lines, "", w.pcToggleLine(n, width))
		if w.secondaryExpanded {
			for _, act := range w.cls.Secondary {
				frag := renderActivity(act, w.snapshot.Spotify)
				if frag.IsEmpty() {
					continue
				}
				lines = append(lines, "")
				lines = append(lines, w.pcSecondaryLines(frag, width)...)
			}
		}
	}

	return lines
}

// pcProfileLine builds the "● Name#1234" header with the status-colored dot.
func (w *PresenceWidget) pcProfileLine(width int) string {
	u := w.snapshot.DiscordUser
	dot := components.Color(pcStatusColor(w.snapshot.DiscordStatus)) + pcStatusDot + components.Reset()

	line := dot + " " + components.Bold(u.DisplayName())
	if u.Discriminator != "" && u.Discriminator != "0" {
		line += components.Dim("#" + u.Discriminator)
	}
	line += " " + components.Dim("("+string(w.snapshot.DiscordStatus)+")")
	if w.stale {
		line += " " + components.Dim("[cached]")
	}
	if w.prefs.CursorEnabled && w.cursorOn {
		line += " " + components.Color(ColorAccent) + "▌" + components.Reset()
	}
	return components.Truncate(line, width)
}

// pcTagLine shows the legacy username tag when it differs from the display
// name, mirroring Discord's own profile header.
func (w *PresenceWidget) pcTagLine(width int) string {
	u := w.snapshot.DiscordUser
	if u.DisplayName() == u.Username && (u.Discriminator == "" || u.Discriminator == "0") {
		return ""
	}
	return components.Truncate("  "+components.Dim(u.Tag()), width)
}

// pcFragmentLines renders the primary fragment, including art and the
// progress bar for the music fragment.
func (w *PresenceWidget) pcFragmentLines(frag Fragment, width int) []string {
	var lines []string

	if w.artImg != nil && w.artRenderer != nil && w.artURL == frag.IconURL {
		if block, err := w.artRenderer.Render(w.artURL, w.artImg, 12, 6); err == nil {
			lines = append(lines, strings.Split(block, "\n")...)
		}
	}

	if frag.Heading != "" {
		heading := components.Bold(frag.Heading)
		if frag.Music {
			heading = components.Color(pcColorSpotify) + frag.Heading + components.Reset()
			heading = components.Bold(heading)
		}
		lines = append(lines, components.Truncate(heading, width))
	}
	for i, l := range frag.Lines {
		if i == 0 {
			lines = append(lines, components.Truncate(l, width))
			continue
		}
		lines = append(lines, components.Truncate(components.Dim(l), width))
	}

	if frag.Music {
		lines = append(lines, w.pcProgressLine(width))
	}

	return lines
}

// pcSecondaryLines renders one secondary fragment in compact form, skipping
// empty detail lines.
func (w *PresenceWidget) pcSecondaryLines(frag Fragment, width int) []string {
	var lines []string
	if frag.Heading != "" {
		lines = append(lines, components.Truncate(components.Bold(frag.Heading), width))
	}
	for _, l := range frag.Lines {
		if l == "" {
			continue
		}
		lines = append(lines, components.Truncate(components.Dim(l), width))
	}
	return lines
}

// pcProgressLine renders "M:SS ████░░░░ M:SS" for the playing track.
func (w *PresenceWidget) pcProgressLine(width int) string {
	sp := w.snapshot.Spotify
	elapsed, total := w.trackProgress(sp)

	left := lanyard.FormatTrackDuration(elapsed)
	right := lanyard.FormatTrackDuration(total)

	barW := width - len(left) - len(right) - 2
	if barW < 4 {
		barW = 4
	}
	if barW > 30 {
		barW = 30
	}

	bar := components.NewTrackBar(components.DefaultTrackBarStyle()).Render(elapsed, total, barW)
	return components.Truncate(left+" "+bar+" "+right, width)
}

// pcToggleLine renders the clickable secondary-activities control.
func (w *PresenceWidget) pcToggleLine(n, width int) string {
	var label string
	if w.secondaryExpanded {
		label = "Hide Activity"
		if n > 1 {
			label = "Hide Activities"
		}
	} else {
		label = fmt.Sprintf("Show Activity +%d", n)
	}
	styled := components.Color(ColorAccent) + "[ " + label + " ]" + components.Reset()
	return zone.Mark(pcToggleZone, components.Truncate(styled, width))
}

// pcMessageLines wraps a fixed message in the given color.
func pcMessageLines(msg, color string, width int) []string {
	inner := width - 2
	if inner < 8 {
		inner = 8
	}
	var lines []string
	lines = append(lines, "")
	for _, l := range components.Wrap(msg, inner) {
		lines = append(lines, components.Color(color)+l+components.Reset())
	}
	return lines
}

// pcFitLines pads every line to width and pads or truncates the slice to
// exactly height rows.
func pcFitLines(lines []string, width, height int) string {
	out := make([]string, 0, height)
	for _, l := range lines {
		if len(out) == height {
			break
		}
		out = append(out, components.PadRight(l, width))
	}
	for len(out) < height {
		out = append(out, strings.Repeat(" ", width))
	}
	return strings.Join(out, "\n")
}

// pcStatusColor maps the Discord status enum to its palette color.
func pcStatusColor(s lanyard.Status) string {
	switch s {
	case lanyard.StatusOnline:
		return pcColorOnline
	case lanyard.StatusIdle:
		return pcColorIdle
	case lanyard.StatusDND:
		return pcColorDND
	default:
		return pcColorOffline
	}
}

// Compile-time check that PresenceWidget satisfies the Widget interface.
var _ app.Widget = (*PresenceWidget)(nil)
