// Package lanyard defines the data model for Lanyard presence snapshots and
// provides the HTTP client, the activity classifier, and the CDN URL
// builders. Lanyard (api.lanyard.rest) mirrors a Discord user's live status:
// one snapshot carries the user profile, an online-status enum, the list of
// reported activities, and Spotify now-playing metadata when applicable.
package lanyard

import "fmt"

// MusicActivityID is the reserved activity ID Discord assigns to the Spotify
// integration. At most one activity per snapshot carries it.
const MusicActivityID = "spotify:1"

// Status is a user's online status as reported by Discord.
type Status string

// The four statuses Discord reports.
const (
	StatusOnline  Status = "online"
	StatusIdle    Status = "idle"
	StatusDND     Status = "dnd"
	StatusOffline Status = "offline"
)

// ActivityType is the numeric activity kind from the Discord gateway.
type ActivityType uint8

const (
	// Playing $name
	GameActivity ActivityType = iota
	// Streaming $details
	StreamingActivity
	// Listening to $name
	ListeningActivity
	// Watching $name
	WatchingActivity
	// $emoji $state
	CustomActivity
	// Competing in $name
	CompetingActivity
)

// DisplayPrefix returns the verb Discord shows before the activity name
// ("Playing", "Listening to", "Watching"). Types without a well-known prefix
// fall back to "Playing", matching the Discord client.
func (t ActivityType) DisplayPrefix() string {
	switch t {
	case ListeningActivity:
		return "Listening to"
	case WatchingActivity:
		return "Watching"
	default:
		return "Playing"
	}
}

// Emoji is the emoji attached to a custom status.
type Emoji struct {
	Name string `json:"name"`
}

// ActivityTimestamps holds the start/end of an activity in epoch
// milliseconds. Either field may be zero when not reported.
type ActivityTimestamps struct {
	Start int64 `json:"start,omitempty"`
	End   int64 `json:"end,omitempty"`
}

// ActivityAssets holds the image keys attached to a rich-presence activity.
// LargeImage is either a plain asset key (resolved against the owning
// application) or a proxied key prefixed "mp:".
type ActivityAssets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
}

// Activity is one reported foreground action: a game, a custom status, the
// Spotify integration, or anything else an application publishes. Optional
// fields stay nil/empty when the upstream payload omits them; consumers are
// expected to degrade gracefully rather than error.
type Activity struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Type          ActivityType        `json:"type"`
	State         string              `json:"state,omitempty"`
	Details       string              `json:"details,omitempty"`
	Emoji         *Emoji              `json:"emoji,omitempty"`
	Assets        *ActivityAssets     `json:"assets,omitempty"`
	ApplicationID string              `json:"application_id,omitempty"`
	Timestamps    *ActivityTimestamps `json:"timestamps,omitempty"`
	CreatedAt     int64               `json:"created_at,omitempty"`
}

// User is the Discord profile embedded in a snapshot.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	GlobalName    string `json:"global_name"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
}

// DisplayName returns the user's global display name, falling back to the
// username for accounts that never set one.
func (u User) DisplayName() string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// Tag returns the legacy "name#1234" form, or just the username for accounts
// migrated to the "0" sentinel discriminator.
func (u User) Tag() string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

// Spotify is the now-playing metadata attached to a snapshot while the
// Spotify integration is active.
type Spotify struct {
	TrackID     string             `json:"track_id"`
	Song        string             `json:"song"`
	Artist      string             `json:"artist"`
	Album       string             `json:"album"`
	AlbumArtURL string             `json:"album_art_url"`
	Timestamps  ActivityTimestamps `json:"timestamps"`
}

// DurationMs returns the track length in milliseconds. The upstream source
// does not guarantee end > start, so this can be zero or negative.
func (s *Spotify) DurationMs() int64 {
	return s.Timestamps.End - s.Timestamps.Start
}

// Presence is one fetched snapshot of a user's live status. It is built
// fresh on every poll and never mutated afterwards.
type Presence struct {
	DiscordUser        User       `json:"discord_user"`
	DiscordStatus      Status     `json:"discord_status"`
	Activities         []Activity `json:"activities"`
	ListeningToSpotify bool       `json:"listening_to_spotify"`
	Spotify            *Spotify   `json:"spotify,omitempty"`
	ActiveOnDesktop    bool       `json:"active_on_discord_desktop"`
	ActiveOnMobile     bool       `json:"active_on_discord_mobile"`
	ActiveOnWeb        bool       `json:"active_on_discord_web"`
}

// FormatTrackDuration formats a millisecond duration as "M:SS" for track
// progress display. Non-positive input renders as "0:00".
func FormatTrackDuration(ms int64) string {
	if ms <= 0 {
		return "0:00"
	}
	totalSeconds := ms / 1000
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
