package widgets

import (
	"gitlab.com/tinyland/lab/presence-pulse/pkg/lanyard"
)

// Fragment is the render-ready form of a single activity: a heading, detail
// lines, and an optional icon URL. It carries no styling; the card renderer
// decides colors and layout.
type Fragment struct {
	// Heading is the bold first line ("Listening to Spotify", "Playing Hades").
	// Empty for custom statuses, which are a single styled line.
	Heading string

	// Lines are the detail lines under the heading. Game fragments always
	// carry two entries even when both are empty.
	Lines []string

	// IconURL is the resolved image URL for the activity, or "".
	IconURL string

	// Music marks the Spotify fragment, which gets the progress bar.
	Music bool
}

// IsEmpty reports whether the fragment renders nothing at all.
func (f Fragment) IsEmpty() bool {
	if f.Heading != "" || f.IconURL != "" {
		return false
	}
	for _, l := range f.Lines {
		if l != "" {
			return false
		}
	}
	return true
}

// renderActivity maps one activity to its fragment. Dispatch order:
//
//  1. the reserved music activity with now-playing metadata present
//  2. a custom status with a non-empty state
//  3. anything else, headed by the activity type's display prefix
//
// It never fails; absent optional fields degrade to empty strings.
func renderActivity(act lanyard.Activity, sp *lanyard.Spotify) Fragment {
	if act.ID == lanyard.MusicActivityID && sp != nil {
		return Fragment{
			Heading: "Listening to Spotify",
			Lines:   []string{sp.Song, "by " + sp.Artist, "on " + sp.Album},
			IconURL: sp.AlbumArtURL,
			Music:   true,
		}
	}

	if act.Type == lanyard.CustomActivity {
		if act.State == "" {
			return Fragment{}
		}
		line := ""
		if act.Emoji != nil && act.Emoji.Name != "" {
			line = act.Emoji.Name + " "
		}
		line += "“" + act.State + "”"
		return Fragment{Lines: []string{line}}
	}

	if act.Name == "" {
		return Fragment{}
	}

	return Fragment{
		Heading: act.Type.DisplayPrefix() + " " + act.Name,
		Lines:   []string{act.Details, act.State},
		IconURL: act.AssetURL(),
	}
}
