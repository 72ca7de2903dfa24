package lanyard

import "strings"

// Discord CDN hosts. Assets are referenced by the card, never fetched
// through this package.
const (
	cdnBase        = "https://cdn.discordapp.com"
	mediaProxyBase = "https://media.discordapp.net"
)

// mediaProxyPrefix marks asset keys that resolve through the media proxy
// instead of the per-application asset CDN.
const mediaProxyPrefix = "mp:"

// AvatarURL returns the CDN URL for the user's avatar at 128px, or an empty
// string when the user has no custom avatar.
func (u User) AvatarURL() string {
	if u.ID == "" || u.Avatar == "" {
		return ""
	}
	return cdnBase + "/avatars/" + u.ID + "/" + u.Avatar + ".png?size=128"
}

// AssetURL resolves the activity's large image key to a fetchable URL.
// Keys prefixed "mp:" resolve through the media proxy with the prefix
// stripped; plain keys resolve against the owning application's asset CDN.
// Returns an empty string when no icon can be resolved.
func (a Activity) AssetURL() string {
	if a.Assets == nil || a.Assets.LargeImage == "" {
		return ""
	}
	key := a.Assets.LargeImage
	if strings.HasPrefix(key, mediaProxyPrefix) {
		return mediaProxyBase + "/" + strings.TrimPrefix(key, mediaProxyPrefix)
	}
	if a.ApplicationID == "" {
		return ""
	}
	return cdnBase + "/app-assets/" + a.ApplicationID + "/" + key + ".png"
}
