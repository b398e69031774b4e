package interact

import (
	"fmt"
	"net/url"
	"time"

	"github.com/citygate/interstitial/internal/content"
)

// ShareURL builds the external share endpoint for a social target. The
// clipboard target never reaches here; it is handled locally by the
// gateway without a browsing context.
func ShareURL(target ShareTarget, link, title string) (string, bool) {
	switch target {
	case ShareFacebook:
		return "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(link), true
	case ShareTwitter:
		v := url.Values{}
		v.Set("url", link)
		v.Set("text", title)
		return "https://twitter.com/intent/tweet?" + v.Encode(), true
	case ShareWhatsApp:
		v := url.Values{}
		v.Set("text", title+" "+link)
		return "https://api.whatsapp.com/send?" + v.Encode(), true
	}
	return "", false
}

// CalendarURL builds a Google Calendar event-creation link for an event
// item. Events without a start time default to one hour starting now.
func CalendarURL(item content.Item, now time.Time) string {
	start := item.EventStart
	if start.IsZero() {
		start = now
	}
	end := start.Add(time.Hour)

	const stamp = "20060102T150405Z"
	v := url.Values{}
	v.Set("action", "TEMPLATE")
	v.Set("text", item.Title)
	v.Set("dates", start.UTC().Format(stamp)+"/"+end.UTC().Format(stamp))
	if item.Body != "" {
		v.Set("details", item.Body)
	}
	return "https://calendar.google.com/calendar/render?" + v.Encode()
}

// CanonicalURL is the public permalink shared for a content item.
func CanonicalURL(publicBase string, kind content.Kind, id string) string {
	return fmt.Sprintf("%s/c/%s/%s", publicBase, kind, id)
}
