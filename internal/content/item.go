// Package content defines the interstitial content model and the catalog
// client that retrieves eligible items from the portal backend.
//
// Content items are created and updated by the portal's content-management
// screens; this package only reads them. The one adjustment made at
// ingestion is normalization of the duration pair so that the mandatory
// viewing duration never exceeds the total on-screen duration.
package content

import "time"

// Kind identifies the category of an interstitial item.
type Kind string

const (
	KindAdvertisement Kind = "advertisement"
	KindMissingPerson Kind = "missing_person"
	KindMissingPet    Kind = "missing_pet"
	KindEvent         Kind = "event"
	KindSurvey        Kind = "survey"
)

// Valid reports whether k is one of the known content kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindAdvertisement, KindMissingPerson, KindMissingPet, KindEvent, KindSurvey:
		return true
	}
	return false
}

// Status marks whether an item is eligible for presentation.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Item is one unit of interstitial content.
type Item struct {
	ID               string    `json:"id"`
	Kind             Kind      `json:"kind"`
	Title            string    `json:"title,omitempty"`
	Body             string    `json:"body,omitempty"`
	MediaURL         string    `json:"media_url,omitempty"`
	TotalSeconds     int       `json:"total_seconds"`
	MandatorySeconds int       `json:"mandatory_seconds"`
	Skippable        bool      `json:"skippable"`
	Status           Status    `json:"status"`
	EventStart       time.Time `json:"event_start,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// HasMedia reports whether the item carries an image or video reference.
func (it Item) HasMedia() bool {
	return it.MediaURL != ""
}

// Active reports whether the item is eligible for presentation.
func (it Item) Active() bool {
	return it.Status == StatusActive
}

// normalize enforces 0 <= mandatory <= total. A mandatory duration longer
// than the total is a configuration error upstream; it is clamped here so
// playback can assume the invariant.
func (it *Item) normalize() {
	if it.TotalSeconds < 0 {
		it.TotalSeconds = 0
	}
	if it.MandatorySeconds < 0 {
		it.MandatorySeconds = 0
	}
	if it.MandatorySeconds > it.TotalSeconds {
		it.MandatorySeconds = it.TotalSeconds
	}
}

// Normalize filters items down to active ones and clamps their durations,
// preserving the order the backend returned.
func Normalize(items []Item) []Item {
	eligible := make([]Item, 0, len(items))
	for _, it := range items {
		if !it.Active() {
			continue
		}
		it.normalize()
		eligible = append(eligible, it)
	}
	return eligible
}
