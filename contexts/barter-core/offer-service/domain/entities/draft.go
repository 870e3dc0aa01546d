package entities

import "time"

// Draft is the server-side snapshot of in-progress campaign composition.
// Saves are conditioned on Version so a stale autosave can never overwrite a
// newer copy.
type Draft struct {
	OfferID   string
	BrandID   string
	Step      int
	Payload   []byte
	Version   int
	UpdatedAt time.Time
}
