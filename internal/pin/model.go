// internal/pin/model.go
//
// Pin and report value types.
//
// Context
// -------
// A Pin is the single current consensus location of one artist's truck.
// Reports are the append-only, typed contributions that move it.  Row
// structs carry `db` tags for sqlx scans; views carry `json` tags for the
// transport layer.
//
// Schema reference
//
//	pin        (id, artist_id, lat, lng, updated_at, expires_at)
//	pin_report (id, pin_id NULL, user_id, artist_id, lat, lng, type, created_at)
package pin

import (
	"time"
)

// ReportType classifies a contribution.
type ReportType string

const (
	TypeCreate    ReportType = "create"
	TypeConfirm   ReportType = "confirm"
	TypeIncorrect ReportType = "incorrect"
)

// Valid reports whether t is one of the three known types.
func (t ReportType) Valid() bool {
	switch t {
	case TypeCreate, TypeConfirm, TypeIncorrect:
		return true
	}
	return false
}

// Counts reports whether reports of type t are included in a pin's
// displayed report count.  Incorrect reports move the pin but never count.
func (t ReportType) Counts() bool { return t == TypeCreate || t == TypeConfirm }

// Pin mirrors one row in the `pin` table.
type Pin struct {
	ID        string    `db:"id"`
	ArtistID  string    `db:"artist_id"`
	Lat       float64   `db:"lat"`
	Lng       float64   `db:"lng"`
	UpdatedAt time.Time `db:"updated_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Active reports whether the pin is still live at now.
func (p *Pin) Active(now time.Time) bool { return p.ExpiresAt.After(now) }

// ActivePin is a live pin joined with its artist name and report count.
type ActivePin struct {
	Pin
	ArtistName  string `db:"artist_name"`
	ReportCount int    `db:"report_count"`
}

// Sample is the slice of a report the estimator needs.
type Sample struct {
	Lat       float64    `db:"lat"`
	Lng       float64    `db:"lng"`
	Type      ReportType `db:"type"`
	CreatedAt time.Time  `db:"created_at"`
}

// NewReport is the insert payload for one contribution.  PinID is nil only
// when no pin exists yet; the service always fills it.
type NewReport struct {
	PinID    *string
	UserID   string
	ArtistID string
	Lat      float64
	Lng      float64
	Type     ReportType
}

// Submission is a create or confirm request.
type Submission struct {
	UserID   string
	ArtistID string
	Lat      float64
	Lng      float64
	Type     ReportType
}

// Dispute is an incorrect-location report.
type Dispute struct {
	UserID   string
	ArtistID string
	Lat      float64
	Lng      float64
}

// View is the pin shape returned to callers.
type View struct {
	ID          string    `json:"id"`
	ArtistID    string    `json:"artistId"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	ReportCount int       `json:"reportCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ArtistRef is the artist summary embedded in listings.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Listing is one entry of the active-pin map.
type Listing struct {
	View
	Artist ArtistRef `json:"artist"`
}

// Count is the report-count response.
type Count struct {
	PinID       string `json:"pinId"`
	ReportCount int    `json:"reportCount"`
}

func viewOf(p *Pin, count int) View {
	return View{
		ID:          p.ID,
		ArtistID:    p.ArtistID,
		Lat:         p.Lat,
		Lng:         p.Lng,
		ReportCount: count,
		UpdatedAt:   p.UpdatedAt,
		ExpiresAt:   p.ExpiresAt,
	}
}
