package model

// MapRotation is the current battle-royale map rotation as reported by the
// upstream status API.
type MapRotation struct {
	CurrentMap     string
	RemainingTimer string // Preformatted "HH:MM:SS" countdown from the API.
	NextMap        string
}
