package domain

// Store is a delivery destination. Location is nil until the store has been
// geocoded or seeded with coordinates.
type Store struct {
	ID       string
	Name     string
	Address  string
	Location *Coordinates
}
