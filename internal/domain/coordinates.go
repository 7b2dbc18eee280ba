package domain

// Immutable geographic coordinates (latitude, longitude) in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// IsZero reports the (0,0) value used by upstream systems for "no location".
func (c Coordinates) IsZero() bool { return c.Lat == 0 && c.Lon == 0 }

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }
