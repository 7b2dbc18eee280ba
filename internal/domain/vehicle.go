package domain

// CapacityTolerance absorbs floating-point drift when summing demand.
const CapacityTolerance = 1e-6

// Delivery vehicle with a capacity expressed in capacity units.
type Vehicle struct {
	ID       string
	Capacity float64
}

// Fits reports whether a load stays within the vehicle capacity.
func (v Vehicle) Fits(load float64) bool {
	return load <= v.Capacity+CapacityTolerance
}

// VehicleAssignment pairs a vehicle with the driver who will run its trip.
type VehicleAssignment struct {
	Vehicle  Vehicle
	DriverID string
}
