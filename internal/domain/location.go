package domain

// Location ids form a fixed symbolic space shared by the order table, the
// waypoint graph and the charts.
const (
	DepotLocation = 0

	MinPickupLocation   = 1
	MaxPickupLocation   = 4
	MinDeliveryLocation = 5
	MaxDeliveryLocation = 8

	LocationCount = 9
)

// LocationCategory groups locations for rendering.
type LocationCategory string

const (
	CategoryDepot    LocationCategory = "depot"
	CategoryPickup   LocationCategory = "pickup"
	CategoryDelivery LocationCategory = "delivery"
)

var locationNames = [LocationCount]string{
	"Forklift Depot",
	"Insulation",
	"Weather Stripping",
	"Fiber Glass",
	"Shingles",
	"Truck 1",
	"Truck 2",
	"Truck 3",
	"Truck 4",
}

// Storage sites in a row at the top, trucks in a row at the bottom, depot on the left.
var locationLayout = [LocationCount]Point{
	{X: -2, Y: 0},
	{X: 0, Y: 2},
	{X: 2, Y: 2},
	{X: 4, Y: 2},
	{X: 6, Y: 2},
	{X: 0, Y: -2},
	{X: 2, Y: -2},
	{X: 4, Y: -2},
	{X: 6, Y: -2},
}

// Point is a 2-D chart position.
type Point struct {
	X float64
	Y float64
}

// ValidLocation reports whether id belongs to the location space.
func ValidLocation(id int) bool {
	return id >= 0 && id < LocationCount
}

// LocationName returns the human-readable name of a location id.
func LocationName(id int) string {
	if !ValidLocation(id) {
		return "Unknown Location"
	}
	return locationNames[id]
}

// LocationPosition returns the fixed chart position of a location id.
func LocationPosition(id int) (Point, bool) {
	if !ValidLocation(id) {
		return Point{}, false
	}
	return locationLayout[id], true
}

func CategoryOf(id int) LocationCategory {
	switch {
	case id == DepotLocation:
		return CategoryDepot
	case id >= MinPickupLocation && id <= MaxPickupLocation:
		return CategoryPickup
	default:
		return CategoryDelivery
	}
}
