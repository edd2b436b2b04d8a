package kernel

// Typed identifiers of the canister logistics tables.
type (
	CanisterID int64
	DeviceID   int64
	LocationID int64
	BatchID    int64
	SystemID   int64
)

// NoDevice marks a demand without a destination device, i.e. a canister that
// has to leave its robot for CSR shelving.
const NoDevice DeviceID = 0

// Quadrant is a section of a robot; CSR destinations carry NoQuadrant.
type Quadrant int

const NoQuadrant Quadrant = 0

// DrawerLevel is the vertical position of a drawer inside a device. Level 1 is
// the lowest drawer.
type DrawerLevel int
