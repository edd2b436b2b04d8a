package transfer

import (
	"sort"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/trolley"
)

// DeviceInfo is the per-device bookkeeping of a cycle.
type DeviceInfo struct {
	// ToCartCount counts canisters taken from the device into a trolley.
	ToCartCount int
	// FromCartCount counts canisters unloaded from a trolley into the device.
	FromCartCount int
	NormalCarts   []kernel.DeviceID
	ElevatorCarts []kernel.DeviceID
}

func (i *DeviceInfo) addCart(class trolley.Class, cart kernel.DeviceID) {
	if class == trolley.Lift {
		i.ElevatorCarts = insertSorted(i.ElevatorCarts, cart)
		return
	}
	i.NormalCarts = insertSorted(i.NormalCarts, cart)
}

func insertSorted(ids []kernel.DeviceID, id kernel.DeviceID) []kernel.DeviceID {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i < len(ids) && ids[i] == id {
		return ids
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

// Cycle is one wave of trolleys. Devices keeps the order in which devices were first touched.
type Cycle struct {
	ID      int
	Devices []kernel.DeviceID
	Info    map[kernel.DeviceID]*DeviceInfo
}

// NewCycle creates an empty cycle. Devices and their bookkeeping are added by
// RecordTransfer.
//
// Parameters:
//   - id: cycle number, starting at 1 for the first cycle of a batch
//
// Returns:
//   - *Cycle: a cycle with no devices
func NewCycle(id int) *Cycle {
	return &Cycle{ID: id, Info: make(map[kernel.DeviceID]*DeviceInfo)}
}

func (c *Cycle) touch(device kernel.DeviceID) *DeviceInfo {
	info, ok := c.Info[device]
	if !ok {
		info = &DeviceInfo{}
		c.Info[device] = info
		c.Devices = append(c.Devices, device)
	}
	return info
}

// RecordTransfer books one canister moving from source into cart and from
// cart into dest. A missing source is booked on dest.
func (c *Cycle) RecordTransfer(source, dest, cart kernel.DeviceID, class trolley.Class) {
	if source == kernel.NoDevice {
		source = dest
	}

	from := c.touch(source)
	from.ToCartCount++
	from.addCart(class, cart)

	to := c.touch(dest)
	to.FromCartCount++
	to.addCart(class, cart)
}
