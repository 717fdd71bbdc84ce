package types

import "fmt"

// Device is a single compute device in a topology.
//
// Free and Cost are mutated by the packers during a partition pass: Free only
// ever decreases and Cost only ever increases. Rank is stable and unique
// within a topology.
type Device struct {
	// Rank is the global, zero-based position of the device in the topology.
	Rank int `json:"rank"`

	// Free is the remaining capacity on the device.
	Free Capacity `json:"free"`

	// Cost is the accumulated estimated cost of all shards assigned so far.
	Cost float64 `json:"cost"`
}

// LocalRank returns the device's position within its host (Rank mod localSize).
func (d *Device) LocalRank(localSize int) int {
	return d.Rank % localSize
}

// Clone returns a deep copy of the device.
func (d *Device) Clone() *Device {
	clone := *d
	return &clone
}

// Topology is an ordered collection of devices grouped into equally sized
// hosts. Device order is significant: host membership is purely positional
// (contiguous ranks), so operations that rely on host grouping must preserve
// the order of Devices.
type Topology struct {
	// Devices holds the devices in rank order.
	Devices []*Device `json:"devices"`

	// LocalSize is the number of devices per host. The world size must be a
	// multiple of it.
	LocalSize int `json:"localSize"`
}

// NewTopology creates a validated topology from a device list.
//
// Parameters:
//   - devices: Devices in rank order; ranks must equal their index
//   - localSize: Devices per host; must evenly divide len(devices)
//
// Returns:
//   - *Topology: The validated topology
//   - error: ErrInvalidTopology if the shape is inconsistent
func NewTopology(devices []*Device, localSize int) (*Topology, error) {
	if len(devices) == 0 {
		return nil, fmt.Errorf("%w: topology has no devices", ErrInvalidTopology)
	}
	if localSize <= 0 {
		return nil, fmt.Errorf("%w: local size %d must be positive", ErrInvalidTopology, localSize)
	}
	if len(devices)%localSize != 0 {
		return nil, fmt.Errorf("%w: world size %d is not a multiple of local size %d",
			ErrInvalidTopology, len(devices), localSize)
	}
	for i, device := range devices {
		if device.Rank != i {
			return nil, fmt.Errorf("%w: device at position %d has rank %d",
				ErrInvalidTopology, i, device.Rank)
		}
	}

	return &Topology{Devices: devices, LocalSize: localSize}, nil
}

// NewUniformTopology creates a topology of worldSize identical devices, each
// with the given per-device capacity.
//
// Parameters:
//   - worldSize: Total device count
//   - localSize: Devices per host
//   - perDevice: Capacity of every device
//
// Returns:
//   - *Topology: The topology
//   - error: ErrInvalidTopology if the shape is inconsistent
func NewUniformTopology(worldSize, localSize int, perDevice Capacity) (*Topology, error) {
	devices := make([]*Device, worldSize)
	for i := range devices {
		devices[i] = &Device{Rank: i, Free: perDevice}
	}

	return NewTopology(devices, localSize)
}

// WorldSize returns the total number of devices.
func (t *Topology) WorldSize() int {
	return len(t.Devices)
}

// NumHosts returns the number of host-sized device groups.
func (t *Topology) NumHosts() int {
	return len(t.Devices) / t.LocalSize
}

// Clone returns a deep copy of the topology. Mutations of the copy's devices
// are never visible through the original.
func (t *Topology) Clone() *Topology {
	devices := make([]*Device, len(t.Devices))
	for i, device := range t.Devices {
		devices[i] = device.Clone()
	}

	return &Topology{Devices: devices, LocalSize: t.LocalSize}
}

// HostGroups partitions the devices positionally into host-sized groups.
//
// The returned slices alias the topology's devices; they are views, not
// copies. Group i holds devices with ranks [i*LocalSize, (i+1)*LocalSize).
func (t *Topology) HostGroups() [][]*Device {
	groups := make([][]*Device, 0, t.NumHosts())
	for i := 0; i < t.NumHosts(); i++ {
		groups = append(groups, t.Devices[i*t.LocalSize:(i+1)*t.LocalSize])
	}

	return groups
}
