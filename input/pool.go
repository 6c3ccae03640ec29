package input

// Pool is the insertion-ordered set of devices reported for one frame.
// Order only matters for breaking ties; several devices of the same type are
// allowed.
type Pool struct {
	devices []Device
}

// NewPool returns a pool holding the given devices in order.
func NewPool(devices ...Device) Pool {
	p := Pool{devices: make([]Device, 0, len(devices))}
	for _, d := range devices {
		p.Add(d)
	}
	return p
}

// Add appends a device to the pool.
func (p *Pool) Add(d Device) {
	if d.kind == Keyboard {
		d = KeyboardDevice(d.keyboard)
	}
	p.devices = append(p.devices, d)
}

// Len returns the number of devices in the pool.
func (p Pool) Len() int { return len(p.devices) }

// Devices returns a copy of the pool's devices in insertion order.
func (p Pool) Devices() []Device {
	out := make([]Device, len(p.devices))
	copy(out, p.devices)
	return out
}

// Merge returns a new pool holding p's devices followed by other's.
func (p Pool) Merge(other Pool) Pool {
	out := Pool{devices: make([]Device, 0, len(p.devices)+len(other.devices))}
	out.devices = append(out.devices, p.devices...)
	out.devices = append(out.devices, other.devices...)
	return out
}

// Affinity returns the best (lowest) affinity any member has for target.
// ok is false when the pool is empty or no member converts.
func (p Pool) Affinity(target DeviceType) (score int, ok bool) {
	for _, d := range p.devices {
		s, dok := d.Affinity(target)
		if !dok {
			continue
		}
		if !ok || s < score {
			score, ok = s, true
		}
	}
	return score, ok
}

// Convert converts every member that can be expressed as target and
// combines the results left to right in insertion order. ok is false when no
// member converts.
func (p Pool) Convert(target DeviceType) (Device, bool) {
	var (
		out Device
		ok  bool
	)
	for _, d := range p.devices {
		c, cok := d.Convert(target)
		if !cok {
			continue
		}
		if !ok {
			out, ok = c, true
			continue
		}
		out = Combine(out, c)
	}
	return out, ok
}
