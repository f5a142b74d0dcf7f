package cpu

// Bus is the shared data bus for a single micro-step.
// It may be driven once, and read only after it has been driven.
type Bus struct {
	value  uint8
	driven bool
}

// Drive places a value on the bus.
func (bus *Bus) Drive(value uint8) (err error) {
	if bus.driven {
		err = ErrBusContention
		return
	}

	bus.value = value
	bus.driven = true

	return
}

// Value reads the driven value from the bus.
func (bus *Bus) Value() (value uint8, err error) {
	if !bus.driven {
		err = ErrFloatingBus
		return
	}

	value = bus.value
	return
}

// Driven returns true if a device has driven the bus.
func (bus *Bus) Driven() bool {
	return bus.driven
}
