package contracts

import "fmt"

// DeviceInfo describes a MIDI input port that can be handed to SelectDevice.
type DeviceInfo struct {
	ID           int    // Index to pass to SelectDevice.
	Name         string // Port name.
	Manufacturer string // Device manufacturer, when the platform reports one.
	EntityName   string // Name of the entity that owns the port.
}

func (d DeviceInfo) String() string {
	if d.Manufacturer == "" {
		return fmt.Sprintf("#%d %s", d.ID, d.Name)
	}
	return fmt.Sprintf("#%d %s (%s)", d.ID, d.Name, d.Manufacturer)
}
