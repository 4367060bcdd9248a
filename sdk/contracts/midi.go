package contracts

import "github.com/leandrodaf/midicodec/sdk/message"

// Event is a decoded MIDI message together with the time it was received.
type Event struct {
	Timestamp uint64          // Receive time in nanoseconds since the Unix epoch.
	Message   message.Message // The decoded message.
}

// ClientMIDI captures messages from a MIDI input port and delivers them decoded.
type ClientMIDI interface {
	Stop() error                          // Stops capturing and releases the port.
	ListDevices() ([]DeviceInfo, error)   // Lists the available input ports.
	SelectDevice(deviceID int) error      // Connects to the port with the given ID.
	StartCapture(eventChannel chan Event) // Starts delivering decoded events to eventChannel.
}
