//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/midicodec/internal/midi/packet"
	"github.com/leandrodaf/midicodec/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// ClientMid captures from a CoreMIDI source on macOS. Every packet is run
// through the message decoder before it reaches the event channel.
type ClientMid struct {
	logger          contracts.Logger
	eventChannel    atomic.Value               // Atomic storage for the event channel to ensure thread safety.
	client          coremidi.Client            // CoreMIDI client instance for MIDI operations.
	inputPort       coremidi.InputPort         // Input port for receiving MIDI events.
	portConn        internalPortConnection     // Connection to the MIDI port.
	midiEventFilter *contracts.MIDIEventFilter // Filter on decoded message status.
	coreMIDIConfig  *contracts.CoreMIDIConfig  // Configuration for MIDI client.
	mu              sync.Mutex                 // Mutex for thread safety on shared resources.
	capturing       bool                       // Indicates if event capturing is currently active.
	wg              sync.WaitGroup             // WaitGroup for managing concurrent MIDI event processing.
	stopOnce        sync.Once                  // Ensures Stop() is executed only once.
}

// NewMIDIClient initializes a new ClientMid for handling MIDI events on macOS.
// Applies logging and configurations based on the provided options.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("MIDI client successfully created")

	return &ClientMid{
		logger:          options.Logger,
		client:          client,
		midiEventFilter: options.MIDIEventFilter,
		coreMIDIConfig:  options.CoreMIDIConfig,
	}, nil
}

// ListDevices retrieves and returns available MIDI devices.
// If no devices are found, an error is logged and returned.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		sourceEntity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			ID:           i,
			Name:         source.Name(),
			EntityName:   sourceEntity.Name(),
			Manufacturer: sourceEntity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice selects a MIDI device by ID and connects to it.
// If a device is already connected, it disconnects first.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		m.logger.Error(ErrInvalidMIDIDevice.Error())
		return ErrInvalidMIDIDevice
	}

	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}

	source := sources[deviceID]
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))

	m.inputPort, err = coremidi.NewInputPort(m.client, "Input Port", m.handleMIDIMessage)
	if err != nil {
		m.logger.Error(ErrCreateInputPort.Error())
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	m.portConn, err = m.inputPort.Connect(source)
	if err != nil {
		m.logger.Error(ErrMIDIConnectionError.Error())
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	m.logger.Info("MIDI device successfully connected")
	return nil
}

// handleMIDIMessage is the CoreMIDI read callback. A packet that fails to
// decode is logged and whatever decoded before the failure is still delivered.
func (m *ClientMid) handleMIDIMessage(source coremidi.Source, p coremidi.Packet) {
	if err := m.handlePacket(p.Data); err != nil {
		m.logger.Warn("Failed to decode MIDI packet",
			m.logger.Field().String("source", source.Name()),
			m.logger.Field().Int("length", len(p.Data)),
			m.logger.Field().Error("error", err))
	}
}

// handlePacket decodes every message in data and forwards the ones that pass
// the filter. Packets arriving while not capturing are ignored.
func (m *ClientMid) handlePacket(data []byte) error {
	// Add must not race with the Wait in Stop, which runs under mu.
	m.mu.Lock()
	if !m.capturing {
		m.mu.Unlock()
		return nil
	}
	m.wg.Add(1)
	m.mu.Unlock()
	defer m.wg.Done()

	eventChannel, _ := m.eventChannel.Load().(chan contracts.Event)
	if eventChannel == nil {
		m.logger.Warn("eventChannel not initialized or of invalid type")
		return nil
	}

	events, err := packet.Decode(data, uint64(time.Now().UTC().UnixNano()), m.midiEventFilter)
	for _, event := range events {
		m.logger.Debug("MIDI message received", m.logger.Field().String("message", event.Message.String()))
		select {
		case eventChannel <- event:
		default:
			m.logger.Warn("Event buffer full; dropping MIDI event")
		}
	}
	return err
}

// StartCapture stores eventChannel as the destination for decoded events.
// Calling it again while capturing redirects events to the new channel.
func (m *ClientMid) StartCapture(eventChannel chan contracts.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eventChannel == nil {
		m.logger.Error("StartCapture called with nil eventChannel")
		return
	}

	if m.capturing {
		m.logger.Warn("Capture already started; redirecting events to the new channel")
	} else {
		m.logger.Info("Starting MIDI event capture")
	}
	m.eventChannel.Store(eventChannel)
	m.capturing = true
}

// Stop halts capturing, disconnects from the device and waits for in-flight
// packets to finish. Only the first call has any effect.
func (m *ClientMid) Stop() error {
	m.stopOnce.Do(func() {
		m.logger.Info("Stopping MIDI capture")
		m.mu.Lock()
		wasCapturing := m.capturing
		m.capturing = false
		// Callbacks still running see an unbuffered channel nobody reads and drop their events.
		m.eventChannel.Store(make(chan contracts.Event))
		conn := m.portConn
		m.portConn = nil
		m.mu.Unlock()

		if conn != nil {
			conn.Disconnect()
		}

		// No Add can follow: callbacks check capturing under mu first.
		m.wg.Wait()
		if wasCapturing {
			m.logger.Info("MIDI capture stopped")
		}
	})
	return nil
}
