package midi

import (
	"fmt"

	"github.com/leandrodaf/midicodec/sdk/contracts"
)

// NewMIDIClient creates a capture client for the current operating system.
// Captured bytes are decoded with the message package, so the events carry
// complete, validated messages.
//
// opts ...contracts.Option: A variadic list of option functions to customize the client configuration.
//
// Returns:
//   - contracts.ClientMIDI: An instance of the MIDI client.
//   - error: ErrUnsupportedOS, or the platform initialization failure.
func NewMIDIClient(opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	client, err := NewClient(&options)
	if err != nil {
		return nil, fmt.Errorf("create MIDI client: %w", err)
	}

	if options.MIDIEventFilter != nil {
		options.Logger.Debug("MIDI event filter active",
			options.Logger.Field().Int("statuses", len(options.MIDIEventFilter.Statuses)))
	}
	return client, nil
}
