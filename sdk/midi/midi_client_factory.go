package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/midicodec/internal/midi/mididarwin"
	"github.com/leandrodaf/midicodec/internal/midi/midiwindows"
	"github.com/leandrodaf/midicodec/sdk/contracts"
)

// ErrUnsupportedOS is returned when the operating system is not supported by the MIDI client.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// clientInitializers maps OS names to corresponding MIDI client initializers.
var clientInitializers = map[string]func(*contracts.ClientOptions) (contracts.ClientMIDI, error){
	"darwin":  mididarwin.NewMIDIClient,  // CoreMIDI
	"windows": midiwindows.NewMIDIClient, // WinMM
}

var goos = runtime.GOOS

// NewClient initializes a MIDI client based on the current operating system.
// It supports macOS (Darwin) and Windows, returning ErrUnsupportedOS otherwise.
func NewClient(opts *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	if initializer, exists := clientInitializers[goos]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
}
