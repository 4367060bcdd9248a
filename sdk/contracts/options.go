package contracts

import "github.com/leandrodaf/midicodec/sdk/message"

// MIDIEventFilter restricts which message kinds are delivered to the caller.
// An empty filter allows everything.
type MIDIEventFilter struct {
	Statuses []message.Status // Statuses to keep; channel bits are ignored.
}

// Allows reports whether messages with status s pass the filter.
func (f *MIDIEventFilter) Allows(s message.Status) bool {
	if f == nil || len(f.Statuses) == 0 {
		return true
	}
	for _, allowed := range f.Statuses {
		if allowed == s {
			return true
		}
	}
	return false
}

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// ClientOptions configures capture clients and stream readers.
type ClientOptions struct {
	Logger          Logger           // Logger for events and errors.
	LogLevel        LogLevel         // Minimum level written by Logger.
	LogFilePath     string           // Log file, used when non-empty.
	MIDIEventFilter *MIDIEventFilter // Optional filter on decoded messages.
	CoreMIDIConfig  *CoreMIDIConfig  // Configuration specific to CoreMIDI.
	Resync          bool             // Skip undecodable bytes instead of failing.
	StrictDataBytes bool             // Reject data bytes with the top bit set.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile sends log output to path instead of the console.
func WithLogFile(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithMIDIEventFilter keeps only messages whose status is listed in filter.
func WithMIDIEventFilter(filter MIDIEventFilter) Option {
	return func(opts *ClientOptions) {
		opts.MIDIEventFilter = &filter
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *ClientOptions) {
		opts.CoreMIDIConfig = &config
	}
}

// WithResync makes readers skip bytes that cannot start a message and
// discard system exclusive blocks, rather than returning the decode error.
func WithResync(enabled bool) Option {
	return func(opts *ClientOptions) {
		opts.Resync = enabled
	}
}

// WithStrictDataBytes makes readers reject data bytes above 0x7F.
func WithStrictDataBytes(enabled bool) Option {
	return func(opts *ClientOptions) {
		opts.StrictDataBytes = enabled
	}
}
