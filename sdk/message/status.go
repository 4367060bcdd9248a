package message

import (
	"fmt"
	"strings"
)

// Status identifies the kind of a MIDI message. Voice statuses carry their tag
// in the high nibble of the status byte; system statuses use the whole byte.
type Status uint8

// Channel voice statuses.
const (
	StatusNoteOff              Status = 0x80
	StatusNoteOn               Status = 0x90
	StatusPolyphonicAftertouch Status = 0xA0
	StatusControlChange        Status = 0xB0
	StatusProgramChange        Status = 0xC0
	StatusChannelAftertouch    Status = 0xD0
	StatusPitchBend            Status = 0xE0
)

// System common and real-time statuses. 0xF4, 0xF5, 0xF9 and 0xFD are reserved.
const (
	StatusSysExStart           Status = 0xF0
	StatusMIDITimeCodeQtrFrame Status = 0xF1
	StatusSongPositionPointer  Status = 0xF2
	StatusSongSelect           Status = 0xF3
	StatusTuneRequest          Status = 0xF6
	StatusSysExEnd             Status = 0xF7
	StatusTimingClock          Status = 0xF8
	StatusStart                Status = 0xFA
	StatusContinue             Status = 0xFB
	StatusStop                 Status = 0xFC
	StatusActiveSensing        Status = 0xFE
	StatusSystemReset          Status = 0xFF
)

const (
	statusMask  byte = 0xF0
	channelMask byte = 0x0F
	systemBits  byte = 0xF0
)

// DataLength is the number of data bytes following a status byte, or one of
// the negative sentinels for statuses whose length is not fixed.
type DataLength int8

const (
	// LengthVariable marks a message whose size must be read from the stream.
	LengthVariable DataLength = -1
	// LengthSysEx marks a message that runs until a SysExEnd byte.
	LengthSysEx DataLength = -2
	// LengthInvalid marks a byte that is not a status byte.
	LengthInvalid DataLength = -3
)

// Fixed reports whether l is an exact byte count.
func (l DataLength) Fixed() bool { return l >= 0 }

func (l DataLength) String() string {
	switch l {
	case LengthVariable:
		return "variable"
	case LengthSysEx:
		return "sysex"
	case LengthInvalid:
		return "invalid"
	}
	return fmt.Sprintf("%d", int8(l))
}

type statusInfo struct {
	name string
	data DataLength
}

var statusTable = map[Status]statusInfo{
	StatusNoteOff:              {"Note Off", 2},
	StatusNoteOn:               {"Note On", 2},
	StatusPolyphonicAftertouch: {"Polyphonic Aftertouch", 2},
	StatusControlChange:        {"Control Change", 2},
	StatusProgramChange:        {"Program Change", 1},
	StatusChannelAftertouch:    {"Channel Aftertouch", 1},
	StatusPitchBend:            {"Pitch Bend", 2},

	StatusSysExStart:           {"SysEx Start", LengthSysEx},
	StatusMIDITimeCodeQtrFrame: {"MIDI Time Code Qtr Frame", 1},
	StatusSongPositionPointer:  {"Song Position Pointer", 2},
	StatusSongSelect:           {"Song Select", 1},
	StatusTuneRequest:          {"Tune Request", 0},
	StatusSysExEnd:             {"SysEx End", 0},
	StatusTimingClock:          {"Timing Clock", 0},
	StatusStart:                {"Start", 0},
	StatusContinue:             {"Continue", 0},
	StatusStop:                 {"Stop", 0},
	StatusActiveSensing:        {"Active Sensing", 0},
	StatusSystemReset:          {"System Reset", 0},
}

// tag strips the channel from voice status bytes. System bytes are returned whole.
func tag(b byte) Status {
	if b&statusMask == systemBits {
		return Status(b)
	}
	return Status(b & statusMask)
}

// Classify maps a raw status byte to its Status. Bytes below 0x80 and the
// reserved system bytes fail with an *InvalidStatusError.
func Classify(b byte) (Status, error) {
	s := tag(b)
	if _, ok := statusTable[s]; !ok {
		return 0, &InvalidStatusError{Status: b}
	}
	return s, nil
}

// DataBytes returns how many data bytes follow the status byte b.
func DataBytes(b byte) DataLength {
	info, ok := statusTable[tag(b)]
	if !ok {
		return LengthInvalid
	}
	return info.data
}

// DataBytes returns how many data bytes follow s.
func (s Status) DataBytes() DataLength {
	return DataBytes(byte(s))
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

// IsVoice reports whether s is a channel voice status.
func (s Status) IsVoice() bool {
	return s.Valid() && byte(s)&statusMask != systemBits
}

// IsSystem reports whether s is a system common or real-time status.
func (s Status) IsSystem() bool {
	return s.Valid() && byte(s)&statusMask == systemBits
}

// IsRealtime reports whether s is a single-byte real-time status (0xF8-0xFF).
func (s Status) IsRealtime() bool {
	return s.IsSystem() && s >= StatusTimingClock
}

func (s Status) String() string {
	if info, ok := statusTable[s]; ok {
		return info.name
	}
	return fmt.Sprintf("Unknown(0x%02X)", uint8(s))
}

// Statuses returns every known status in tag order.
func Statuses() []Status {
	out := make([]Status, 0, len(statusTable))
	for b := 0x80; b <= 0xFF; b++ {
		s := Status(b)
		if _, ok := statusTable[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// ParseStatus resolves a status from its display name ("Note On") or a
// compact form ("note-on", "NoteOn", "note_on"). Matching ignores case.
func ParseStatus(name string) (Status, error) {
	key := normalizeName(name)
	for s, info := range statusTable {
		if normalizeName(info.name) == key {
			return s, nil
		}
	}
	return 0, fmt.Errorf("midi: unknown status name %q", name)
}

func normalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(name))
}
