package message

// Builders trust their arguments: data values are expected in 0-127 and the
// channel in 0-15. The channel is masked to its low nibble so the status byte
// always classifies; data bytes are written as given.

func voice(s Status, channel uint8, data ...byte) Message {
	var m Message
	m.buf[0] = byte(s) | channel&channelMask
	m.n = 1 + uint8(copy(m.buf[1:], data))
	return m
}

// NoteOn builds a note on message.
func NoteOn(note, velocity, channel uint8) Message {
	return voice(StatusNoteOn, channel, note, velocity)
}

// NoteOff builds a note off message.
func NoteOff(note, velocity, channel uint8) Message {
	return voice(StatusNoteOff, channel, note, velocity)
}

// PolyphonicAftertouch builds a per-key pressure message, usually sent while a
// key is held down after it bottoms out.
func PolyphonicAftertouch(note, pressure, channel uint8) Message {
	return voice(StatusPolyphonicAftertouch, channel, note, pressure)
}

// ControlChange builds a controller message. Controllers 120-127 are reserved
// for channel mode messages.
func ControlChange(controller, value, channel uint8) Message {
	return voice(StatusControlChange, channel, controller, value)
}

// ProgramChange builds a patch change message.
func ProgramChange(program, channel uint8) Message {
	return voice(StatusProgramChange, channel, program)
}

// ChannelAftertouch builds a channel pressure message carrying the single
// greatest pressure across all held keys.
func ChannelAftertouch(pressure, channel uint8) Message {
	return voice(StatusChannelAftertouch, channel, pressure)
}

// PitchBend builds a pitch bend message from its least and most significant
// 7-bit halves.
func PitchBend(lsb, msb, channel uint8) Message {
	return voice(StatusPitchBend, channel, lsb, msb)
}

// PitchBendValue builds a pitch bend message from a 14-bit value, where
// 0x2000 means no bend. Bits above 14 are dropped.
func PitchBendValue(value uint16, channel uint8) Message {
	return PitchBend(uint8(value&0x7F), uint8(value>>7&0x7F), channel)
}

// TimeCodeQuarterFrame builds an MTC quarter frame message.
func TimeCodeQuarterFrame(data uint8) Message {
	return newMessage(byte(StatusMIDITimeCodeQtrFrame), data)
}

// SongPosition builds a song position pointer from a 14-bit count of MIDI
// beats (sixteenth notes) since the start of the song.
func SongPosition(beats uint16) Message {
	return newMessage(byte(StatusSongPositionPointer), byte(beats&0x7F), byte(beats>>7&0x7F))
}

// SongSelect builds a song select message.
func SongSelect(song uint8) Message {
	return newMessage(byte(StatusSongSelect), song)
}

// TuneRequest asks analog synthesizers to tune their oscillators.
func TuneRequest() Message { return newMessage(byte(StatusTuneRequest)) }

// TimingClock builds a clock tick, sent 24 times per quarter note.
func TimingClock() Message { return newMessage(byte(StatusTimingClock)) }

// Start tells the receiver to play from the beginning of the song.
func Start() Message { return newMessage(byte(StatusStart)) }

// Continue resumes playback from the current song position.
func Continue() Message { return newMessage(byte(StatusContinue)) }

// Stop halts playback.
func Stop() Message { return newMessage(byte(StatusStop)) }

// ActiveSensing builds the keep-alive sent when the line is otherwise idle.
func ActiveSensing() Message { return newMessage(byte(StatusActiveSensing)) }

// SystemReset asks receivers to return to their power-up state.
func SystemReset() Message { return newMessage(byte(StatusSystemReset)) }
