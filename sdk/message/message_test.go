package message_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/leandrodaf/midicodec/sdk/message"
)

// countingReader records how many bytes the decoder pulled.
type countingReader struct {
	r     *bytes.Reader
	reads int
}

func newCountingReader(b ...byte) *countingReader {
	return &countingReader{r: bytes.NewReader(b)}
}

func (c *countingReader) ReadByte() (byte, error) {
	c.reads++
	return c.r.ReadByte()
}

type failingReader struct{ err error }

func (f failingReader) ReadByte() (byte, error) { return 0, f.err }

func roundTrip(t *testing.T, in message.Message) message.Message {
	t.Helper()
	raw := in.Bytes()
	out, err := message.DecodeGivenStatus(raw[0], bytes.NewReader(raw[1:]))
	if err != nil {
		t.Fatalf("decode %v: %v", raw, err)
	}
	return out
}

func TestBuilderRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		msg    message.Message
		status message.Status
		data   []byte
	}{
		{"note on", message.NoteOn(60, 100, 3), message.StatusNoteOn, []byte{60, 100}},
		{"note off", message.NoteOff(61, 0, 4), message.StatusNoteOff, []byte{61, 0}},
		{"poly aftertouch", message.PolyphonicAftertouch(62, 90, 5), message.StatusPolyphonicAftertouch, []byte{62, 90}},
		{"control change", message.ControlChange(7, 127, 6), message.StatusControlChange, []byte{7, 127}},
		{"program change", message.ProgramChange(12, 7), message.StatusProgramChange, []byte{12}},
		{"channel aftertouch", message.ChannelAftertouch(33, 8), message.StatusChannelAftertouch, []byte{33}},
		{"pitch bend", message.PitchBend(0, 64, 15), message.StatusPitchBend, []byte{0, 64}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := roundTrip(t, tc.msg)
			if out != tc.msg {
				t.Fatalf("decoded message differs: got=%v want=%v", out.Bytes(), tc.msg.Bytes())
			}
			if out.Status() != tc.status {
				t.Fatalf("expected status %v, got %v", tc.status, out.Status())
			}
			if out.Channel() != tc.msg.Channel() {
				t.Fatalf("channel mismatch: %d vs %d", out.Channel(), tc.msg.Channel())
			}
			if out.Len() != 1+len(tc.data) {
				t.Fatalf("expected %d bytes, got %d", 1+len(tc.data), out.Len())
			}
			for i, b := range tc.data {
				if out.Data(i+1) != b {
					t.Fatalf("data(%d): expected %d, got %d", i+1, b, out.Data(i+1))
				}
			}
		})
	}
}

func TestChannelIsOneBased(t *testing.T) {
	for ch := uint8(0); ch < 16; ch++ {
		m := message.ControlChange(1, 2, ch)
		if m.Channel() != ch+1 {
			t.Fatalf("channel %d: expected %d, got %d", ch, ch+1, m.Channel())
		}
	}
	if got := message.NoteOn(1, 1, 15).Channel(); got != 16 {
		t.Fatalf("expected channel 16, got %d", got)
	}
}

func TestBuilderMasksChannel(t *testing.T) {
	m := message.NoteOn(60, 100, 0x1F)
	if m.Status() != message.StatusNoteOn || m.Channel() != 16 {
		t.Fatalf("out of range channel corrupted status: %v", m.Bytes())
	}
}

func TestNoteOnExample(t *testing.T) {
	m := message.NoteOn(60, 100, 0)
	if !bytes.Equal(m.Bytes(), []byte{0x90, 60, 100}) {
		t.Fatalf("unexpected bytes % X", m.Bytes())
	}
	out, err := message.Decode(bytes.NewReader(m.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status() != message.StatusNoteOn || out.Channel() != 1 || out.Data(1) != 60 || out.Data(2) != 100 {
		t.Fatalf("unexpected decode: %v", out)
	}
}

func TestProgramChangeExample(t *testing.T) {
	m := message.ProgramChange(5, 9)
	if !bytes.Equal(m.Bytes(), []byte{0xC9, 5}) {
		t.Fatalf("unexpected bytes % X", m.Bytes())
	}
	out, err := message.Decode(bytes.NewReader(m.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status() != message.StatusProgramChange || out.Channel() != 10 || out.Data(1) != 5 {
		t.Fatalf("unexpected decode: %v", out)
	}
}

func TestDecodeInvalidStatusConsumesNothing(t *testing.T) {
	for _, b := range []byte{0x00, 0xF4, 0xF5, 0xF9, 0xFD} {
		src := newCountingReader(1, 2, 3)
		_, err := message.DecodeGivenStatus(b, src)
		if !errors.Is(err, message.ErrInvalidStatus) {
			t.Fatalf("0x%02X: expected ErrInvalidStatus, got %v", b, err)
		}
		if src.reads != 0 {
			t.Fatalf("0x%02X: decoder read %d bytes", b, src.reads)
		}
	}
}

func TestDecodeSysExIsUnsupported(t *testing.T) {
	src := newCountingReader(0x7E, 0x00, 0xF7)
	_, err := message.DecodeGivenStatus(0xF0, src)
	if !errors.Is(err, message.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	var unsupported *message.UnsupportedFeatureError
	if !errors.As(err, &unsupported) || unsupported.Status != message.StatusSysExStart {
		t.Fatalf("expected UnsupportedFeatureError for SysEx Start, got %v", err)
	}
	if src.reads != 0 {
		t.Fatalf("decoder searched for SysEx End, read %d bytes", src.reads)
	}
}

func TestDecodeTruncatedNoteOn(t *testing.T) {
	_, err := message.Decode(bytes.NewReader([]byte{0x90, 60}))
	if !errors.Is(err, message.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF cause, got %v", err)
	}
	var ioErr *message.IOError
	if !errors.As(err, &ioErr) || ioErr.Offset != 2 {
		t.Fatalf("expected failure on data byte 2, got %v", err)
	}
}

func TestDecodePropagatesSourceError(t *testing.T) {
	cause := errors.New("port closed")
	_, err := message.Decode(failingReader{err: cause})
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	var ioErr *message.IOError
	if !errors.As(err, &ioErr) || ioErr.Offset != 0 {
		t.Fatalf("expected status read failure, got %v", err)
	}
}

func TestDecodeLeavesStreamAtNextMessage(t *testing.T) {
	src := bytes.NewReader([]byte{0x90, 60, 100, 0xF8, 0xC0, 1})
	var got []message.Status
	for {
		m, err := message.Decode(src)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = append(got, m.Status())
	}
	want := []message.Status{message.StatusNoteOn, message.StatusTimingClock, message.StatusProgramChange}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("message %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSystemMessagesHaveNoChannel(t *testing.T) {
	for _, m := range []message.Message{message.TimingClock(), message.SongSelect(3), message.SongPosition(100)} {
		if m.Channel() != 0 {
			t.Fatalf("%v: expected channel 0, got %d", m, m.Channel())
		}
		if !m.Valid() {
			t.Fatalf("%v: expected valid message", m)
		}
	}
}

func TestDataOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	message.ProgramChange(1, 0).Data(2)
}

func TestMessageString(t *testing.T) {
	cases := []struct {
		msg  message.Message
		want string
	}{
		{message.NoteOn(60, 100, 0), "Note On: [60,100]\tchannel: 1"},
		{message.ProgramChange(5, 9), "Program Change: [5]\tchannel: 10"},
		{message.Stop(), "Stop: [no data]"},
		{message.SongSelect(4), "Song Select: [4]"},
		{message.Message{}, "<empty>"},
	}
	for _, tc := range cases {
		if got := tc.msg.String(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestPitchBendValue(t *testing.T) {
	m := message.PitchBendValue(0x2000, 2)
	if !bytes.Equal(m.Bytes(), []byte{0xE2, 0x00, 0x40}) {
		t.Fatalf("unexpected bytes % X", m.Bytes())
	}
	if m.PitchBendAmount() != 0x2000 {
		t.Fatalf("expected centre, got 0x%04X", m.PitchBendAmount())
	}
	if got := message.SongPosition(0x3FFF).PitchBendAmount(); got != 0x3FFF {
		t.Fatalf("expected 0x3FFF, got 0x%04X", got)
	}
	for _, m := range []message.Message{message.NoteOn(0x7F, 0x7F, 0), message.ControlChange(1, 2, 3), {}} {
		if got := m.PitchBendAmount(); got != 0 {
			t.Fatalf("%v: expected 0, got 0x%04X", m, got)
		}
	}
}

func TestFromBytes(t *testing.T) {
	m, err := message.FromBytes([]byte{0xB1, 7, 90})
	if err != nil {
		t.Fatalf("from bytes: %v", err)
	}
	if m != message.ControlChange(7, 90, 1) {
		t.Fatalf("unexpected message %v", m)
	}
	if _, err := message.FromBytes([]byte{0xF8, 0x01}); !errors.Is(err, message.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := message.FromBytes(nil); !errors.Is(err, message.ErrIO) {
		t.Fatalf("expected ErrIO for empty input, got %v", err)
	}
}

func TestBinaryMarshalling(t *testing.T) {
	in := message.ChannelAftertouch(70, 11)
	raw, err := in.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out message.Message
	if err := out.UnmarshalBinary(raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("expected %v, got %v", in, out)
	}
	if _, err := (message.Message{}).MarshalBinary(); err == nil {
		t.Fatalf("expected error marshalling empty message")
	}
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := message.PitchBend(1, 2, 3).WriteTo(&buf)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != 3 || !bytes.Equal(buf.Bytes(), []byte{0xE3, 1, 2}) {
		t.Fatalf("unexpected output % X (%d)", buf.Bytes(), n)
	}
}
