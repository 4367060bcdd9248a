package bridge

import (
	"bytes"
	"errors"
	"testing"

	"github.com/leandrodaf/midicodec/sdk/message"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestToGoMIDIMatchesGomidiBuilders(t *testing.T) {
	cases := []struct {
		ours   message.Message
		theirs gomidi.Message
	}{
		{message.NoteOn(60, 100, 0), gomidi.NoteOn(0, 60, 100)},
		{message.ControlChange(7, 90, 3), gomidi.ControlChange(3, 7, 90)},
		{message.ProgramChange(5, 9), gomidi.ProgramChange(9, 5)},
	}
	for _, tc := range cases {
		if got := ToGoMIDI(tc.ours); !bytes.Equal(got, tc.theirs) {
			t.Fatalf("%v: expected % X, got % X", tc.ours, []byte(tc.theirs), []byte(got))
		}
	}
}

func TestFromGoMIDI(t *testing.T) {
	m, err := FromGoMIDI(gomidi.NoteOn(2, 64, 127))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if m.Status() != message.StatusNoteOn || m.Channel() != 3 || m.Data(1) != 64 || m.Data(2) != 127 {
		t.Fatalf("unexpected message %v", m)
	}

	var channel, key, velocity uint8
	if !ToGoMIDI(m).GetNoteOn(&channel, &key, &velocity) {
		t.Fatalf("gomidi does not see a note on")
	}
	if channel != 2 || key != 64 || velocity != 127 {
		t.Fatalf("gomidi read channel=%d key=%d velocity=%d", channel, key, velocity)
	}
}

func TestFromGoMIDIRejectsSysEx(t *testing.T) {
	_, err := FromGoMIDI(gomidi.Message([]byte{0xF0, 0x7E, 0x7F, 0xF7}))
	if !errors.Is(err, message.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestSink(t *testing.T) {
	var sent []gomidi.Message
	sink := NewSink(func(m gomidi.Message) error {
		sent = append(sent, m)
		return nil
	})
	if err := sink.Send(message.PitchBend(0, 64, 1)); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := sink.Send(message.Message{}); err == nil {
		t.Fatalf("expected an error for an empty message")
	}
	if sink.Sent() != 1 || len(sent) != 1 || !bytes.Equal(sent[0], []byte{0xE1, 0, 64}) {
		t.Fatalf("unexpected sends: %v", sent)
	}

	portErr := errors.New("port closed")
	failing := NewSink(func(gomidi.Message) error { return portErr })
	if err := failing.Send(message.Stop()); !errors.Is(err, portErr) {
		t.Fatalf("expected port error, got %v", err)
	}
}
