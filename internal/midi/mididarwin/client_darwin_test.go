//go:build darwin
// +build darwin

package mididarwin

import (
	"testing"

	"github.com/leandrodaf/midicodec/internal/logger"
	"github.com/leandrodaf/midicodec/sdk/contracts"
	"github.com/leandrodaf/midicodec/sdk/message"
)

func TestHandlePacketIgnoredUntilCapturing(t *testing.T) {
	m := &ClientMid{logger: logger.NewNopLogger()}
	events := make(chan contracts.Event, 4)
	m.eventChannel.Store(events)

	if err := m.handlePacket([]byte{0x90, 60, 100}); err != nil {
		t.Fatalf("handle packet: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events before capture, got %d", len(events))
	}

	m.StartCapture(events)
	if err := m.handlePacket([]byte{0x90, 60, 100}); err != nil {
		t.Fatalf("handle packet: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if got := (<-events).Message; got != message.NoteOn(60, 100, 0) {
		t.Fatalf("unexpected message %v", got)
	}
}

func TestHandlePacketAfterStop(t *testing.T) {
	m := &ClientMid{logger: logger.NewNopLogger()}
	events := make(chan contracts.Event, 4)
	m.StartCapture(events)

	if err := m.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := m.handlePacket([]byte{0xC0, 5}); err != nil {
		t.Fatalf("handle packet: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events after stop, got %d", len(events))
	}
}
