package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/leandrodaf/midicodec/internal/logger"
	"github.com/leandrodaf/midicodec/sdk/contracts"
	"github.com/leandrodaf/midicodec/sdk/message"
	"github.com/leandrodaf/midicodec/sdk/midi"
)

func main() {
	log := logger.NewDevelopmentLogger()

	client, err := midi.NewMIDIClient(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Statuses: []message.Status{message.StatusNoteOn, message.StatusNoteOff, message.StatusControlChange},
		}),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI client", log.Field().Error("error", err))
		return
	}

	devices, err := client.ListDevices()
	if err != nil || len(devices) == 0 {
		log.Error("No MIDI devices found or error listing devices", log.Field().Error("error", err))
		return
	}
	for _, d := range devices {
		fmt.Println("Available MIDI device:", d)
	}

	if err = client.SelectDevice(devices[0].ID); err != nil {
		log.Error("Failed to select MIDI device", log.Field().Error("error", err))
		return
	}

	eventChannel := make(chan contracts.Event, 100)
	go func() {
		for event := range eventChannel {
			m := event.Message
			fields := []contracts.Field{
				log.Field().Uint64("timestamp", event.Timestamp),
				log.Field().String("status", m.Status().String()),
				log.Field().Uint8("channel", m.Channel()),
			}
			for i := 1; i < m.Len(); i++ {
				fields = append(fields, log.Field().Uint8(fmt.Sprintf("data%d", i), m.Data(i)))
			}
			log.Info("MIDI Event", fields...)
		}
	}()

	client.StartCapture(eventChannel)
	defer client.Stop()

	fmt.Println("Capturing MIDI events... Press Ctrl+C to exit.")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
}
