package app

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/leandrodaf/midicodec/sdk/message"
	"github.com/urfave/cli/v2"
)

// builder describes how to turn command line values into a message.
type builder struct {
	args  []string // names of the positional values, for usage and errors
	max   int      // largest accepted value
	voice bool     // whether --channel applies
	build func(channel uint8, v []int) message.Message
}

var builders = map[string]builder{
	"note-on": {args: []string{"note", "velocity"}, max: 127, voice: true, build: func(ch uint8, v []int) message.Message {
		return message.NoteOn(uint8(v[0]), uint8(v[1]), ch)
	}},
	"note-off": {args: []string{"note", "velocity"}, max: 127, voice: true, build: func(ch uint8, v []int) message.Message {
		return message.NoteOff(uint8(v[0]), uint8(v[1]), ch)
	}},
	"poly-aftertouch": {args: []string{"note", "pressure"}, max: 127, voice: true, build: func(ch uint8, v []int) message.Message {
		return message.PolyphonicAftertouch(uint8(v[0]), uint8(v[1]), ch)
	}},
	"control-change": {args: []string{"controller", "value"}, max: 127, voice: true, build: func(ch uint8, v []int) message.Message {
		return message.ControlChange(uint8(v[0]), uint8(v[1]), ch)
	}},
	"program-change": {args: []string{"program"}, max: 127, voice: true, build: func(ch uint8, v []int) message.Message {
		return message.ProgramChange(uint8(v[0]), ch)
	}},
	"channel-aftertouch": {args: []string{"pressure"}, max: 127, voice: true, build: func(ch uint8, v []int) message.Message {
		return message.ChannelAftertouch(uint8(v[0]), ch)
	}},
	"pitch-bend": {args: []string{"value"}, max: 0x3FFF, voice: true, build: func(ch uint8, v []int) message.Message {
		return message.PitchBendValue(uint16(v[0]), ch)
	}},
	"mtc-quarter-frame": {args: []string{"data"}, max: 127, build: func(_ uint8, v []int) message.Message {
		return message.TimeCodeQuarterFrame(uint8(v[0]))
	}},
	"song-position": {args: []string{"beats"}, max: 0x3FFF, build: func(_ uint8, v []int) message.Message {
		return message.SongPosition(uint16(v[0]))
	}},
	"song-select": {args: []string{"song"}, max: 127, build: func(_ uint8, v []int) message.Message {
		return message.SongSelect(uint8(v[0]))
	}},
	"tune-request":   {build: func(uint8, []int) message.Message { return message.TuneRequest() }},
	"timing-clock":   {build: func(uint8, []int) message.Message { return message.TimingClock() }},
	"start":          {build: func(uint8, []int) message.Message { return message.Start() }},
	"continue":       {build: func(uint8, []int) message.Message { return message.Continue() }},
	"stop":           {build: func(uint8, []int) message.Message { return message.Stop() }},
	"active-sensing": {build: func(uint8, []int) message.Message { return message.ActiveSensing() }},
	"system-reset":   {build: func(uint8, []int) message.Message { return message.SystemReset() }},
}

func builderNames() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func encodeCmd(st *state) *cli.Command {
	var (
		channel int
		raw     bool
	)
	return &cli.Command{
		Name:      "encode",
		Usage:     "Builds a single message and prints its bytes",
		ArgsUsage: "KIND [VALUES...] (flags go before KIND; kinds: " + strings.Join(builderNames(), ", ") + ")",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "channel", Aliases: []string{"c"}, Usage: "Channel 0-15 for voice messages", Destination: &channel},
			&cli.BoolFlag{Name: "raw", Usage: "Write raw bytes instead of hex", Destination: &raw},
		},
		Action: func(ctx *cli.Context) error {
			m, err := encode(ctx.Args().First(), ctx.Args().Tail(), channel)
			if err != nil {
				return err
			}
			st.logger.Debug("encoded message", st.logger.Field().String("message", m.String()))
			if raw {
				_, err = m.WriteTo(ctx.App.Writer)
				return err
			}
			_, err = fmt.Fprintf(ctx.App.Writer, "% X\n", m.Bytes())
			return err
		},
	}
}

func encode(kind string, args []string, channel int) (message.Message, error) {
	b, ok := builders[strings.ToLower(kind)]
	if !ok {
		return message.Message{}, fmt.Errorf("unknown message kind %q", kind)
	}
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return message.Message{}, fmt.Errorf("flag %s after %s: flags must come before the message kind", arg, kind)
		}
	}
	if len(args) != len(b.args) {
		return message.Message{}, fmt.Errorf("%s expects %d values (%s), got %d", kind, len(b.args), strings.Join(b.args, ", "), len(args))
	}
	if b.voice && (channel < 0 || channel > 15) {
		return message.Message{}, fmt.Errorf("channel %d out of range 0-15", channel)
	}

	values := make([]int, len(args))
	for i, arg := range args {
		v, err := strconv.ParseInt(arg, 0, 32)
		if err != nil {
			return message.Message{}, fmt.Errorf("parse %s: %w", b.args[i], err)
		}
		if v < 0 || int(v) > b.max {
			return message.Message{}, fmt.Errorf("%s %d out of range 0-%d", b.args[i], v, b.max)
		}
		values[i] = int(v)
	}
	return b.build(uint8(channel), values), nil
}
