package app

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leandrodaf/midicodec/sdk/contracts"
	"github.com/leandrodaf/midicodec/sdk/message"
	"github.com/leandrodaf/midicodec/sdk/midi"
	"github.com/urfave/cli/v2"
)

const (
	formatText = "text"
	formatHex  = "hex"
)

func decodeCmd(st *state) *cli.Command {
	var (
		input  = "-"
		hexArg string
		format string
		resync bool
		strict bool
		filter cli.StringSlice
	)
	return &cli.Command{
		Name:  "decode",
		Usage: "Decodes a raw MIDI byte stream and prints one message per line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "File to read, - for stdin", Destination: &input, Value: input},
			&cli.StringFlag{Name: "hex", Aliases: []string{"x"}, Usage: "Hex bytes to decode instead of reading input, e.g. \"90 3C 64\"", Destination: &hexArg},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output format: text or hex", Destination: &format},
			&cli.BoolFlag{Name: "resync", Usage: "Skip bytes that cannot be decoded instead of stopping", Destination: &resync},
			&cli.BoolFlag{Name: "strict", Usage: "Reject data bytes above 0x7F", Destination: &strict},
			&cli.StringSliceFlag{Name: "filter", Usage: "Only print these statuses, e.g. note-on", Destination: &filter},
		},
		Action: func(ctx *cli.Context) error {
			src, closeFn, err := openSource(ctx, input, hexArg)
			if err != nil {
				return err
			}
			defer closeFn()

			if !ctx.IsSet("format") {
				format = st.cfg.Format
			}
			names := filter.Value()
			if !ctx.IsSet("filter") {
				names = st.cfg.Filter
			}

			opts := []contracts.Option{
				contracts.WithLogger(st.logger),
				contracts.WithResync(resync || st.cfg.Resync),
				contracts.WithStrictDataBytes(strict || st.cfg.Strict),
			}
			if len(names) > 0 {
				statuses, err := parseStatuses(names)
				if err != nil {
					return err
				}
				opts = append(opts, contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{Statuses: statuses}))
			}

			reader, err := midi.NewReader(src, opts...)
			if err != nil {
				return err
			}

			count := 0
			err = reader.Each(func(m message.Message) error {
				count++
				_, err := fmt.Fprintln(ctx.App.Writer, formatMessage(m, format))
				return err
			})
			st.logger.Debug("decode finished",
				st.logger.Field().Int("messages", count),
				st.logger.Field().Int("skipped", reader.Skipped()))
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			return nil
		},
	}
}

func openSource(ctx *cli.Context, input, hexArg string) (io.Reader, func(), error) {
	noop := func() {}
	if hexArg != "" {
		raw, err := parseHex(hexArg)
		if err != nil {
			return nil, noop, err
		}
		return bytes.NewReader(raw), noop, nil
	}
	if input == "-" {
		return ctx.App.Reader, noop, nil
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, noop, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// parseHex accepts bytes separated by spaces or commas, with or without a 0x
// prefix, as well as unseparated runs such as "903C64".
func parseHex(s string) ([]byte, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	var out []byte
	for _, f := range fields {
		f = strings.TrimPrefix(strings.TrimPrefix(f, "0x"), "0X")
		if len(f)%2 == 1 {
			f = "0" + f
		}
		b, err := hex.DecodeString(f)
		if err != nil {
			return nil, fmt.Errorf("parse hex %q: %w", f, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

func parseStatuses(names []string) ([]message.Status, error) {
	out := make([]message.Status, 0, len(names))
	for _, name := range names {
		s, err := message.ParseStatus(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func formatMessage(m message.Message, format string) string {
	if format == formatHex {
		return fmt.Sprintf("% X", m.Bytes())
	}
	return m.String()
}
