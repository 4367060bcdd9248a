package midi

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/leandrodaf/midicodec/sdk/contracts"
	"github.com/leandrodaf/midicodec/sdk/message"
)

// ErrDataByteOutOfRange is returned in strict mode when a data byte has its top bit set.
var ErrDataByteOutOfRange = errors.New("data byte out of range")

// Reader decodes consecutive messages from a byte stream such as a serial
// port or a dump file. A Reader is not safe for concurrent use.
type Reader struct {
	src     *pushbackReader
	logger  contracts.Logger
	filter  *contracts.MIDIEventFilter
	resync  bool
	strict  bool
	skipped int
}

// pushbackReader hands back bytes that resync consumed but did not discard.
type pushbackReader struct {
	src    io.ByteReader
	unread []byte
}

func (p *pushbackReader) ReadByte() (byte, error) {
	if len(p.unread) > 0 {
		b := p.unread[0]
		p.unread = p.unread[1:]
		return b, nil
	}
	return p.src.ReadByte()
}

func (p *pushbackReader) unreadBytes(b ...byte) {
	p.unread = append(append([]byte(nil), b...), p.unread...)
}

// NewReader returns a Reader over r. When r does not implement io.ByteReader
// it is wrapped in a bufio.Reader.
func NewReader(r io.Reader, opts ...contracts.Option) (*Reader, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	src, ok := r.(io.ByteReader)
	if !ok {
		src = bufio.NewReader(r)
	}

	return &Reader{
		src:    &pushbackReader{src: src},
		logger: options.Logger,
		filter: options.MIDIEventFilter,
		resync: options.Resync,
		strict: options.StrictDataBytes,
	}, nil
}

// Next returns the next message that passes the filter. It returns io.EOF
// when the stream ends on a message boundary. Any other error leaves the
// stream position inside or after the failed message.
func (r *Reader) Next() (message.Message, error) {
	for {
		msg, err := message.Decode(r.src)
		if err != nil {
			if isBoundaryEOF(err) {
				return message.Message{}, io.EOF
			}
			if r.resync {
				handled, rerr := r.resynchronize(err)
				if handled && rerr == nil {
					continue
				}
				if handled {
					return message.Message{}, rerr
				}
			}
			r.logger.Debug("MIDI decode failed", r.logger.Field().Error("error", err))
			return message.Message{}, err
		}

		if r.strict {
			if i, err := checkDataBytes(msg); err != nil {
				if r.resync {
					// The high byte starts the next message; only what precedes it is dropped.
					r.skip(i, "dropping message interrupted by a status byte", err)
					r.src.unreadBytes(msg.Bytes()[i:]...)
					continue
				}
				return message.Message{}, err
			}
		}

		if !r.filter.Allows(msg.Status()) {
			continue
		}
		r.logger.Debug("MIDI message decoded", r.logger.Field().String("message", msg.String()))
		return msg, nil
	}
}

// Each calls fn for every message until the stream ends or fn fails.
func (r *Reader) Each(fn func(message.Message) error) error {
	for {
		msg, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(msg); err != nil {
			return err
		}
	}
}

// Skipped returns how many bytes resync has discarded so far.
func (r *Reader) Skipped() int { return r.skipped }

// resynchronize discards input after a decode error. It reports whether the
// error was handled and, if the stream ended while skipping, io.EOF.
func (r *Reader) resynchronize(err error) (bool, error) {
	var invalid *message.InvalidStatusError
	if errors.As(err, &invalid) {
		r.skip(1, "skipping byte that cannot start a message", err)
		return true, nil
	}

	var unsupported *message.UnsupportedFeatureError
	if errors.As(err, &unsupported) && unsupported.Status == message.StatusSysExStart {
		n, serr := r.skipSysEx()
		r.skip(n, "skipping system exclusive block", err)
		if errors.Is(serr, io.EOF) {
			return true, io.EOF
		}
		if serr != nil {
			return true, fmt.Errorf("skip sysex after %d bytes: %w", n, serr)
		}
		return true, nil
	}
	return false, nil
}

// skipSysEx consumes a system exclusive body. It stops after SysExEnd, or
// before any other non real-time status byte, which is pushed back.
func (r *Reader) skipSysEx() (int, error) {
	n := 1
	for {
		b, err := r.src.ReadByte()
		if err != nil {
			return n, err
		}
		switch {
		case b == byte(message.StatusSysExEnd):
			return n + 1, nil
		case b >= 0x80 && b < byte(message.StatusTimingClock):
			r.src.unreadBytes(b)
			return n, nil
		}
		n++
	}
}

func (r *Reader) skip(n int, reason string, cause error) {
	r.skipped += n
	r.logger.Warn(reason,
		r.logger.Field().Int("bytes", n),
		r.logger.Field().Error("error", cause))
}

// checkDataBytes returns the index of the first data byte with its top bit set.
func checkDataBytes(msg message.Message) (int, error) {
	for i := 1; i < msg.Len(); i++ {
		if b := msg.Data(i); b > 0x7F {
			return i, fmt.Errorf("%w: %s data byte %d is 0x%02X", ErrDataByteOutOfRange, msg.Status(), i, b)
		}
	}
	return 0, nil
}

// isBoundaryEOF reports an io.EOF hit while reading a status byte.
func isBoundaryEOF(err error) bool {
	var ioErr *message.IOError
	return errors.As(err, &ioErr) && ioErr.Offset == 0 && errors.Is(ioErr.Err, io.EOF)
}
