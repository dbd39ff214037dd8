// Package input turns raw terminal bytes into per-frame key actions.
package input

import (
	"bufio"
)

// Input represents the current frame's input state.
// Counters hold the number of presses seen since the previous frame.
type Input struct {
	Quit   bool
	Pause  int
	Add    int
	Remove int
	Closed bool // The reader hit EOF or an error.
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	return Parse(buf, s.closed)
}

// Parse builds the frame input from the collected bytes.
func Parse(buf []byte, closed bool) Input {
	in := Input{Closed: closed}
	if closed {
		in.Quit = true
	}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// Skip CSI sequences (arrow keys and the like).
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			i += 2
			continue
		}
		applyByte(&in, b)
	}
	return in
}

// applyByte updates the input for a single pressed byte.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case ' ', 'p', 'P':
		in.Pause++
	case '+', '=', '\n', '\r':
		in.Add++
	case '-', '_', '\b', '\x7f':
		in.Remove++
	}
}
