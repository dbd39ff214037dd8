// Package draw renders objects onto terminal and raster surfaces.
package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// maxChunkSize caps single writes to the terminal. It stays under a typical
// 1500-byte MTU so frames stream smoothly over SSH.
const maxChunkSize = 1400

// Escape sequences for screen control.
const (
	seqClearScreen = "\033[H\033[2J"
	seqHideCursor  = "\033[?25l"
	seqShowCursor  = "\033[?25h"
)

// ChunkWriter collects one frame of terminal output and sends it in
// MTU-sized chunks on Flush, so a frame reaches the client in one burst.
type ChunkWriter struct {
	buf  strings.Builder
	bufw *bufio.Writer
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{bufw: bufio.NewWriterSize(w, 8192)}
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteAt writes s starting at the 1-based cell (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	writeCursor(&cw.buf, col, row)
	cw.buf.WriteString(s)
}

// Flush sends the collected frame and resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	if err := writeChunked(cw.bufw, data); err != nil {
		return err
	}
	return cw.bufw.Flush()
}

// Ensure ChunkWriter satisfies io.Writer.
var _ io.Writer = (*ChunkWriter)(nil)

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	_, _ = io.WriteString(w, seqClearScreen)
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	_, _ = io.WriteString(w, seqHideCursor)
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	_, _ = io.WriteString(w, seqShowCursor)
}

// writeCursor appends a 1-based cursor position sequence.
func writeCursor(b *strings.Builder, col, row int) {
	var num [20]byte
	b.WriteString("\033[")
	b.Write(strconv.AppendInt(num[:0], int64(row), 10))
	b.WriteByte(';')
	b.Write(strconv.AppendInt(num[:0], int64(col), 10))
	b.WriteByte('H')
}

func writeChunked(w io.Writer, data string) error {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := io.WriteString(w, data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
