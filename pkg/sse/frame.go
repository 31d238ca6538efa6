package sse

import "strings"

// SplitFrames splits buf on FrameSeparator. It returns every complete frame,
// in order, and the unterminated remainder which the caller must keep and
// prepend to the next read.
//
// Frames that are empty or whitespace-only (keep-alives, stray newlines) are
// consumed and dropped. Calling SplitFrames on rest+more yields the same
// frames as splitting the concatenated input in one go.
func SplitFrames(buf string) ([]string, string) {
	var frames []string

	for {
		idx := strings.Index(buf, FrameSeparator)
		if idx < 0 {
			break
		}

		frame := buf[:idx]
		buf = buf[idx+len(FrameSeparator):]

		if strings.TrimSpace(frame) == "" {
			continue
		}

		frames = append(frames, frame)
	}

	return frames, buf
}

// Buffer accumulates decoded stream text and hands out complete frames.
// Every byte written is either returned inside a frame or retained as the
// pending tail. The zero value is ready to use.
type Buffer struct {
	pending strings.Builder
}

// WriteString appends text to the pending tail.
func (b *Buffer) WriteString(s string) {
	b.pending.WriteString(s)
}

// Frames returns all frames completed so far and keeps the remainder.
func (b *Buffer) Frames() []string {
	if b.pending.Len() == 0 {
		return nil
	}

	frames, rest := SplitFrames(b.pending.String())

	b.pending.Reset()
	b.pending.WriteString(rest)

	return frames
}

// Flush treats the pending tail as a final frame. It is used once the
// source is exhausted, when a trailing frame may be missing its separator.
// The buffer is empty afterwards.
func (b *Buffer) Flush() []string {
	frames := b.Frames()

	tail := b.pending.String()
	b.pending.Reset()

	if strings.TrimSpace(tail) != "" {
		frames = append(frames, tail)
	}

	return frames
}

// Len returns the number of bytes waiting for a separator.
func (b *Buffer) Len() int {
	return b.pending.Len()
}
