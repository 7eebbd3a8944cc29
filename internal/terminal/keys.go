package terminal

import (
	"context"
	"io"
	"unicode/utf8"
)

// KeyCode identifies a non-character key.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyEscape
	KeyInterrupt // Ctrl+C, which raw mode delivers as a byte
)

// Key is one decoded key press.
type Key struct {
	Code KeyCode
	Rune rune // set when Code is KeyRune
}

// ParseKeys decodes raw terminal input into key presses.
//
// Arrow keys arrive as ESC [ A..D (or ESC O A..D in application mode).
// A lone ESC, or one followed by an unknown sequence, is reported as
// KeyEscape and the rest of the sequence is dropped.
func ParseKeys(data []byte) []Key {
	var keys []Key
	for len(data) > 0 {
		switch {
		case data[0] == 0x1b:
			if len(data) >= 3 && (data[1] == '[' || data[1] == 'O') {
				if code, ok := arrowCode(data[2]); ok {
					keys = append(keys, Key{Code: code})
					data = data[3:]
					continue
				}
			}
			keys = append(keys, Key{Code: KeyEscape})
			data = data[len(data):]
		case data[0] == 0x03:
			keys = append(keys, Key{Code: KeyInterrupt})
			data = data[1:]
		default:
			r, size := utf8.DecodeRune(data)
			keys = append(keys, Key{Code: KeyRune, Rune: r})
			data = data[size:]
		}
	}
	return keys
}

func arrowCode(b byte) (KeyCode, bool) {
	switch b {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return 0, false
}

// KeyReader turns a blocking input stream into a non-blocking key queue.
type KeyReader struct {
	in   io.Reader
	keys chan Key
}

// NewKeyReader creates a reader over in, buffering up to 64 keys.
func NewKeyReader(in io.Reader) *KeyReader {
	return &KeyReader{
		in:   in,
		keys: make(chan Key, 64),
	}
}

// Run reads and decodes input until ctx is done or input ends.
//
// A blocked Read cannot be interrupted, so reads happen on a helper
// goroutine that lives until the next read returns; Run itself returns as
// soon as ctx is done.
func (r *KeyReader) Run(ctx context.Context) error {
	chunks := make(chan []byte)
	errs := make(chan error, 1)

	go func() {
		buf := make([]byte, 64)
		for {
			n, err := r.in.Read(buf)
			if n > 0 {
				chunk := append([]byte(nil), buf[:n]...)
				select {
				case chunks <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				errs <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			if err == io.EOF {
				return nil
			}
			return err
		case chunk := <-chunks:
			for _, k := range ParseKeys(chunk) {
				select {
				case r.keys <- k:
				default: // drop keys nobody is reading
				}
			}
		}
	}
}

// Poll returns the next pending key without blocking.
func (r *KeyReader) Poll() (Key, bool) {
	select {
	case k := <-r.keys:
		return k, true
	default:
		return Key{}, false
	}
}
