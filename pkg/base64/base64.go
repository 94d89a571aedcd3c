// Package base64 implements the standard padded base64 alphabet used to carry
// clipboard bytes inside OSC 52 escape sequences.
//
// The codec is strict: decoding rejects unpadded input, characters outside
// the alphabet and padding anywhere but the tail of the final group.
package base64

import (
	"errors"
	"fmt"
	"math"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const padChar = '='

var (
	// ErrInvalidLength is returned when the encoded input is not a multiple of 4 characters.
	ErrInvalidLength = errors.New("base64: input length must be a multiple of 4")

	// ErrInvalidPadding is returned when '=' appears where real data is required.
	ErrInvalidPadding = errors.New("base64: invalid padding")

	// ErrInputTooLarge is returned when the encoded length does not fit in an int.
	ErrInputTooLarge = errors.New("base64: input too large to encode")
)

// InvalidCharacterError reports a byte outside the alphabet and padding marker.
type InvalidCharacterError struct {
	Char   byte
	Offset int
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("base64: invalid character %q at offset %d", e.Char, e.Offset)
}

// IsInvalidCharacterError checks if an error is an InvalidCharacterError
func IsInvalidCharacterError(err error) bool {
	var e *InvalidCharacterError
	return errors.As(err, &e)
}

// EncodedLen returns the length of the encoding of n input bytes.
func EncodedLen(n int) (int, error) {
	if n < 0 || n > math.MaxInt-2 {
		return 0, ErrInputTooLarge
	}
	groups := (n + 2) / 3
	if groups > math.MaxInt/4 {
		return 0, ErrInputTooLarge
	}
	return groups * 4, nil
}

// Encode returns the padded base64 encoding of src.
func Encode(src []byte) (string, error) {
	dst, err := AppendEncode(nil, src)
	if err != nil {
		return "", err
	}
	return string(dst), nil
}

// AppendEncode appends the encoding of src to dst and returns the extended slice.
func AppendEncode(dst, src []byte) ([]byte, error) {
	n, err := EncodedLen(len(src))
	if err != nil {
		return dst, err
	}
	if n > math.MaxInt-len(dst) {
		return dst, ErrInputTooLarge
	}

	out := make([]byte, len(dst), len(dst)+n)
	copy(out, dst)

	for i := 0; i < len(src); i += 3 {
		var b1, b2 byte
		remaining := len(src) - i
		if remaining > 1 {
			b1 = src[i+1]
		}
		if remaining > 2 {
			b2 = src[i+2]
		}

		triple := uint32(src[i])<<16 | uint32(b1)<<8 | uint32(b2)

		out = append(out,
			alphabet[triple>>18&0x3F],
			alphabet[triple>>12&0x3F],
		)

		switch {
		case remaining >= 3:
			out = append(out, alphabet[triple>>6&0x3F], alphabet[triple&0x3F])
		case remaining == 2:
			out = append(out, alphabet[triple>>6&0x3F], padChar)
		default:
			out = append(out, padChar, padChar)
		}
	}

	return out, nil
}

// sextet maps an encoded character to its 6-bit value. The second result is
// false for the padding marker.
func sextet(c byte, offset int) (byte, bool, error) {
	switch {
	case c >= 'A' && c <= 'Z':
		return c - 'A', true, nil
	case c >= 'a' && c <= 'z':
		return c - 'a' + 26, true, nil
	case c >= '0' && c <= '9':
		return c - '0' + 52, true, nil
	case c == '+':
		return 62, true, nil
	case c == '/':
		return 63, true, nil
	case c == padChar:
		return 0, false, nil
	default:
		return 0, false, &InvalidCharacterError{Char: c, Offset: offset}
	}
}

// Decode returns the bytes represented by the padded base64 string s.
func Decode(s string) ([]byte, error) {
	if len(s)%4 != 0 {
		return nil, ErrInvalidLength
	}

	out := make([]byte, 0, len(s)/4*3)
	last := len(s) - 4

	for i := 0; i < len(s); i += 4 {
		var (
			v   [4]byte
			has [4]bool
		)
		for j := 0; j < 4; j++ {
			var err error
			v[j], has[j], err = sextet(s[i+j], i+j)
			if err != nil {
				return nil, err
			}
		}

		if !has[0] || !has[1] {
			return nil, ErrInvalidPadding
		}
		out = append(out, v[0]<<2|v[1]>>4)

		switch {
		case has[2] && has[3]:
			out = append(out, v[1]<<4|v[2]>>2, v[2]<<6|v[3])
		case has[2] && !has[3]:
			if i != last {
				return nil, ErrInvalidPadding
			}
			out = append(out, v[1]<<4|v[2]>>2)
		case !has[2] && !has[3]:
			if i != last {
				return nil, ErrInvalidPadding
			}
		default:
			// "=X": a data character after padding
			return nil, ErrInvalidPadding
		}
	}

	return out, nil
}
