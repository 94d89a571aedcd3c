package base64

import (
	stdbase64 "encoding/base64"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Vectors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "", expected: ""},
		{input: "f", expected: "Zg=="},
		{input: "fo", expected: "Zm8="},
		{input: "foo", expected: "Zm9v"},
		{input: "foob", expected: "Zm9vYg=="},
		{input: "fooba", expected: "Zm9vYmE="},
		{input: "foobar", expected: "Zm9vYmFy"},
		{input: "hello", expected: "aGVsbG8="},
		{input: "\xff\xfe\xfd", expected: "//79"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got, err := Encode([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecode_Vectors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "", expected: ""},
		{input: "Zg==", expected: "f"},
		{input: "Zm8=", expected: "fo"},
		{input: "Zm9v", expected: "foo"},
		{input: "Zm9vYmFy", expected: "foobar"},
		{input: "aGVsbG8=", expected: "hello"},
		{input: "//79", expected: "\xff\xfe\xfd"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, []byte(tt.expected), got)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "short input", input: "QQ", want: ErrInvalidLength},
		{name: "five characters", input: "Zm9vY", want: ErrInvalidLength},
		{name: "second character is padding", input: "A===", want: ErrInvalidPadding},
		{name: "all padding", input: "====", want: ErrInvalidPadding},
		{name: "data after padding", input: "Zg=g", want: ErrInvalidPadding},
		{name: "padding in non-final group", input: "Zg==Zm9v", want: ErrInvalidPadding},
		{name: "single padding in non-final group", input: "Zm8=Zm9v", want: ErrInvalidPadding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, got)
		})
	}
}

func TestDecode_InvalidCharacter(t *testing.T) {
	_, err := Decode("Zg!=")
	require.Error(t, err)
	require.True(t, IsInvalidCharacterError(err))

	var charErr *InvalidCharacterError
	require.ErrorAs(t, err, &charErr)
	assert.Equal(t, byte('!'), charErr.Char)
	assert.Equal(t, 2, charErr.Offset)

	// URL-safe alphabet is not accepted
	_, err = Decode("-_==")
	assert.True(t, IsInvalidCharacterError(err))
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(52))

	for size := 0; size < 300; size++ {
		data := make([]byte, size)
		rng.Read(data)

		encoded, err := Encode(data)
		require.NoError(t, err)
		assert.Equal(t, stdbase64.StdEncoding.EncodeToString(data), encoded, "size %d", size)

		decoded, err := Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, data, decoded, "size %d", size)
	}
}

func TestAppendEncode_KeepsPrefix(t *testing.T) {
	out, err := AppendEncode([]byte("\x1b]52;;"), []byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, "\x1b]52;;aGk=", string(out))
}

func TestEncodedLen(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 4, 5, 6, 1000} {
		got, err := EncodedLen(n)
		require.NoError(t, err)
		assert.Equal(t, stdbase64.StdEncoding.EncodedLen(n), got, "n=%d", n)
	}

	_, err := EncodedLen(math.MaxInt)
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = EncodedLen(math.MaxInt - 2)
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = EncodedLen(-1)
	assert.ErrorIs(t, err, ErrInputTooLarge)
}
