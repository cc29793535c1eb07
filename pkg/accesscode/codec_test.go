package accesscode

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_Encode_WireFormat(t *testing.T) {
	// Arrange
	codec := New("")
	issuedAt := time.Date(2025, time.March, 7, 9, 5, 0, 0, time.UTC)

	// Act
	code := codec.Encode(42, 7, issuedAt)

	// Assert: формат base64("{testId}-{respondentId}-{DDMMYYHHmm}") побайтово
	raw, err := base64.StdEncoding.DecodeString(code)
	require.NoError(t, err)
	assert.Equal(t, "42-7-0703250905", string(raw))
}

func TestCodec_Encode_ZeroPadsSingleDigitFields(t *testing.T) {
	// Однозначные день/месяц/час/минута должны дополняться нулями,
	// иначе декодирование по фиксированным смещениям неоднозначно
	codec := New("")
	issuedAt := time.Date(2026, time.January, 1, 1, 1, 0, 0, time.UTC)

	decoded := codec.Decode(codec.Encode(1, 2, issuedAt))

	require.True(t, decoded.Valid())
	assert.Equal(t, "0101260101", decoded.IssuedAt)
	assert.Equal(t, "2026-01-01 01:01", decoded.DisplayTime())
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := New("")

	testCases := []struct {
		name         string
		testID       uint
		respondentID uint
		issuedAt     time.Time
	}{
		{"малые идентификаторы", 1, 1, time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)},
		{"большие идентификаторы", 99999, 123456, time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC)},
		{"секунды отбрасываются", 3, 4, time.Date(2025, 2, 10, 8, 45, 59, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decoded := codec.Decode(codec.Encode(tc.testID, tc.respondentID, tc.issuedAt))

			require.True(t, decoded.Valid())
			assert.Equal(t, int(tc.testID), decoded.TestID)
			assert.Equal(t, int(tc.respondentID), decoded.RespondentID)
			assert.Equal(t, FormatCompact(tc.issuedAt), decoded.IssuedAt)
		})
	}
}

func TestCodec_Decode_MalformedInputReturnsSentinel(t *testing.T) {
	// Decode тотален: любой мусор дает сентинел {-1, -1, ""}, без паник
	codec := New("")

	malformed := []struct {
		name string
		code string
	}{
		{"не base64", "not-base64!!"},
		{"пустая строка", ""},
		{"меньше трех полей", base64.StdEncoding.EncodeToString([]byte("1-0703250905"))},
		{"больше трех полей", base64.StdEncoding.EncodeToString([]byte("1-2-3-0703250905"))},
		{"нечисловой testId", base64.StdEncoding.EncodeToString([]byte("x-2-0703250905"))},
		{"нечисловой respondentId", base64.StdEncoding.EncodeToString([]byte("1-y-0703250905"))},
		{"короткая метка времени", base64.StdEncoding.EncodeToString([]byte("1-2-070325"))},
		{"нечисловая метка времени", base64.StdEncoding.EncodeToString([]byte("1-2-07032509ab"))},
		{"отрицательный testId", base64.StdEncoding.EncodeToString([]byte("-1-2-0703250905"))},
	}

	for _, tc := range malformed {
		t.Run(tc.name, func(t *testing.T) {
			decoded := codec.Decode(tc.code)

			assert.False(t, decoded.Valid())
			assert.Equal(t, SentinelID, decoded.TestID)
			assert.Equal(t, SentinelID, decoded.RespondentID)
			assert.Equal(t, "", decoded.IssuedAt)
		})
	}
}

func TestCodec_Decode_ZeroIDsAreNotValid(t *testing.T) {
	codec := New("")

	decoded := codec.Decode(base64.StdEncoding.EncodeToString([]byte("0-5-0703250905")))

	// Декодируется, но сессию по таким идентификаторам строить нельзя
	assert.False(t, decoded.Valid())
	assert.Equal(t, 0, decoded.TestID)
}

func TestCodec_SignedMode(t *testing.T) {
	signed := New("server-held-secret")
	issuedAt := time.Date(2025, 7, 3, 9, 5, 0, 0, time.UTC)

	code := signed.Encode(42, 7, issuedAt)
	require.Contains(t, code, ".", "подписанный код должен содержать тег")

	t.Run("валидный тег принимается", func(t *testing.T) {
		decoded := signed.Decode(code)
		require.True(t, decoded.Valid())
		assert.Equal(t, 42, decoded.TestID)
	})

	t.Run("подделанный тег отклоняется", func(t *testing.T) {
		decoded := signed.Decode(code[:len(code)-2] + "xx")
		assert.False(t, decoded.Valid())
	})

	t.Run("тег с чужим ключом отклоняется", func(t *testing.T) {
		other := New("another-secret")
		decoded := other.Decode(code)
		assert.False(t, decoded.Valid())
	})

	t.Run("старый неподписанный код принимается", func(t *testing.T) {
		legacy := New("").Encode(42, 7, issuedAt)
		decoded := signed.Decode(legacy)
		require.True(t, decoded.Valid())
		assert.Equal(t, 42, decoded.TestID)
	})
}

func TestCodec_DisplayTime_InvalidTimestamp(t *testing.T) {
	assert.Equal(t, "", Decoded{TestID: -1, RespondentID: -1}.DisplayTime())
}
