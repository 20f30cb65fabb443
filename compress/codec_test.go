package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vicar/format"
)

func sampleFile() []byte {
	label := []byte("LBLSIZE=00000128  FORMAT='BYTE'  TYPE='IMAGE'  ORG='BSQ'  NL=16  NS=16  NB=1")
	data := append(label, bytes.Repeat([]byte{' '}, 128-len(label))...)
	for i := range 256 {
		data = append(data, byte(i/16))
	}

	return data
}

func TestCodecRoundTrip(t *testing.T) {
	data := sampleFile()

	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
		format.CompressionGzip,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)
			require.Equal(t, ct, Detect(compressed))

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, restored)

			auto, detected, err := Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, ct, detected)
			require.Equal(t, data, auto)
		})
	}
}

func TestCodecEmptyInput(t *testing.T) {
	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4, format.CompressionGzip} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		out, err := codec.Decompress(nil)
		require.NoError(t, err)
		require.Empty(t, out)
	}
}

func TestCodecCorruptInput(t *testing.T) {
	data := sampleFile()

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4, format.CompressionGzip} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			_, err = codec.Decompress(compressed[:len(compressed)/2])
			require.Error(t, err)
		})
	}
}

func TestDetect(t *testing.T) {
	require.Equal(t, format.CompressionNone, Detect(sampleFile()))
	require.Equal(t, format.CompressionNone, Detect(nil))
	require.Equal(t, format.CompressionGzip, Detect([]byte{0x1F, 0x8B, 0x08}))
	require.Equal(t, format.CompressionZstd, Detect([]byte{0x28, 0xB5, 0x2F, 0xFD, 0x00}))
	require.Equal(t, format.CompressionLZ4, Detect([]byte{0x04, 0x22, 0x4D, 0x18}))
	require.Equal(t, format.CompressionNone, Detect([]byte{0x28, 0xB5}))
}

func TestGetCodecUnknown(t *testing.T) {
	_, err := GetCodec(format.CompressionType(99))
	require.Error(t, err)
}

func TestMeasure(t *testing.T) {
	data := bytes.Repeat(sampleFile(), 8)

	out, stats, err := Measure(format.CompressionZstd, data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, stats.Algorithm)
	require.Equal(t, int64(len(data)), stats.OriginalSize)
	require.Equal(t, int64(len(out)), stats.CompressedSize)
	require.Less(t, stats.CompressionRatio(), 1.0)
	require.Greater(t, stats.SpaceSavings(), 0.0)

	require.Zero(t, CompressionStats{}.CompressionRatio())

	_, _, err = Measure(format.CompressionType(99), data)
	require.Error(t, err)
}
