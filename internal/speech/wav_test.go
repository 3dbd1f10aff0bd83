package speech

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestWAV writes a sine tone as a 16-bit PCM WAV file.
func writeTestWAV(t *testing.T, path string, rate, channels int, seconds float64) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	frames := int(float64(rate) * seconds)
	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		sample := int(math.Sin(2*math.Pi*440*float64(i)/float64(rate)) * 16000)
		for c := 0; c < channels; c++ {
			data[i*channels+c] = sample
		}
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

func TestDecodeWAV_MonoAtTargetRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTestWAV(t, path, sampleRate, 1, 0.5)

	samples, err := decodeWAV(path)
	require.NoError(t, err)

	assert.InDelta(t, sampleRate/2, len(samples), 2)
	for _, s := range samples {
		assert.LessOrEqual(t, float64(s), 1.0)
		assert.GreaterOrEqual(t, float64(s), -1.0)
	}
}

func TestDecodeWAV_DownmixesStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeTestWAV(t, path, sampleRate, 2, 0.25)

	samples, err := decodeWAV(path)
	require.NoError(t, err)
	assert.InDelta(t, sampleRate/4, len(samples), 2)
}

func TestDecodeWAV_Resamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hifi.wav")
	writeTestWAV(t, path, 44100, 1, 0.5)

	samples, err := decodeWAV(path)
	require.NoError(t, err)

	// 0.5s of audio at any input rate becomes ~0.5s at 16 kHz.
	assert.InDelta(t, sampleRate/2, len(samples), 10)
}

func TestDecodeWAV_MissingFile(t *testing.T) {
	_, err := decodeWAV(filepath.Join(t.TempDir(), "nope.wav"))
	require.ErrorIs(t, err, ErrInvalidAudio)
}

func TestDecodeWAV_NotAWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	require.NoError(t, os.WriteFile(path, []byte("not audio at all"), 0o644))

	_, err := decodeWAV(path)
	require.ErrorIs(t, err, ErrInvalidAudio)
}

func TestResample(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		in := []float32{0.1, 0.2, 0.3}
		assert.Equal(t, in, resample(in, 16000, 16000))
	})

	t.Run("halves length", func(t *testing.T) {
		in := make([]float32, 1000)
		out := resample(in, 32000, 16000)
		assert.InDelta(t, 500, len(out), 1)
	})

	t.Run("doubles length", func(t *testing.T) {
		in := make([]float32, 500)
		out := resample(in, 8000, 16000)
		assert.InDelta(t, 1000, len(out), 1)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, resample(nil, 44100, 16000))
	})
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, "base", cfg.Model)
	assert.Equal(t, "auto", cfg.Language)
}
