package speech

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// decodeWAV reads a RIFF/WAV file and returns mono float32 samples at
// the whisper sample rate. Multi-channel audio is downmixed and other
// sample rates are resampled.
func decodeWAV(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid WAV file", ErrInvalidAudio, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrInvalidAudio, path, err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return []float32{}, nil
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%w: %s reports %d channels", ErrInvalidAudio, path, channels)
	}

	bitDepth := dec.BitDepth
	if bitDepth == 0 || bitDepth > 32 {
		bitDepth = 16
	}

	// Normalize to [-1, 1] and downmix interleaved channels.
	scale := float32(int64(1) << (bitDepth - 1))
	frames := len(buf.Data) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += float32(buf.Data[i*channels+c]) / scale
		}
		mono[i] = sum / float32(channels)
	}

	return resample(mono, buf.Format.SampleRate, sampleRate), nil
}

// resample converts samples from one rate to another by linear
// interpolation. Good enough for speech input; whisper is tolerant of
// interpolation artifacts.
func resample(samples []float32, from, to int) []float32 {
	if from == to || len(samples) == 0 {
		return samples
	}

	ratio := float64(from) / float64(to)
	outLen := int(float64(len(samples)) / ratio)
	if outLen == 0 {
		return []float32{}
	}

	out := make([]float32, outLen)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := float32(pos - float64(idx))
		out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
	}
	return out
}
