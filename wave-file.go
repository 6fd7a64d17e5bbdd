package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Gemini TTS returns mono 16-bit little-endian PCM at 24 kHz
const (
	waveSampleRate = 24000
	waveBitDepth   = 16
	waveChannels   = 1
	wavePCMFormat  = 1
	waveBlockAlign = waveChannels * waveBitDepth / 8
)

// writeWave stores raw PCM frames in a WAV container at path
func writeWave(path string, pcm []byte) error {
	if len(pcm)%waveBlockAlign != 0 {
		return fmt.Errorf("pcm payload of %d bytes is not frame aligned", len(pcm))
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	enc := wav.NewEncoder(out, waveSampleRate, waveBitDepth, waveChannels, wavePCMFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: waveChannels, SampleRate: waveSampleRate},
		Data:           samplesFromPCM(pcm),
		SourceBitDepth: waveBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write audio frames: %w", err)
	}
	// Close patches the chunk sizes in the header but leaves the file open
	if err := enc.Close(); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("failed to finalize wav header: %w", err)
	}
	return out.Close()
}

func samplesFromPCM(pcm []byte) []int {
	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	}
	return samples
}

// pcmDuration is the playback length of n bytes of 24 kHz mono 16-bit audio
func pcmDuration(n int) time.Duration {
	frames := n / waveBlockAlign
	return time.Duration(frames) * time.Second / waveSampleRate
}
