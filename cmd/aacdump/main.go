// Command aacdump decodes a raw ADTS AAC-LC file to a WAV file, exercising
// the decoder package end to end without needing an audio playback stack.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/cobra"

	aac "github.com/llehouerou/go-aac"
	// Registers the real filter bank factory; aac.Decode would otherwise
	// have nothing to lazily construct on its first frame.
	_ "github.com/llehouerou/go-aac/internal/filterbank"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})

	root := &cobra.Command{
		Use:   "aacdump <input.aac> <output.wav>",
		Short: "Decode an ADTS AAC-LC file to a WAV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dump(logger, args[0], args[1])
		},
	}

	if err := root.Execute(); err != nil {
		logger.Fatal("aacdump failed", "err", err)
	}
}

func dump(logger *log.Logger, inPath, outPath string) error {
	in, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	dec := aac.NewDecoder()
	dec.SetConfiguration(aac.Config{
		DefObjectType: aac.ObjectTypeLC,
		DefSampleRate: 44100,
		OutputFormat:  aac.OutputFormat16Bit,
	})

	sampleRate, channels, err := dec.SimpleInit(in)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if channels == 0 {
		channels = 1
	}
	logger.Info("stream opened", "sample_rate", sampleRate, "channels", channels)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	enc := wav.NewEncoder(out, int(sampleRate), 16, int(channels), 1)
	defer enc.Close()

	buffer := in
	frames := 0
	for len(buffer) > 0 {
		samples, info, err := dec.Decode(buffer)
		if err != nil {
			logger.Warn("decode error, stopping", "err", err, "frame", frames)
			break
		}
		if info.BytesConsumed == 0 {
			break
		}
		buffer = buffer[info.BytesConsumed:]
		frames++

		pcm, ok := samples.([]int16)
		if !ok || len(pcm) == 0 {
			continue
		}
		ints := make([]int, len(pcm))
		for i, v := range pcm {
			ints[i] = int(v)
		}
		if err := enc.Write(&audio.IntBuffer{
			Format:         &audio.Format{SampleRate: int(sampleRate), NumChannels: int(channels)},
			Data:           ints,
			SourceBitDepth: 16,
		}); err != nil {
			return fmt.Errorf("write wav: %w", err)
		}
	}

	logger.Info("decode complete", "frames", frames)
	return nil
}
