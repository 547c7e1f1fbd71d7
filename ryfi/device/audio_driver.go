package device

/*------------------------------------------------------------------
 *
 * Purpose:	Sound-card backed Driver, per the DOMAIN STACK's
 *		gordonklaus/portaudio entry.
 *
 * Description:	Adapts the teacher's audio.go (an ALSA/OSS/sndio cgo
 *		sound-card interface: open an input and output stream,
 *		read/write interleaved frames) into a portaudio-backed
 *		Driver. portaudio already abstracts the OS-specific
 *		backends audio.go hand-rolled per platform, so AudioDriver
 *		keeps audio.go's shape -- one stream handle per direction,
 *		opened against a named device, read/written in fixed-size
 *		blocks -- without re-deriving the ALSA/OSS branching.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// audioFramesPerBuffer matches the teacher's fixed block-read/write
// granularity; neither RX nor TX blocks for longer than this many
// frames' worth of audio.
const audioFramesPerBuffer = 1024

// AudioDriver opens host sound-card devices via portaudio.
type AudioDriver struct{}

// NewAudioDriver creates a sound-card driver. portaudio.Initialize must
// be called once at process start before any AudioDriver is used, and
// portaudio.Terminate at shutdown; RyFi's pipeline does both around the
// driver registry's lifetime.
func NewAudioDriver() *AudioDriver {
	return &AudioDriver{}
}

func (d *AudioDriver) Name() string { return "audio" }

// List enumerates host audio devices, reporting each one that has input
// channels as a receiver and each with output channels as a
// transmitter, matching portaudio's own device model.
func (d *AudioDriver) List() ([]Info, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: enumerating devices: %w", err)
	}

	var infos []Info

	for _, dev := range devices {
		if dev.MaxInputChannels > 0 {
			infos = append(infos, Info{
				Driver: d.Name(), Identifier: dev.Name, Type: TypeReceiver, Label: dev.Name,
			})
		}

		if dev.MaxOutputChannels > 0 {
			infos = append(infos, Info{
				Driver: d.Name(), Identifier: dev.Name, Type: TypeTransmitter, Label: dev.Name,
			})
		}
	}

	return infos, nil
}

func deviceByName(name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: enumerating devices: %w", err)
	}

	for _, dev := range devices {
		if dev.Name == name {
			return dev, nil
		}
	}

	return nil, fmt.Errorf("audio: no device named %q", name)
}

// audioStream wraps a portaudio.Stream as both a Receiver and a
// Transmitter; a given stream is opened in only one direction so only
// one side of the interface is ever exercised.
type audioStream struct {
	stream *portaudio.Stream
	buf    []float32
	freq   float64
}

func (a *audioStream) ReadSamples(_ context.Context, buf []float32) (int, error) {
	if len(a.buf) != len(buf) {
		a.buf = make([]float32, len(buf))
	}

	if err := a.stream.Read(); err != nil {
		return 0, fmt.Errorf("audio: stream read: %w", err)
	}

	n := copy(buf, a.buf)

	return n, nil
}

func (a *audioStream) WriteSamples(_ context.Context, buf []float32) error {
	a.buf = buf

	if err := a.stream.Write(); err != nil {
		return fmt.Errorf("audio: stream write: %w", err)
	}

	return nil
}

// SetFrequencyHz is a no-op for plain sound-card devices: a transverter
// or SDR front end handles RF tuning, not the audio codec itself.
func (a *audioStream) SetFrequencyHz(_ float64) error { return nil }

func (a *audioStream) Close() error {
	if err := a.stream.Close(); err != nil {
		return fmt.Errorf("audio: closing stream: %w", err)
	}

	return nil
}

func (d *AudioDriver) OpenRX(identifier string, sampleRateHz float64) (Receiver, error) {
	dev, err := deviceByName(identifier)
	if err != nil {
		return nil, err
	}

	a := &audioStream{buf: make([]float32, audioFramesPerBuffer), freq: sampleRateHz}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      sampleRateHz,
		FramesPerBuffer: audioFramesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, a.buf)
	if err != nil {
		return nil, fmt.Errorf("audio: opening input stream on %q: %w", identifier, err)
	}

	a.stream = stream

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("audio: starting input stream on %q: %w", identifier, err)
	}

	return a, nil
}

func (d *AudioDriver) OpenTX(identifier string, sampleRateHz float64) (Transmitter, error) {
	dev, err := deviceByName(identifier)
	if err != nil {
		return nil, err
	}

	a := &audioStream{buf: make([]float32, audioFramesPerBuffer), freq: sampleRateHz}

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowOutputLatency,
		},
		SampleRate:      sampleRateHz,
		FramesPerBuffer: audioFramesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, a.buf)
	if err != nil {
		return nil, fmt.Errorf("audio: opening output stream on %q: %w", identifier, err)
	}

	a.stream = stream

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("audio: starting output stream on %q: %w", identifier, err)
	}

	return a, nil
}
