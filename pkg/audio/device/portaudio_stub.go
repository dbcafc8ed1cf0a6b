//go:build !portaudio

// ABOUTME: PortAudio enumeration stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package device

import (
	"io"

	"github.com/sirupsen/logrus"
)

// HostAPI is an enumerated PortAudio host API (stub)
type HostAPI struct {
	Info
}

// PortAudioDevice is an enumerated PortAudio device (stub)
type PortAudioDevice struct {
	Info
	InputChannels  int
	OutputChannels int
}

// PortAudioHostAPIs lists host APIs
func PortAudioHostAPIs() ([]HostAPI, error) {
	return nil, ErrNotEnabled
}

// PortAudioDevices lists devices
func PortAudioDevices(api *HostAPI, input bool) ([]PortAudioDevice, error) {
	return nil, ErrNotEnabled
}

// DefaultPortAudioDevice returns the default device
func DefaultPortAudioDevice(input bool) (PortAudioDevice, error) {
	return PortAudioDevice{}, ErrNotEnabled
}

// ResolvePortAudio picks a device
func ResolvePortAudio(hostAPI string, index int, input bool, listing io.Writer, logger logrus.FieldLogger) (*PortAudioDevice, error) {
	return nil, ErrNotEnabled
}
