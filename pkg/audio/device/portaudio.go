//go:build portaudio

// ABOUTME: PortAudio host API and device enumeration
// ABOUTME: Lists host APIs and their devices and resolves a device within a host API
package device

import (
	"fmt"
	"io"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
	"github.com/sndrelay/sndrelay-go/internal/log"
)

// HostAPI is an enumerated PortAudio host API
type HostAPI struct {
	Info
	API *portaudio.HostApiInfo
}

// PortAudioDevice is an enumerated PortAudio device
type PortAudioDevice struct {
	Info
	InputChannels  int
	OutputChannels int
	Device         *portaudio.DeviceInfo
}

// PortAudioHostAPIs lists host APIs. PortAudio must be initialized.
func PortAudioHostAPIs() ([]HostAPI, error) {
	apis, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("failed to list host APIs: %w", err)
	}
	def, _ := portaudio.DefaultHostApi()

	list := make([]HostAPI, 0, len(apis))
	for i, api := range apis {
		list = append(list, HostAPI{
			Info: Info{
				Index:   i,
				Name:    api.Name,
				Default: def != nil && api.Name == def.Name,
			},
			API: api,
		})
	}
	return list, nil
}

// PortAudioDevices lists the devices of api, or of every host API when api is nil.
// Devices are indexed within the list. Default marks the default input device
// when input is set, else the default output device.
func PortAudioDevices(api *HostAPI, input bool) ([]PortAudioDevice, error) {
	var devices []*portaudio.DeviceInfo
	if api != nil && api.API != nil {
		devices = api.API.Devices
	} else {
		var err error
		if devices, err = portaudio.Devices(); err != nil {
			return nil, fmt.Errorf("failed to list devices: %w", err)
		}
	}

	var def *portaudio.DeviceInfo
	if input {
		def, _ = portaudio.DefaultInputDevice()
	} else {
		def, _ = portaudio.DefaultOutputDevice()
	}

	list := make([]PortAudioDevice, 0, len(devices))
	for i, d := range devices {
		hostAPI := ""
		if d.HostApi != nil {
			hostAPI = d.HostApi.Name
		}
		channels := d.MaxOutputChannels
		if input {
			channels = d.MaxInputChannels
		}
		list = append(list, PortAudioDevice{
			Info: Info{
				Index:      i,
				Name:       d.Name,
				HostAPI:    hostAPI,
				Channels:   channels,
				SampleRate: int(d.DefaultSampleRate),
				Default:    def != nil && d.Index == def.Index,
			},
			InputChannels:  d.MaxInputChannels,
			OutputChannels: d.MaxOutputChannels,
			Device:         d,
		})
	}
	return list, nil
}

// DefaultPortAudioDevice returns the default input or output device
func DefaultPortAudioDevice(input bool) (PortAudioDevice, error) {
	var (
		d   *portaudio.DeviceInfo
		err error
	)
	if input {
		d, err = portaudio.DefaultInputDevice()
	} else {
		d, err = portaudio.DefaultOutputDevice()
	}
	if err != nil {
		return PortAudioDevice{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return PortAudioDevice{
		Info: Info{
			Index:      d.Index,
			Name:       d.Name,
			SampleRate: int(d.DefaultSampleRate),
			Default:    true,
		},
		InputChannels:  d.MaxInputChannels,
		OutputChannels: d.MaxOutputChannels,
		Device:         d,
	}, nil
}

// ResolvePortAudio picks the device at index within the host API matching
// hostAPI, listing what it enumerates to listing when set. An unmatched host
// API falls back to the default host API and an unavailable index to the
// default device. A nil result means the default device. PortAudio must be
// initialized.
func ResolvePortAudio(hostAPI string, index int, input bool, listing io.Writer, logger logrus.FieldLogger) (*PortAudioDevice, error) {
	if logger == nil {
		logger = log.Logger
	}

	apis, err := PortAudioHostAPIs()
	if err != nil {
		return nil, err
	}
	if listing != nil {
		Print(listing, "Host API", apis)
	}

	var api *HostAPI
	if hostAPI != "" {
		found, err := FindHostAPI(apis, hostAPI)
		if err != nil {
			logger.Warnf("%v, using default host API", err)
			if found, err = Select(apis, DefaultIndex); err != nil {
				return nil, err
			}
		}
		api = &found
		logger.Infof("Using host API %d: %s", found.Index, found.Name)
	}

	devices, err := PortAudioDevices(api, input)
	if err != nil {
		return nil, err
	}
	if listing != nil {
		Print(listing, "Device", devices)
	}
	if index == DefaultIndex {
		return nil, nil
	}

	d, err := Select(devices, index)
	if err != nil {
		logger.Warnf("%v, using default device", err)
		def, err := DefaultPortAudioDevice(input)
		if err != nil {
			return nil, err
		}
		return &def, nil
	}
	logger.Infof("Using device %d: %s", d.Index, d.Name)
	return &d, nil
}
