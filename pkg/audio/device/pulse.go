// ABOUTME: Sound server sink and source enumeration
// ABOUTME: Lists sinks and sources through a pulse client and marks the server defaults
package device

import (
	"fmt"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

// PulseSink is an enumerated playback sink
type PulseSink struct {
	Info
	Sink *pulse.Sink
}

// PulseSource is an enumerated capture source
type PulseSource struct {
	Info
	Source *pulse.Source
}

// pulseInfo describes one sink or source. The server reports channels as a
// position map, so the count is its length.
func pulseInfo(index int, id, name string, channels proto.ChannelMap, rate int, defaultID string) Info {
	return Info{
		Index:      index,
		ID:         id,
		Name:       name,
		Channels:   len(channels),
		SampleRate: rate,
		Default:    id == defaultID,
	}
}

// PulseSinks lists the server's sinks
func PulseSinks(c *pulse.Client) ([]PulseSink, error) {
	sinks, err := c.ListSinks()
	if err != nil {
		return nil, fmt.Errorf("failed to list sinks: %w", err)
	}

	var defaultID string
	if def, err := c.DefaultSink(); err == nil && def != nil {
		defaultID = def.ID()
	}

	list := make([]PulseSink, 0, len(sinks))
	for i, s := range sinks {
		list = append(list, PulseSink{
			Info: pulseInfo(i, s.ID(), s.Name(), s.Channels(), s.SampleRate(), defaultID),
			Sink: s,
		})
	}
	return list, nil
}

// PulseSources lists the server's sources
func PulseSources(c *pulse.Client) ([]PulseSource, error) {
	sources, err := c.ListSources()
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	var defaultID string
	if def, err := c.DefaultSource(); err == nil && def != nil {
		defaultID = def.ID()
	}

	list := make([]PulseSource, 0, len(sources))
	for i, s := range sources {
		list = append(list, PulseSource{
			Info:   pulseInfo(i, s.ID(), s.Name(), s.Channels(), s.SampleRate(), defaultID),
			Source: s,
		})
	}
	return list, nil
}
