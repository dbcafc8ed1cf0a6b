// ABOUTME: Per-program run parameters with YAML overrides
// ABOUTME: Built-in defaults per program, overlaid by an optional file named in SNDRELAY_CONFIG
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/audio/device"
)

// PathEnv names an optional YAML file of per-program overrides
const PathEnv = "SNDRELAY_CONFIG"

// Sample formats
const (
	Int16   = "int16"
	Float32 = "float32"
)

// ErrUnknownProgram indicates a program without built-in defaults
var ErrUnknownProgram = errors.New("unknown program")

// Latency configures the adaptive latency controller
type Latency struct {
	Enabled   bool          `yaml:"enabled"`
	Initial   time.Duration `yaml:"initial"`
	Ceiling   time.Duration `yaml:"ceiling"`
	Threshold int           `yaml:"threshold"`
}

// Record describes the file written by capture programs
type Record struct {
	SampleRate int  `yaml:"sample_rate"`
	Channels   int  `yaml:"channels"`
	BitDepth   int  `yaml:"bit_depth"`
	Float      bool `yaml:"float"`
}

// Format returns the WAV format of the recording
func (r Record) Format() audio.Format {
	return audio.Format{
		Codec:      "wav",
		SampleRate: r.SampleRate,
		Channels:   r.Channels,
		BitDepth:   r.BitDepth,
		Float:      r.Float,
	}
}

// Program holds the run parameters of one program
type Program struct {
	// BlockFrames is the block or device buffer size. Zero lets the server choose.
	BlockFrames int `yaml:"block_frames"`
	// MaxBlocks stops a loop after that many blocks when positive
	MaxBlocks int `yaml:"max_blocks"`
	// TimeLimit stops the run when positive
	TimeLimit time.Duration `yaml:"time_limit"`
	// DeviceIndex selects a sink, source or device. -1 is the default.
	DeviceIndex int `yaml:"device_index"`
	// HostAPI restricts device selection to a PortAudio host API
	HostAPI string `yaml:"host_api"`
	// SampleFormat picks int16 or float32 device samples for programs whose
	// backend takes either. Empty means the backend's format is fixed.
	SampleFormat string  `yaml:"sample_format"`
	Record       Record  `yaml:"record"`
	Latency      Latency `yaml:"latency"`
	// ListDevices prints the enumerated devices before streaming
	ListDevices bool `yaml:"list_devices"`
}

var cdQuality = Record{SampleRate: 44100, Channels: 2, BitDepth: 16}

var floatWAV = Record{SampleRate: 44100, Channels: 2, BitDepth: 32, Float: true}

var adaptive = Latency{
	Enabled:   true,
	Initial:   20 * time.Millisecond,
	Ceiling:   2 * time.Second,
	Threshold: 6,
}

var defaults = map[string]Program{
	"ao-blockplay": {
		BlockFrames: 44100,
		DeviceIndex: device.DefaultIndex,
	},
	"port-blockplay": {
		BlockFrames: 4096,
		TimeLimit:   60 * time.Second,
		DeviceIndex: device.DefaultIndex,
	},
	"port-blockrec": {
		BlockFrames: 44100,
		MaxBlocks:   40,
		TimeLimit:   40 * time.Second,
		DeviceIndex: device.DefaultIndex,
		Record:      cdQuality,
	},
	"port-write": {
		BlockFrames: 4096,
		TimeLimit:   360 * time.Second,
		DeviceIndex: device.DefaultIndex,
	},
	"port-rec": {
		BlockFrames: 4096,
		TimeLimit:   20 * time.Second,
		DeviceIndex: 5,
		HostAPI:     "PulseAudio",
		Record:      cdQuality,
		ListDevices: true,
	},
	"pulse-blockplay": {
		BlockFrames: 4096,
		DeviceIndex: device.DefaultIndex,
		ListDevices: true,
	},
	"pulse-blockrec": {
		BlockFrames: 4096,
		DeviceIndex: device.DefaultIndex,
		Record:      cdQuality,
		ListDevices: true,
	},
	"pulse-play": {
		DeviceIndex: 1,
		Latency:     adaptive,
		ListDevices: true,
	},
	"pulse-read": {
		DeviceIndex: device.DefaultIndex,
		Latency:     adaptive,
		ListDevices: true,
	},
	"pulse-write": {
		DeviceIndex: 3,
		Record:      floatWAV,
		ListDevices: true,
	},
	"pulse-rec": {
		DeviceIndex: device.DefaultIndex,
		Record:      cdQuality,
		Latency:     Latency{Initial: 20 * time.Millisecond},
		ListDevices: true,
	},
	"sdl-play": {
		BlockFrames:  1024,
		DeviceIndex:  device.DefaultIndex,
		SampleFormat: Float32,
	},
	"sdl-read": {
		BlockFrames:  1024,
		DeviceIndex:  device.DefaultIndex,
		SampleFormat: Int16,
	},
}

// Default returns the built-in parameters of program
func Default(program string) (Program, error) {
	p, ok := defaults[program]
	if !ok {
		return Program{}, fmt.Errorf("%w: %s", ErrUnknownProgram, program)
	}
	return p, nil
}

// Load returns program's defaults overlaid with its section of the YAML file
// at path. An empty path or a missing file keeps the defaults.
func Load(program, path string) (Program, error) {
	p, err := Default(program)
	if err != nil {
		return p, err
	}
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("failed to read config: %w", err)
	}

	var file map[string]yaml.Node
	if err := yaml.Unmarshal(data, &file); err != nil {
		return p, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	fixed := p.SampleFormat == ""
	if node, ok := file[program]; ok {
		if err := node.Decode(&p); err != nil {
			return p, fmt.Errorf("failed to parse %s section of %s: %w", program, path, err)
		}
	}
	if fixed && p.SampleFormat != "" {
		return p, fmt.Errorf("%s has a fixed sample format, sample_format %q is not supported", program, p.SampleFormat)
	}
	return p, p.Validate()
}

// FromEnv loads program's parameters from the file named by PathEnv
func FromEnv(program string) (Program, error) {
	return Load(program, os.Getenv(PathEnv))
}

// Validate reports parameters no program can run with
func (p Program) Validate() error {
	if p.BlockFrames < 0 {
		return fmt.Errorf("block_frames must not be negative: %d", p.BlockFrames)
	}
	if p.MaxBlocks < 0 {
		return fmt.Errorf("max_blocks must not be negative: %d", p.MaxBlocks)
	}
	if p.TimeLimit < 0 {
		return fmt.Errorf("time_limit must not be negative: %v", p.TimeLimit)
	}
	if p.DeviceIndex < device.DefaultIndex {
		return fmt.Errorf("device_index must be -1 or an index: %d", p.DeviceIndex)
	}
	switch p.SampleFormat {
	case "", Int16, Float32:
	default:
		return fmt.Errorf("sample_format must be %s or %s: %q", Int16, Float32, p.SampleFormat)
	}
	if p.Record.SampleRate != 0 {
		if err := p.Record.Format().Validate(); err != nil {
			return fmt.Errorf("invalid record format: %w", err)
		}
	}
	if p.Latency.Enabled && p.Latency.Ceiling > 0 && p.Latency.Initial > p.Latency.Ceiling {
		return fmt.Errorf("latency initial %v exceeds ceiling %v", p.Latency.Initial, p.Latency.Ceiling)
	}
	return nil
}
