// ABOUTME: Backend-neutral device descriptors with bounds-checked selection
// ABOUTME: Prints enumerated sinks, sources, host APIs and devices for diagnostics
package device

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sndrelay/sndrelay-go/internal/log"
)

// DefaultIndex selects the entry marked as default
const DefaultIndex = -1

// Info describes one enumerated device or host API
type Info struct {
	Index      int
	ID         string // backend identifier, e.g. a sink name
	Name       string
	HostAPI    string
	Channels   int
	SampleRate int
	Default    bool
}

// Descriptor returns i
func (i Info) Descriptor() Info {
	return i
}

// Lister is anything carrying an Info
type Lister interface {
	Descriptor() Info
}

// Select returns the entry at index, or the default entry for DefaultIndex
func Select[D Lister](list []D, index int) (D, error) {
	var zero D
	if index == DefaultIndex {
		for _, d := range list {
			if d.Descriptor().Default {
				return d, nil
			}
		}
		return zero, fmt.Errorf("%w: no default among %d entries", ErrNotFound, len(list))
	}
	if index < 0 || index >= len(list) {
		return zero, fmt.Errorf("%w: index %d out of range [0, %d)", ErrNotFound, index, len(list))
	}
	return list[index], nil
}

// SelectOrDefault returns the entry at index, falling back to the default entry
func SelectOrDefault[D Lister](list []D, index int, logger logrus.FieldLogger) (D, error) {
	d, err := Select(list, index)
	if err == nil {
		return d, nil
	}
	if logger == nil {
		logger = log.Logger
	}
	logger.Warnf("device %d not available (%v), using default", index, err)
	return Select(list, DefaultIndex)
}

// FindHostAPI returns the first entry whose name contains name, ignoring case
func FindHostAPI[D Lister](list []D, name string) (D, error) {
	var zero D
	want := strings.ToLower(name)
	for _, d := range list {
		if strings.Contains(strings.ToLower(d.Descriptor().Name), want) {
			return d, nil
		}
	}
	return zero, fmt.Errorf("%w: host API %q", ErrNotFound, name)
}

// Print writes a diagnostic listing of list to w
func Print[D Lister](w io.Writer, title string, list []D) {
	for _, d := range list {
		info := d.Descriptor()
		fmt.Fprintf(w, "=======[ %s #%d ]=======\n", title, info.Index)
		if info.ID != "" {
			fmt.Fprintf(w, "ID: %s\n", info.ID)
		}
		fmt.Fprintf(w, "Name: %s\n", info.Name)
		if info.HostAPI != "" {
			fmt.Fprintf(w, "Host API: %s\n", info.HostAPI)
		}
		if info.Channels > 0 {
			fmt.Fprintf(w, "Channels: %d\n", info.Channels)
		}
		if info.SampleRate > 0 {
			fmt.Fprintf(w, "Sample rate: %d\n", info.SampleRate)
		}
		if info.Default {
			fmt.Fprintln(w, "Default: yes")
		}
		fmt.Fprintln(w)
	}
}
