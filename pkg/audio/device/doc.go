// Package device enumerates playback and capture devices and resolves a
// configured index to one of them.
//
// Sound server sinks and sources come from a pulse client. PortAudio host
// APIs and devices need the portaudio build tag. Every lookup is bounds
// checked; DefaultIndex selects the entry the backend marks as default.
package device
