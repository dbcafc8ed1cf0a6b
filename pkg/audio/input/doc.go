// Package input provides audio capture devices.
//
// Blocking inputs implement relay.Puller. Callback inputs hand each captured
// buffer to a relay.Callback, usually a relay.Drainer writing to a file.
// PortAudio requires the portaudio build tag.
package input
