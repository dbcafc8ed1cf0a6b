// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides blocking and callback outputs over oto, PortAudio, the sound server and malgo
// Package output provides audio playback devices.
//
// Blocking outputs implement relay.Pusher and are written one block at a
// time:
//
//	out := output.NewOto(nil)
//	err := out.Open(format)
//	n, err := out.Push(block, frames)
//
// Callback outputs ask for samples from their own audio thread through a
// relay.Callback, usually a relay.Filler:
//
//	out := output.NewMalgo[float32](1024, nil)
//	err := out.Open(format)
//	err = out.Start(filler.Fill)
//	<-out.Done()
//
// PortAudio requires the portaudio build tag.
package output
