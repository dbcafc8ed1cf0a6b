// ABOUTME: Block relay package moving fixed-size sample blocks between files and devices
// ABOUTME: Provides the pull/push loop, device callback adapters, interrupts and sessions
// Package relay moves audio between a sound file and a device one block at a time.
//
// Two modes are supported:
//   - Copy: a manual loop that pulls a block from a Puller and pushes it to a
//     Pusher until the source ends, a push fails, or the run is interrupted.
//   - Filler/Drainer: adapters called from a device callback that satisfy the
//     exact requested size, zero padding any shortfall, and report when the
//     stream should stop.
//
// A Session pairs the file and device of one run and closes each exactly once.
// An Interrupt turns terminal signals into an atomic flag polled by the loops.
//
// Example:
//
//	sess := relay.NewSession[float32](file, 4096, channels)
//	defer sess.Close()
//	stats, err := relay.Copy(ctx, device, relay.PullFunc[float32](file.ReadFloat32),
//	    sess.Buffer(), channels, relay.Options{Interrupt: intr})
package relay
