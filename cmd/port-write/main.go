// ABOUTME: Entry point for port-write
// ABOUTME: Plays a sound file from the PortAudio stream callback
package main

import (
	"context"
	"os"

	"github.com/sndrelay/sndrelay-go/internal/app"
	"github.com/sndrelay/sndrelay-go/pkg/audio/output"
)

const name = "port-write"

func main() {
	os.Exit(app.Main(name, os.Args[1:], func(ctx context.Context, env *app.Env) error {
		return app.PlayCallback[float32](ctx, env, output.NewPortAudioCallback(output.PortAudioOptions{
			FramesPerBuffer: env.Config.BlockFrames,
			HostAPI:         env.Config.HostAPI,
			DeviceIndex:     env.Config.DeviceIndex,
			Listing:         env.Listing(),
			Logger:          env.Log,
		}))
	}))
}
