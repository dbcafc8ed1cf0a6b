// ABOUTME: Entry point for port-blockplay
// ABOUTME: Plays a sound file through blocking PortAudio float32 writes
package main

import (
	"context"
	"os"

	"github.com/sndrelay/sndrelay-go/internal/app"
	"github.com/sndrelay/sndrelay-go/pkg/audio/output"
)

const name = "port-blockplay"

func main() {
	os.Exit(app.Main(name, os.Args[1:], func(ctx context.Context, env *app.Env) error {
		return app.PlayBlocking[float32](ctx, env, output.NewPortAudioBlocking(output.PortAudioOptions{
			FramesPerBuffer: env.Config.BlockFrames,
			HostAPI:         env.Config.HostAPI,
			DeviceIndex:     env.Config.DeviceIndex,
			Listing:         env.Listing(),
			Logger:          env.Log,
		}))
	}))
}
