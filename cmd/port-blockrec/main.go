// ABOUTME: Entry point for port-blockrec
// ABOUTME: Records a 16-bit WAV file from blocking PortAudio reads
package main

import (
	"context"
	"os"

	"github.com/sndrelay/sndrelay-go/internal/app"
	"github.com/sndrelay/sndrelay-go/pkg/audio/input"
)

const name = "port-blockrec"

func main() {
	os.Exit(app.Main(name, os.Args[1:], func(ctx context.Context, env *app.Env) error {
		return app.RecordBlocking[int16](ctx, env, input.NewPortAudioBlocking(input.PortAudioOptions{
			FramesPerBuffer: env.Config.BlockFrames,
			HostAPI:         env.Config.HostAPI,
			DeviceIndex:     env.Config.DeviceIndex,
			Listing:         env.Listing(),
			Logger:          env.Log,
		}))
	}))
}
