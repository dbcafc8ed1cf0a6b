// ABOUTME: Entry point for port-rec
// ABOUTME: Records a WAV file from the PortAudio stream callback on a chosen host API device
package main

import (
	"context"
	"os"

	"github.com/sndrelay/sndrelay-go/internal/app"
	"github.com/sndrelay/sndrelay-go/pkg/audio/input"
)

const name = "port-rec"

func main() {
	os.Exit(app.Main(name, os.Args[1:], func(ctx context.Context, env *app.Env) error {
		return app.RecordCallback[float32](ctx, env, input.NewPortAudioCallback(input.PortAudioOptions{
			FramesPerBuffer: env.Config.BlockFrames,
			HostAPI:         env.Config.HostAPI,
			DeviceIndex:     env.Config.DeviceIndex,
			Listing:         env.Listing(),
			ClipOff:         true,
			Logger:          env.Log,
		}))
	}))
}
