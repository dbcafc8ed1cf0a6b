// ABOUTME: Entry point for sdl-read
// ABOUTME: Plays a sound file through the malgo data callback, 16-bit unless configured otherwise
package main

import (
	"context"
	"os"

	"github.com/sndrelay/sndrelay-go/internal/app"
	"github.com/sndrelay/sndrelay-go/internal/config"
	"github.com/sndrelay/sndrelay-go/pkg/audio/output"
)

const name = "sdl-read"

func main() {
	os.Exit(app.Main(name, os.Args[1:], func(ctx context.Context, env *app.Env) error {
		if env.Config.SampleFormat == config.Int16 {
			return app.PlayCallback[int16](ctx, env, output.NewMalgo[int16](env.Config.BlockFrames, env.Log))
		}
		return app.PlayCallback[float32](ctx, env, output.NewMalgo[float32](env.Config.BlockFrames, env.Log))
	}))
}
