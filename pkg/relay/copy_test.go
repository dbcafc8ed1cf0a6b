package relay_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/sndrelay/sndrelay-go/internal/mock"
	"github.com/sndrelay/sndrelay-go/pkg/audio"
	"github.com/sndrelay/sndrelay-go/pkg/audio/sndfile"
	"github.com/sndrelay/sndrelay-go/pkg/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(frames, channels int) []float32 {
	s := make([]float32, frames*channels)
	for i := range s {
		s[i] = float32(i%100+1) / 100
	}
	return s
}

func TestCopyBlockCounts(t *testing.T) {
	tests := []struct {
		block, length, channels int
	}{
		{block: 4, length: 16, channels: 1},
		{block: 4, length: 17, channels: 2},
		{block: 1024, length: 500, channels: 2},
		{block: 1000, length: 44100, channels: 2},
		{block: 7, length: 0, channels: 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("N=%d L=%d", tt.block, tt.length), func(t *testing.T) {
			src := &mock.Source[float32]{Samples: ramp(tt.length, tt.channels), Channels: tt.channels}
			sink := &mock.Sink[float32]{}
			buf := make([]float32, tt.block*tt.channels)

			stats, err := relay.Copy(context.Background(), sink, src, buf, tt.channels, relay.Options{})
			require.NoError(t, err)
			assert.Equal(t, relay.EndOfStream, stats.Reason)

			full := tt.length / tt.block
			rest := tt.length % tt.block
			writes := sink.Writes()
			expectedWrites := full
			if rest > 0 {
				expectedWrites++
			}
			require.Len(t, writes, expectedWrites)
			for i := 0; i < full; i++ {
				assert.Equal(t, tt.block*tt.channels, writes[i])
			}
			if rest > 0 {
				assert.Equal(t, rest*tt.channels, writes[full])
			}
			if tt.length > 0 {
				assert.Equal(t, src.Samples, sink.Buffer())
			}
			assert.EqualValues(t, tt.length, stats.Frames)
		})
	}
}

func TestCopyOneSecondMono16(t *testing.T) {
	format := audio.Format{SampleRate: 44100, Channels: 1, BitDepth: 16}
	path := filepath.Join(t.TempDir(), "second.wav")

	w, err := sndfile.Create(path, format)
	require.NoError(t, err)
	_, err = w.WriteInt16(make([]int16, 44100), 44100)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	f, err := sndfile.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var reads []int
	src := relay.PullFunc[int16](func(buf []int16, frames int) (int, error) {
		n, err := f.ReadInt16(buf, frames)
		reads = append(reads, n)
		return n, err
	})
	var writeBytes []int
	dst := relay.PushFunc[int16](func(buf []int16, frames int) (int, error) {
		writeBytes = append(writeBytes, len(buf)*audio.SampleSize[int16]())
		return frames, nil
	})

	stats, err := relay.Copy(context.Background(), dst, src, make([]int16, 44100), 1, relay.Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{44100, 0}, reads)
	assert.Equal(t, []int{88200}, writeBytes)
	assert.Equal(t, 1, stats.Blocks)
}

func TestCopyInterruptStopsAfterCurrentBlock(t *testing.T) {
	intr := &relay.Interrupt{}
	src := &mock.Source[int16]{
		Samples:  make([]int16, 100*2),
		Channels: 2,
		OnPull: func(call int) {
			if call == 3 {
				intr.Set()
			}
		},
	}
	sink := &mock.Sink[int16]{}

	stats, err := relay.Copy(context.Background(), sink, src, make([]int16, 10*2), 2, relay.Options{Interrupt: intr})
	require.NoError(t, err)
	assert.Equal(t, relay.Interrupted, stats.Reason)
	assert.Equal(t, 3, stats.Blocks)
	calls, _ := src.Count()
	assert.Equal(t, 3, calls)
}

func TestCopyContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &mock.Source[float32]{
		Samples:  make([]float32, 100),
		Channels: 1,
		OnPull:   func(int) { cancel() },
	}

	stats, err := relay.Copy(ctx, &mock.Sink[float32]{}, src, make([]float32, 10), 1, relay.Options{})
	require.NoError(t, err)
	assert.Equal(t, relay.Canceled, stats.Reason)
	assert.Equal(t, 1, stats.Blocks)
}

func TestCopyMaxBlocks(t *testing.T) {
	src := &mock.Source[int16]{Samples: make([]int16, 1000), Channels: 1}
	stats, err := relay.Copy(context.Background(), &mock.Sink[int16]{}, src, make([]int16, 10), 1, relay.Options{MaxBlocks: 40})
	require.NoError(t, err)
	assert.Equal(t, relay.BlockLimit, stats.Reason)
	assert.Equal(t, 40, stats.Blocks)
}

func TestCopyWriteFailure(t *testing.T) {
	boom := errors.New("device gone")
	src := &mock.Source[float32]{Samples: make([]float32, 100), Channels: 1}
	sink := &mock.Sink[float32]{ErrorOnCall: boom}

	stats, err := relay.Copy(context.Background(), sink, src, make([]float32, 10), 1, relay.Options{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, relay.WriteFailed, stats.Reason)
	assert.Equal(t, 0, stats.Blocks)
}

func TestCopyShortWrite(t *testing.T) {
	src := &mock.Source[float32]{Samples: make([]float32, 100), Channels: 1}
	sink := &mock.Sink[float32]{Limit: 5}

	_, err := relay.Copy(context.Background(), sink, src, make([]float32, 10), 1, relay.Options{})
	assert.ErrorIs(t, err, relay.ErrShortWrite)
}

func TestCopyReadFailure(t *testing.T) {
	boom := errors.New("bad sector")
	src := &mock.Source[float32]{Samples: make([]float32, 100), Channels: 1, ErrorOnCall: boom, FailOnCall: 2}

	stats, err := relay.Copy(context.Background(), &mock.Sink[float32]{}, src, make([]float32, 10), 1, relay.Options{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, relay.ReadFailed, stats.Reason)
	assert.Equal(t, 1, stats.Blocks)
}

func TestCopyRejectsBadChannels(t *testing.T) {
	_, err := relay.Copy(context.Background(), &mock.Sink[float32]{}, &mock.Source[float32]{}, make([]float32, 10), 0, relay.Options{})
	assert.ErrorIs(t, err, relay.ErrBadChannels)
}
