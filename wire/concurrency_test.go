package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// TestConcurrentDecodersOnDisjointBuffers exercises the guarantee that
// distinct Decoder/Streaming instances may run on disjoint buffers from
// separate goroutines with no shared mutable state. Run this file under
// `go test -race` to have it mean anything.
func TestConcurrentDecodersOnDisjointBuffers(t *testing.T) {
	const workers = 64

	buffers := make([][]byte, workers)
	for i := range buffers {
		p := &Publish{Topic: "fanout/topic", PacketID: uint16(i + 1), Payload: []byte("payload")}
		remainingLen, total, err := ValidatePublish311(p, QoS1)
		require.NoError(t, err)
		out := make([]byte, total)
		require.NoError(t, PopulatePublish311(p, false, QoS1, false, remainingLen, out))
		buffers[i] = out
	}

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			h, n, err := ParseHeader(buffers[i])
			if err != nil {
				return err
			}
			dec := NewDecoder(buffers[i][n : n+int(h.RemainingLength)])
			p, err := DecodePublish311(dec, h)
			if err != nil {
				return err
			}
			if p.PacketID != uint16(i+1) {
				t.Errorf("worker %d: got packet id %d", i, p.PacketID)
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())
}

// TestConcurrentStreamingInstancesAreIndependent runs many independent
// Streaming splitters concurrently, one per goroutine, each over its own
// buffer containing several packets back to back.
func TestConcurrentStreamingInstancesAreIndependent(t *testing.T) {
	const workers = 32

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			var buf []byte
			for i := 0; i < 5; i++ {
				buf = append(buf, pingreqBytes()...)
			}
			s := NewStreaming(buf)
			count := 0
			for {
				h, err := s.NextHeader()
				if Is(err, ErrIncompleteBuffer) {
					break
				}
				if err != nil {
					return err
				}
				dec, err := s.NextPacket(h)
				if err != nil {
					return err
				}
				if dec.Len() != 0 {
					t.Errorf("worker %d: expected empty PINGREQ body", w)
				}
				count++
			}
			if count != 5 {
				t.Errorf("worker %d: decoded %d packets, want 5", w, count)
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())
}
