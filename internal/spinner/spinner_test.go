package spinner

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer so the test can read while the spinner writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_UpdateAndStop(t *testing.T) {
	var out syncBuffer

	s := Start(&out, "gathering context")
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "gathering context")
	}, 2*time.Second, 10*time.Millisecond)

	s.Update("llm-judge 3/70")
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "llm-judge 3/70")
	}, 2*time.Second, 10*time.Millisecond)

	s.Stop()
	s.Stop()

	written := out.String()
	require.True(t, strings.HasSuffix(written, "\r"), "the line is cleared on stop")

	time.Sleep(200 * time.Millisecond)
	require.Equal(t, written, out.String(), "nothing is written after stop")
}
