package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingSink struct {
	got []Event
	err error
}

func (s *countingSink) Publish(_ context.Context, ev Event) error {
	s.got = append(s.got, ev)
	return s.err
}

func TestFanoutDeliversToAllSinks(t *testing.T) {
	a := &countingSink{}
	b := &countingSink{}
	f := NewFanout(zaptest.NewLogger(t), a, b)

	ev := Event{Type: EventOrderCreated, OrderID: "NC-20260829-ABCDEF", At: time.Now()}
	require.NoError(t, f.Publish(context.Background(), ev))

	require.Len(t, a.got, 1)
	require.Len(t, b.got, 1)
	assert.Equal(t, ev.OrderID, b.got[0].OrderID)
}

func TestFanoutSkipsFailingSink(t *testing.T) {
	broken := &countingSink{err: errors.New("broker down")}
	healthy := &countingSink{}
	f := NewFanout(zaptest.NewLogger(t), broken, healthy)

	err := f.Publish(context.Background(), Event{Type: EventOrderCompleted, OrderID: "NC-20260829-ABCDEF"})
	require.NoError(t, err)
	assert.Len(t, healthy.got, 1)
}
