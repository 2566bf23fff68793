package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/motorctl/internal/config"
	"github.com/tamzrod/motorctl/internal/operation"
	"github.com/tamzrod/motorctl/internal/registers"
	"github.com/tamzrod/motorctl/internal/status"
)

type fakeTransport struct {
	words    map[uint16][]uint16
	failAddr uint16
	failing  bool
	reads    int
	writes   int
}

func (f *fakeTransport) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	f.reads++
	if f.failing && addr == f.failAddr {
		return nil, errors.New("fail read")
	}
	if w, ok := f.words[addr]; ok {
		return w, nil
	}
	return make([]uint16, qty), nil
}

func (f *fakeTransport) WriteRegisters(addr uint16, regs []uint16) error {
	f.writes++
	return nil
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func session(f *fakeTransport) *operation.Session {
	return operation.NewSession(f, registers.Default(), quiet())
}

func TestNew_DropsUnresolved(t *testing.T) {
	s := session(&fakeTransport{})

	p, err := New(Config{IDs: []string{"BADNAME", "err_stat", "10"}, Interval: time.Second}, s, quiet())
	require.NoError(t, err)

	regs := p.Registers()
	require.Len(t, regs, 2)
	assert.Equal(t, "ERR_STAT", regs[0].Name)
	assert.Equal(t, "P_IST", regs[1].Name)
}

func TestNew_Errors(t *testing.T) {
	s := session(&fakeTransport{})

	_, err := New(Config{IDs: []string{"BADNAME", "999"}, Interval: time.Second}, s, quiet())
	assert.ErrorIs(t, err, ErrNoRegisters)

	_, err = New(Config{IDs: []string{"P_IST"}}, s, quiet())
	assert.Error(t, err)

	_, err = New(Config{Interval: time.Second}, s, quiet())
	assert.Error(t, err)
}

func TestPollOnce_IsolatesFailures(t *testing.T) {
	f := &fakeTransport{
		words:    map[uint16][]uint16{70: {0, 0b101}},
		failAddr: 20,
		failing:  true,
	}
	p, err := New(Config{IDs: []string{"P_IST", "ERR_STAT"}, Interval: time.Second}, session(f), quiet())
	require.NoError(t, err)

	res := p.PollOnce()
	require.Len(t, res.Items, 2)
	assert.Equal(t, 1, res.Failed())

	assert.False(t, res.Items[0].Result.OK())
	assert.Equal(t, status.HealthError, res.Items[0].Health.Health)
	assert.True(t, res.Items[0].Changed)

	assert.True(t, res.Items[1].Result.OK())
	assert.Equal(t, status.HealthOK, res.Items[1].Health.Health)

	// recovery
	f.failing = false
	res = p.PollOnce()
	assert.Equal(t, uint64(2), res.Cycle)
	assert.Equal(t, 0, res.Failed())
	assert.True(t, res.Items[0].Changed)
	assert.False(t, res.Items[1].Changed)
}

func TestRun_WatchBitfieldUntilCancelled(t *testing.T) {
	f := &fakeTransport{words: map[uint16][]uint16{70: {0, 0b101}}}
	p, err := New(Config{IDs: []string{"ERR_STAT"}, Interval: 10 * time.Millisecond}, session(f), quiet())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cycles []PollResult
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx, func(r PollResult) {
			cycles = append(cycles, r)
			if len(cycles) == 3 {
				cancel()
			}
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	require.Len(t, cycles, 3)
	for _, c := range cycles {
		require.Len(t, c.Items, 1)
		it := c.Items[0]
		require.True(t, it.Result.Annotated)
		assert.Equal(t, []string{"I2T_ERR", "FNC_ERR"}, it.Result.Annotation.Symbols)
	}
	assert.Equal(t, 3, f.reads)
}

func TestRun_SessionUsableWhileSleeping(t *testing.T) {
	f := &fakeTransport{}
	s := session(f)
	p, err := New(Config{IDs: []string{"P_IST"}, Interval: time.Hour}, s, quiet())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cycled := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx, func(PollResult) {
			select {
			case cycled <- struct{}{}:
			default:
			}
		})
	}()

	select {
	case <-cycled:
	case <-time.After(time.Second):
		t.Fatal("first cycle never ran")
	}

	wrote := make(chan operation.Result, 1)
	go func() { wrote <- s.Write("P_SOLL", "42") }()
	select {
	case res := <-wrote:
		require.NoError(t, res.Err)
	case <-time.After(time.Second):
		t.Fatal("write blocked behind the watch interval")
	}

	start := time.Now()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run kept sleeping after cancel")
	}
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, f.reads)
	assert.Equal(t, 1, f.writes)
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	f := &fakeTransport{}
	p, err := New(Config{IDs: []string{"P_IST"}, Interval: time.Hour}, session(f), quiet())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p.Run(ctx, func(PollResult) { t.Fatal("no cycle expected") })
	assert.Zero(t, f.reads)
}

func TestBuild_RateOverridesConfig(t *testing.T) {
	s := session(&fakeTransport{})

	p, err := Build(config.WatchConfig{IntervalMs: 1000}, []string{"P_IST"}, 0, s, quiet())
	require.NoError(t, err)
	assert.Equal(t, time.Second, p.Interval())

	p, err = Build(config.WatchConfig{IntervalMs: 1000}, []string{"P_IST"}, 10*time.Millisecond, s, quiet())
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, p.Interval())
}
