package async

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func waitPending(t *testing.T, l *Loop, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for l.Pending() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d pending deliveries, have %d", n, l.Pending())
		}
		time.Sleep(time.Millisecond)
	}
}

func runOnce(t *testing.T, l *Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
}

func TestRunDeliversResultOnOwningContext(t *testing.T) {
	loop := NewLoop(4)
	var got atomic.Value
	called := atomic.Bool{}

	Run(loop, func() (string, error) {
		return "done", nil
	}, func(v string) {
		called.Store(true)
		got.Store(v)
	}, func(string) {
		t.Error("error callback must not be called")
	})

	waitPending(t, loop, 1)
	if called.Load() {
		t.Fatal("callback ran before the owning context drained the loop")
	}

	runOnce(t, loop)
	if !called.Load() || got.Load() != "done" {
		t.Errorf("expected result delivery, got %v", got.Load())
	}
	if loop.Pending() != 0 {
		t.Errorf("exactly one delivery expected, %d pending", loop.Pending())
	}
}

func TestRunDeliversErrorText(t *testing.T) {
	loop := NewLoop(4)
	var message string

	Run(loop, func() (int, error) {
		return 0, errors.New("DNF search timed out")
	}, func(int) {
		t.Error("result callback must not be called")
	}, func(msg string) {
		message = msg
	})

	runOnce(t, loop)
	if message != "DNF search timed out" {
		t.Errorf("message = %q", message)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	tests := []struct {
		name string
		work func() (int, error)
		want string
	}{
		{
			name: "string panic",
			work: func() (int, error) { panic("boom") },
			want: "boom",
		},
		{
			name: "error panic",
			work: func() (int, error) { panic(errors.New("bad output")) },
			want: "bad output",
		},
		{
			name: "runtime error",
			work: func() (int, error) {
				var m map[string]int
				m["x"] = 1
				return 0, nil
			},
			want: "assignment to entry in nil map",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loop := NewLoop(1)
			var message string

			Run(loop, tt.work, func(int) {
				t.Error("result callback must not be called")
			}, func(msg string) {
				message = msg
			})

			runOnce(t, loop)
			if !strings.Contains(message, tt.want) {
				t.Errorf("message = %q, want it to contain %q", message, tt.want)
			}
		})
	}
}

func TestRunNilCallbacks(t *testing.T) {
	loop := NewLoop(4)
	var wg sync.WaitGroup
	wg.Add(2)

	Run(loop, func() (int, error) {
		defer wg.Done()
		return 1, nil
	}, nil, nil)
	Run(loop, func() (int, error) {
		defer wg.Done()
		return 0, errors.New("ignored")
	}, nil, nil)

	wg.Wait()
	// the goroutines dispatch after work returns; give them a moment
	time.Sleep(20 * time.Millisecond)
	if n := loop.Drain(); n != 0 {
		t.Errorf("nil callbacks must not be dispatched, got %d", n)
	}
}

func TestLoopRunStopsOnContext(t *testing.T) {
	loop := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := loop.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoopClose(t *testing.T) {
	loop := NewLoop(1)
	loop.Close()

	if err := loop.Run(context.Background()); !errors.Is(err, ErrLoopClosed) {
		t.Errorf("expected ErrLoopClosed, got %v", err)
	}

	// must not block even though nobody drains
	loop.Dispatch(func() {})
	loop.Dispatch(func() {})
}

func TestLoopDrainPreservesOrder(t *testing.T) {
	loop := NewLoop(8)
	var order []int
	for i := range 5 {
		loop.Dispatch(func() { order = append(order, i) })
	}

	if n := loop.Drain(); n != 5 {
		t.Fatalf("drained %d, want 5", n)
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v", order)
		}
	}
}

func TestNewLoopDefaultSize(t *testing.T) {
	loop := NewLoop(0)
	if cap(loop.queue) != DefaultQueueSize {
		t.Errorf("queue size = %d", cap(loop.queue))
	}
}

func TestDispatcherFunc(t *testing.T) {
	ran := false
	DispatcherFunc(func(fn func()) { fn() }).Dispatch(func() { ran = true })
	if !ran {
		t.Error("DispatcherFunc did not forward")
	}
}

func TestGate(t *testing.T) {
	var g Gate
	first := g.Next()
	if !g.Current(first) {
		t.Fatal("fresh token should be current")
	}

	second := g.Next()
	if g.Current(first) {
		t.Error("superseded token must not be current")
	}
	if !g.Current(second) {
		t.Error("latest token should be current")
	}
}

func TestGateDropsStaleSearch(t *testing.T) {
	loop := NewLoop(4)
	var g Gate
	var shown []string
	release := make(chan struct{})

	search := func(query string, wait bool) {
		token := g.Next()
		Run(loop, func() (string, error) {
			if wait {
				<-release
			}
			return query, nil
		}, func(result string) {
			if g.Current(token) {
				shown = append(shown, result)
			}
		}, nil)
	}

	search("vi", true)
	search("vim", false)

	runOnce(t, loop)
	close(release)
	runOnce(t, loop)

	if len(shown) != 1 || shown[0] != "vim" {
		t.Errorf("shown = %v, want only the latest search", shown)
	}
}

// recordingSender stands in for *tea.Program
type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *recordingSender) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *recordingSender) take() []tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.msgs
	s.msgs = nil
	return out
}

// deliveryModel invokes DispatchMsg values the way an application model does
type deliveryModel struct {
	results []string
}

func (m *deliveryModel) Init() tea.Cmd { return nil }

func (m *deliveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if d, ok := msg.(DispatchMsg); ok {
		d.Invoke()
	}
	return m, nil
}

func (m *deliveryModel) View() string { return strings.Join(m.results, "\n") }

func TestProgramDispatcher(t *testing.T) {
	sender := &recordingSender{}
	model := &deliveryModel{}
	d := NewProgramDispatcher(sender)

	Run(d, func() (string, error) {
		return "htop", nil
	}, func(v string) {
		model.results = append(model.results, v)
	}, nil)

	deadline := time.Now().Add(5 * time.Second)
	var msgs []tea.Msg
	for len(msgs) == 0 && time.Now().Before(deadline) {
		msgs = sender.take()
		time.Sleep(time.Millisecond)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if len(model.results) != 0 {
		t.Fatal("result must wait for Update")
	}

	model.Update(msgs[0])
	if model.View() != "htop" {
		t.Errorf("view = %q", model.View())
	}
}

func TestDispatchMsgNilFunc(t *testing.T) {
	DispatchMsg{}.Invoke()
}

// =============================================================================
// Property-Based Tests
// =============================================================================

// TestRunDeliversExactlyOnce checks that every task yields one delivery,
// whichever way it ends.
func TestRunDeliversExactlyOnce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("one callback per task", prop.ForAll(
		func(outcomes []int) bool {
			loop := NewLoop(len(outcomes) + 1)
			var results, failures int

			for _, outcome := range outcomes {
				Run(loop, func() (int, error) {
					switch outcome {
					case 0:
						return 1, nil
					case 1:
						return 0, errors.New("failed")
					default:
						panic("crashed")
					}
				}, func(int) { results++ }, func(string) { failures++ })
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for range outcomes {
				if err := loop.RunOnce(ctx); err != nil {
					return false
				}
			}

			expectedResults := 0
			for _, o := range outcomes {
				if o == 0 {
					expectedResults++
				}
			}
			return results == expectedResults &&
				failures == len(outcomes)-expectedResults &&
				loop.Pending() == 0
		},
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.TestingRun(t)
}
