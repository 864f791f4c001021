package extraction

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/oficina-api/internal/application/ports"
	"github.com/jhoicas/oficina-api/internal/domain/extraction"
	"github.com/jhoicas/oficina-api/internal/infrastructure/resilience"
)

// fakeModel devolve as respostas em sequência; a última se repete.
type fakeModel struct {
	mu       sync.Mutex
	replies  []fakeReply
	calls    []ports.VisionRequest
	noAPIKey bool
}

type fakeReply struct {
	text string
	err  error
}

func (f *fakeModel) GenerateFromImage(_ context.Context, req ports.VisionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if len(f.replies) == 0 {
		return "", nil
	}
	idx := len(f.calls) - 1
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	r := f.replies[idx]
	return r.text, r.err
}

func (f *fakeModel) Configured() bool { return !f.noAPIKey }
func (f *fakeModel) Provider() string { return "fake" }

func (f *fakeModel) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func retrying(attempts int) *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		Backoff:     resilience.BackoffLinear,
	}, zerolog.Nop())
}

func newTestPipeline(model ports.VisionModel, attempts int, validate extraction.ImageValidator) *Pipeline {
	inv := NewInvoker(model, retrying(attempts), time.Second, nil, zerolog.Nop())
	return NewPipeline(inv, validate, extraction.ParseGreedy, zerolog.Nop())
}

var pngImage = extraction.Image{Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"}

// fakeExtractor permite controlar cada granularidade no teste do orquestrador.
type fakeExtractor struct {
	single      extraction.SingleItem
	singleErr   error
	multi       extraction.Result
	multiErr    error
	singleCalls int
	multiCalls  int
}

func (f *fakeExtractor) ExtractSingle(context.Context, extraction.Image) (extraction.SingleItem, error) {
	f.singleCalls++
	return f.single, f.singleErr
}

func (f *fakeExtractor) ExtractMulti(context.Context, extraction.Image) (extraction.Result, error) {
	f.multiCalls++
	return f.multi, f.multiErr
}
