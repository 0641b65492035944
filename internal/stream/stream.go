package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tenderfit/tenderctl/internal/logger"
	"github.com/tenderfit/tenderctl/internal/pipeline"
	tenderrors "github.com/tenderfit/tenderctl/pkg/errors"
)

// Handler receives decoded events in stream order. Handlers must not block;
// the reader goroutine delivers events one at a time.
type Handler func(pipeline.Event)

// Opener dials per-job event streams on the TenderFit server. It keeps its
// own HTTP client with no request timeout, since streams stay open for the
// full lifetime of a job.
type Opener struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewOpener creates an Opener for the given server base URL.
func NewOpener(baseURL string, log *logger.Logger) *Opener {
	if log == nil {
		log = logger.Discard()
	}
	return &Opener{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     log,
	}
}

// Stream is one open server-push channel for a job. Close is idempotent and
// fences the handler: no event is dispatched after Close has been observed.
type Stream struct {
	cancel context.CancelFunc
	body   io.ReadCloser

	closeOnce sync.Once
	closed    atomic.Bool
	done      chan struct{}
}

// Open starts streaming events for jobID, invoking handler for each decoded
// message until a terminal event arrives or the stream is closed.
func (o *Opener) Open(ctx context.Context, phase pipeline.JobKind, jobID string, handler Handler) (*Stream, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	endpoint := fmt.Sprintf("%s/api/jobs/%s/events", o.baseURL, jobID)
	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		cancel()
		return nil, tenderrors.NewStreamError(string(phase), jobID, err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := o.http.Do(req)
	if err != nil {
		cancel()
		return nil, tenderrors.NewStreamError(string(phase), jobID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, tenderrors.NewStreamError(string(phase), jobID, fmt.Errorf("status %d", resp.StatusCode))
	}

	s := &Stream{
		cancel: cancel,
		body:   resp.Body,
		done:   make(chan struct{}),
	}

	log := o.log.WithJob(string(phase), jobID)
	log.Debug("stream open")
	go s.read(log, handler)

	return s, nil
}

// Done is closed once the reader goroutine has exited.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Close tears the stream down. Safe to call more than once and after the
// stream has already ended on its own; later events are never dispatched.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.cancel()
		s.body.Close()
	})
	return nil
}

func (s *Stream) read(log *logger.Logger, handler Handler) {
	defer close(s.done)
	defer s.body.Close()

	scanner := bufio.NewScanner(s.body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data []string
	for scanner.Scan() {
		line := scanner.Text()

		// SSE frame boundary: dispatch the accumulated data lines.
		if line == "" {
			if len(data) == 0 {
				continue
			}
			payload := strings.Join(data, "\n")
			data = data[:0]
			if s.dispatch(log, handler, payload) {
				return
			}
			continue
		}

		if value, ok := strings.CutPrefix(line, "data:"); ok {
			data = append(data, strings.TrimPrefix(value, " "))
		}
	}

	// Stream ended without a blank line after the last frame.
	if len(data) > 0 {
		s.dispatch(log, handler, strings.Join(data, "\n"))
	}

	if err := scanner.Err(); err != nil && !s.closed.Load() {
		log.Debug("stream reader stopped: " + err.Error())
	}
}

// dispatch decodes one frame and hands it to the handler. It reports whether
// the reader should stop, either because the stream was closed or because a
// terminal event arrived.
func (s *Stream) dispatch(log *logger.Logger, handler Handler, payload string) bool {
	if s.closed.Load() {
		return true
	}

	ev, err := pipeline.DecodeEvent([]byte(payload))
	if err != nil {
		log.Debug("skipping undecodable event: " + err.Error())
		return false
	}

	// Periodic status heartbeats carry no state the handlers act on.
	if ev.Type == pipeline.EventStatus {
		return false
	}

	handler(ev)
	return ev.Terminal()
}
