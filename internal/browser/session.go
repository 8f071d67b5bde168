// internal/browser/session.go

// Package browser owns the connection to the inspected page: the Chrome
// session, the injected page agent, and the walker, resolver, and renderer
// implementations built on top of it.
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/lens-cli/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PageEvent is one input event reported by the page agent.
type PageEvent struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Alt  bool    `json:"alt"`
	Key  string  `json:"key"`
	// Resize payload.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// scriptRunner evaluates a JavaScript expression in the page and unmarshals
// its result. Session implements it; tests substitute a fake.
type scriptRunner interface {
	eval(ctx context.Context, expr string, out interface{}) error
}

// Session is one attached browser tab. It launches the browser, injects the
// page agent, and surfaces agent input events on a channel.
type Session struct {
	id     string
	logger *zap.Logger
	cfg    *config.Config

	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	events chan PageEvent

	mu       sync.Mutex
	isClosed bool
}

// NewSession launches a browser instance and connects a fresh tab.
func NewSession(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Session, error) {
	sessionID := uuid.New().String()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Browser().Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.Browser().IgnoreTLSErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}
	for _, arg := range cfg.Browser().Args {
		opts = append(opts, chromedp.Flag(arg, true))
	}
	if vp := cfg.Browser().Viewport; vp["width"] > 0 && vp["height"] > 0 {
		opts = append(opts, chromedp.WindowSize(vp["width"], vp["height"]))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)

	ctxOpts := []chromedp.ContextOption{}
	if cfg.Browser().Debug {
		ctxOpts = append(ctxOpts, chromedp.WithDebugf(logger.Sugar().Debugf))
	}
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, ctxOpts...)

	s := &Session{
		id:          sessionID,
		logger:      logger.With(zap.String("session_id", sessionID)),
		cfg:         cfg,
		allocCancel: allocCancel,
		ctx:         tabCtx,
		cancel:      tabCancel,
		events:      make(chan PageEvent, 256),
	}

	// Establish the CDP connection before anything else touches the tab.
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to connect browser tab: %w", err)
	}

	if err := s.installAgent(ctx, sessionID); err != nil {
		s.Close()
		return nil, err
	}

	s.logger.Info("Browser session started.")
	return s, nil
}

// installAgent registers the input event binding and injects the page agent
// into every document the tab loads.
func (s *Session) installAgent(ctx context.Context, marker string) error {
	if err := s.runActions(ctx, runtime.AddBinding(emitBinding)); err != nil {
		return fmt.Errorf("failed to add event binding: %w", err)
	}

	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		bc, ok := ev.(*runtime.EventBindingCalled)
		if !ok || bc.Name != emitBinding {
			return
		}
		var event PageEvent
		if err := json.Unmarshal([]byte(bc.Payload), &event); err != nil {
			s.logger.Error("Could not unmarshal page event payload.",
				zap.Error(err), zap.String("payload", bc.Payload))
			return
		}
		select {
		case s.events <- event:
		default:
			// The event loop coalesces anyway; dropping under backpressure
			// loses nothing the next event does not carry.
		}
	})

	script := agentScript(marker)
	if err := s.injectScriptPersistently(ctx, script); err != nil {
		return err
	}
	// The persistent script only covers future documents; seed the current
	// one too.
	if err := s.eval(ctx, script, nil); err != nil {
		return fmt.Errorf("failed to seed page agent: %w", err)
	}
	return nil
}

// injectScriptPersistently adds a script evaluated on every new document.
func (s *Session) injectScriptPersistently(ctx context.Context, script string) error {
	var scriptID page.ScriptIdentifier
	err := s.runActions(ctx, chromedp.ActionFunc(func(c context.Context) error {
		var err error
		scriptID, err = page.AddScriptToEvaluateOnNewDocument(script).Do(c)
		return err
	}))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("could not inject persistent script: %w", err)
	}
	s.logger.Debug("Injected persistent agent script.", zap.String("scriptID", string(scriptID)))
	return nil
}

// Navigate loads the target page and waits for it to settle.
func (s *Session) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.Network().NavigationTimeout)
	defer cancel()

	var tasks chromedp.Tasks

	if headers := s.cfg.Network().Headers; len(headers) > 0 {
		h := make(network.Headers, len(headers))
		for k, v := range headers {
			h[k] = v
		}
		tasks = append(tasks, network.Enable(), network.SetExtraHTTPHeaders(h))
	}

	tasks = append(tasks,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.cfg.Network().PostLoadWait),
	)

	if err := s.runActions(navCtx, tasks...); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	s.logger.Info("Navigation complete.", zap.String("url", url))
	return nil
}

// Events returns the agent's input event stream.
func (s *Session) Events() <-chan PageEvent {
	return s.events
}

// ID returns the session identifier, which doubles as the overlay marker.
func (s *Session) ID() string {
	return s.id
}

// eval runs a JavaScript expression in the page and unmarshals the result
// into out (out may be nil when no result is expected).
func (s *Session) eval(ctx context.Context, expr string, out interface{}) error {
	return s.runActions(ctx, chromedp.Evaluate(expr, out))
}

// runActions executes chromedp actions respecting both the session lifetime
// and the incoming request context.
func (s *Session) runActions(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := combineContext(s.ctx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// Close terminates the tab and the browser process.
func (s *Session) Close() {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("Closing browser session.")
	if s.cancel != nil {
		s.cancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
}

// combineContext derives a context that is cancelled when either parent is.
func combineContext(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
