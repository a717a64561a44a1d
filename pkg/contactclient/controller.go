// Package contactclient drives the contact form from the visitor's side:
// local checks, one POST to the intake endpoint, and the idle/loading/
// success/error status the form renders.
package contactclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hh727w/portfolio-api/pkg/contactform"
	"github.com/hh727w/portfolio-api/pkg/httpclient"
	"github.com/hh727w/portfolio-api/pkg/logger"
	"go.uber.org/zap"
)

// Visitor-facing messages
const (
	MsgEnterName     = "Please enter your name."
	MsgEnterEmail    = "Please enter a valid email."
	MsgMessageLength = "Message should be at least 10 characters."
	MsgSendFailed    = "Failed to send message. Please try again."
	MsgUnexpected    = "Something went wrong. Please try again later."
)

// DefaultResetDelay is how long an error stays visible before the form returns to idle
const DefaultResetDelay = 2 * time.Second

// maxErrorBody bounds how much of a failed response is read for its message
const maxErrorBody = 64 << 10

var (
	// ErrSubmitInProgress is returned when Submit is called while a submission is in flight
	ErrSubmitInProgress = errors.New("submission already in progress")
	// ErrClosed is returned by Submit after Close
	ErrClosed = errors.New("controller closed")
)

// SubmitError is a failed submission. Message is what the form shows.
type SubmitError struct {
	Message string
	Cause   error
}

func (e *SubmitError) Error() string { return e.Message }
func (e *SubmitError) Unwrap() error { return e.Cause }

// Options configures a Controller
type Options struct {
	// Endpoint is the absolute URL of the intake endpoint
	Endpoint string
	// HTTPClient defaults to httpclient.NewStandardClient()
	HTTPClient httpclient.Client
	// ResetDelay defaults to DefaultResetDelay
	ResetDelay time.Duration
}

// Controller owns the form fields and the submission status
type Controller struct {
	endpoint   string
	client     httpclient.Client
	resetDelay time.Duration

	mu       sync.Mutex
	form     contactform.Payload
	status   Status
	gen      uint64
	timer    *time.Timer
	onChange func(Status)
	closed   bool
}

// New creates a controller in PhaseIdle
func New(opts Options) (*Controller, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("contactclient: endpoint is required")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = httpclient.NewStandardClient()
	}
	if opts.ResetDelay <= 0 {
		opts.ResetDelay = DefaultResetDelay
	}

	return &Controller{
		endpoint:   opts.Endpoint,
		client:     opts.HTTPClient,
		resetDelay: opts.ResetDelay,
	}, nil
}

// SetForm replaces the form fields
func (c *Controller) SetForm(p contactform.Payload) {
	c.mu.Lock()
	c.form = p
	c.mu.Unlock()
}

// Form returns the current form fields
func (c *Controller) Form() contactform.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Status returns the current status
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// OnChange registers fn to be called after every status change. fn runs
// outside the controller lock and may call Status.
func (c *Controller) OnChange(fn func(Status)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Close cancels a pending reset. Later Submit calls return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Submit sends the current form once. It returns nil on success (including a
// silently dropped honeypot submission), a *SubmitError when the form ends up
// in PhaseError, and ErrSubmitInProgress if another Submit is still running.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.status.Phase == PhaseLoading {
		c.mu.Unlock()
		return ErrSubmitInProgress
	}
	payload := trimPayload(c.form)
	notify := c.applyLocked(SubmitClicked())
	c.mu.Unlock()
	notify()

	if contactform.IsBot(payload.Company) {
		c.finish(HoneypotTripped(), true)
		return nil
	}

	if msg := validate(payload); msg != "" {
		c.finish(ValidationFailed(msg), false)
		return &SubmitError{Message: msg}
	}

	if err := c.post(ctx, payload); err != nil {
		var se *SubmitError
		if !errors.As(err, &se) {
			se = &SubmitError{Message: MsgUnexpected, Cause: err}
		}
		logger.Debug("Contact submission failed", zap.String("message", se.Message), zap.Error(se.Cause))
		c.finish(ResponseFailed(se.Message), false)
		return se
	}

	c.finish(ResponseSucceeded(), true)
	return nil
}

func (c *Controller) finish(e Event, clearForm bool) {
	c.mu.Lock()
	if clearForm {
		c.form = contactform.Payload{}
	}
	notify := c.applyLocked(e)
	c.mu.Unlock()
	notify()
}

// applyLocked moves to the next status, supersedes any pending reset and
// schedules a new one when entering PhaseError. The returned func delivers
// the change notification and must be called without holding c.mu.
func (c *Controller) applyLocked(e Event) func() {
	next := Transition(c.status, e)
	if next == c.status {
		return func() {}
	}

	c.status = next
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if next.Phase == PhaseError && !c.closed {
		gen := c.gen
		c.timer = time.AfterFunc(c.resetDelay, func() { c.fireReset(gen) })
	}

	fn := c.onChange
	return func() {
		if fn != nil {
			fn(next)
		}
	}
}

func (c *Controller) fireReset(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	notify := c.applyLocked(ResetTimerFired())
	c.mu.Unlock()
	notify()
}

func (c *Controller) post(ctx context.Context, payload contactform.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post contact form: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return &SubmitError{
		Message: serverMessage(resp.Body),
		Cause:   fmt.Errorf("intake responded %d", resp.StatusCode),
	}
}

// serverMessage returns the "error" text of a failed response, or the
// generic fallback when there is none.
func serverMessage(body io.Reader) string {
	var data struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&data); err != nil || data.Error == "" {
		return MsgSendFailed
	}
	return data.Error
}

func trimPayload(p contactform.Payload) contactform.Payload {
	return contactform.Payload{
		Name:    strings.TrimSpace(p.Name),
		Email:   strings.TrimSpace(p.Email),
		Message: strings.TrimSpace(p.Message),
		Company: strings.TrimSpace(p.Company),
	}
}

func validate(p contactform.Payload) string {
	switch {
	case contactform.Length(p.Name) < contactform.NameMin:
		return MsgEnterName
	case !contactform.IsValidEmail(p.Email):
		return MsgEnterEmail
	case contactform.Length(p.Message) < contactform.MessageMin:
		return MsgMessageLength
	default:
		return ""
	}
}
