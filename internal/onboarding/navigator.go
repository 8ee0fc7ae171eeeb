// Package onboarding implements the tenant-creation wizard core: the
// cumulative field store, the per-step validators, the gated step navigator
// and the commit orchestrator. The package has no UI; the TUI drives it and
// renders its state.
package onboarding

import (
	"context"
	"errors"
	"sync"

	"github.com/ringsight/ringsight/internal/api"
	"github.com/ringsight/ringsight/internal/logger"
)

var (
	// ErrBusy is returned while a validation, connectivity test or commit is
	// in flight. Callers suppress it rather than surfacing it; a second Next
	// is coalesced into the one already running.
	ErrBusy = errors.New("onboarding: operation already in flight")

	// ErrTerminated is returned once the wizard has committed or been
	// cancelled; no further mutation is possible.
	ErrTerminated = errors.New("onboarding: wizard is no longer active")
)

// State is a point-in-time snapshot of the wizard, safe to render from.
type State struct {
	Step                int
	Fields              Fields
	Submitting          bool
	LastValidationError string
	Done                bool
	TenantID            string
}

// NextResult reports what a Next call did.
type NextResult struct {
	Step      int    // step after the call
	Failure   string // non-empty when validation or commit blocked advancement
	Committed bool   // true when the terminal commit succeeded
	TenantID  string // set when Committed
}

// Navigator is the wizard state machine. Forward transitions are gated by
// the step validators; backward transitions are unconditional; the terminal
// step's forward transition runs the commit instead of advancing.
type Navigator struct {
	mu         sync.Mutex
	busy       bool // a Next or connectivity test is in flight
	submitting bool // the commit call is in flight
	cancelled  bool
	done       bool
	tenantID   string

	step                int
	fields              Fields
	lastValidationError string

	validators map[int]ValidateFunc
	creator    TenantCreator
}

// NewNavigator creates a fresh wizard: all fields at their defaults,
// positioned at the first step. The catalog, availability checker and
// creator are fixed for the navigator's lifetime.
func NewNavigator(cat Catalog, checker SubdomainChecker, creator TenantCreator) *Navigator {
	return &Navigator{
		step:       FirstStep,
		fields:     DefaultFields(),
		validators: stepValidators(cat, checker),
		creator:    creator,
	}
}

// State returns a snapshot of the current wizard state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return State{
		Step:                n.step,
		Fields:              n.fields.clone(),
		Submitting:          n.submitting,
		LastValidationError: n.lastValidationError,
		Done:                n.done,
		TenantID:            n.tenantID,
	}
}

// Update merge-mutates the field store through apply. Fields not touched by
// apply keep their values. Editing any PBX credential invalidates an
// existing connectivity proof back to untested. Rejected while any network
// call is in flight or after the wizard terminated.
func (n *Navigator) Update(apply func(*Fields)) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancelled || n.done {
		return ErrTerminated
	}
	if n.busy || n.submitting {
		return ErrBusy
	}

	before := n.fields.pbxCreds()
	apply(&n.fields)
	if n.fields.pbxCreds() != before && n.fields.Connection.State != ConnUntested {
		logger.Debug("onboarding: PBX credentials edited, dropping %s connection proof", n.fields.Connection.State)
		n.fields.Connection = ConnectionStatus{}
	}

	n.lastValidationError = ""
	return nil
}

// Next validates the current step and advances on success. At the terminal
// step it commits instead. Validation failure and commit failure are
// reported in the result, not as an error; the error return is only ErrBusy
// or ErrTerminated.
func (n *Navigator) Next(ctx context.Context) (NextResult, error) {
	n.mu.Lock()
	if n.cancelled || n.done {
		n.mu.Unlock()
		return NextResult{}, ErrTerminated
	}
	if n.busy || n.submitting {
		n.mu.Unlock()
		return NextResult{}, ErrBusy
	}
	n.busy = true
	n.lastValidationError = "" // a new validation attempt begins
	step := n.step
	snapshot := n.fields.clone()
	validate := n.validators[step]
	n.mu.Unlock()

	// The validator reads a snapshot so network-backed checks do not hold
	// the lock. The busy flag keeps the fields stable underneath it.
	err := validate(ctx, &snapshot)

	n.mu.Lock()
	if n.cancelled {
		// The wizard was torn down while the check was in flight; the
		// late result must not be applied.
		n.busy = false
		n.mu.Unlock()
		logger.Debug("onboarding: validation resolved after cancel, dropped")
		return NextResult{}, ErrTerminated
	}
	if err != nil {
		n.busy = false
		n.lastValidationError = err.Error()
		result := NextResult{Step: n.step, Failure: err.Error()}
		n.mu.Unlock()
		logger.Debug("onboarding: step %d blocked: %s", step, err.Error())
		return result, nil
	}

	if step < LastStep {
		n.step++
		n.busy = false
		result := NextResult{Step: n.step}
		n.mu.Unlock()
		logger.Debug("onboarding: advanced to step %d", result.Step)
		return result, nil
	}

	// Terminal step passed validation: commit.
	req, buildErr := BuildCreateRequest(&n.fields)
	if buildErr != nil {
		n.busy = false
		n.lastValidationError = buildErr.Error()
		result := NextResult{Step: n.step, Failure: buildErr.Error()}
		n.mu.Unlock()
		return result, nil
	}
	n.submitting = true
	n.mu.Unlock()

	logger.Info("onboarding: creating tenant %q (subdomain %s)", req.CompanyName, req.Subdomain)
	resp, commitErr := n.creator.CreateTenant(ctx, req)

	n.mu.Lock()
	n.submitting = false
	n.busy = false
	if n.cancelled {
		n.mu.Unlock()
		logger.Debug("onboarding: commit resolved after cancel, dropped")
		return NextResult{}, ErrTerminated
	}
	if commitErr != nil {
		// Fields stay intact so the user can correct and resubmit.
		n.lastValidationError = commitErr.Error()
		result := NextResult{Step: n.step, Failure: commitErr.Error()}
		n.mu.Unlock()
		logger.Error("onboarding: tenant creation failed: %v", commitErr)
		return result, nil
	}
	n.done = true
	n.tenantID = resp.TenantID
	result := NextResult{Step: n.step, Committed: true, TenantID: resp.TenantID}
	n.mu.Unlock()
	logger.Info("onboarding: tenant created: %s", resp.TenantID)
	return result, nil
}

// Back moves to the previous step. It never validates and never touches
// fields. Only the in-flight guard can reject it.
func (n *Navigator) Back() (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancelled || n.done {
		return 0, ErrTerminated
	}
	if n.busy || n.submitting {
		return 0, ErrBusy
	}
	if n.step > FirstStep {
		n.step--
	}
	return n.step, nil
}

// Cancel terminates the wizard and discards its state. No external call is
// made; a creation that never committed leaves nothing behind.
func (n *Navigator) Cancel() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.done {
		return
	}
	n.cancelled = true
	n.fields = Fields{}
	logger.Debug("onboarding: wizard cancelled")
}

// BeginConnectionTest marks the PBX credentials as being tested and returns
// the request for the caller to run. It fails fast on incomplete
// credentials so a test is never dispatched with fields the validator would
// reject anyway. While the test runs the wizard is locked the same way it
// is during validation.
func (n *Navigator) BeginConnectionTest() (api.PhoneSystemTestRequest, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancelled || n.done {
		return api.PhoneSystemTestRequest{}, ErrTerminated
	}
	if n.busy || n.submitting {
		return api.PhoneSystemTestRequest{}, ErrBusy
	}
	if err := connectionTestable(&n.fields); err != nil {
		return api.PhoneSystemTestRequest{}, err
	}

	req, err := buildConnectionTest(&n.fields)
	if err != nil {
		return api.PhoneSystemTestRequest{}, err
	}
	n.busy = true
	n.fields.Connection = ConnectionStatus{State: ConnTesting}
	n.lastValidationError = ""
	return req, nil
}

// FinishConnectionTest records the outcome of a test started with
// BeginConnectionTest and releases the in-flight guard.
func (n *Navigator) FinishConnectionTest(result api.PhoneSystemTestResult, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancelled || n.done {
		return // stale result against a torn-down wizard: dropped
	}
	n.busy = false
	switch {
	case err != nil:
		n.fields.Connection = ConnectionStatus{State: ConnFailed, Reason: err.Error()}
	case !result.Success:
		reason := result.Message
		if reason == "" {
			reason = "PBX rejected the connection"
		}
		n.fields.Connection = ConnectionStatus{State: ConnFailed, Reason: reason}
	default:
		n.fields.Connection = ConnectionStatus{State: ConnVerified}
	}
	logger.Debug("onboarding: connection test finished: %s", n.fields.Connection.State)
}
