package onboardwizard

import (
	"github.com/ringsight/ringsight/internal/api"
	"github.com/ringsight/ringsight/internal/onboarding"
)

// nextFinishedMsg carries the outcome of an async Next (validation and, at
// the terminal step, the commit). Gen is the wizard generation the call was
// started under; stale results are dropped.
type nextFinishedMsg struct {
	Gen    int
	Result onboarding.NextResult
	Err    error
}

// testConnectionMsg is sent by the phone step when the user triggers the
// explicit connectivity test.
type testConnectionMsg struct{}

// connTestFinishedMsg carries the outcome of the PBX connectivity test. It
// needs no generation guard: the navigator blocks navigation while a test
// runs and drops results that resolve after teardown itself.
type connTestFinishedMsg struct {
	Result api.PhoneSystemTestResult
	Err    error
}

// retryCommitMsg is sent when the user chooses to resubmit after a failed
// commit.
type retryCommitMsg struct{}
