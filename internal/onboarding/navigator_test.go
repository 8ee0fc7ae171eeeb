package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringsight/ringsight/internal/api"
)

// fakeChecker is a scriptable subdomain-availability check.
type fakeChecker struct {
	available bool
	err       error
	calls     int
	got       string

	// When set, CheckSubdomain blocks until the channel is closed and
	// signals entry on entered.
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeChecker) CheckSubdomain(ctx context.Context, subdomain string) (bool, error) {
	f.calls++
	f.got = subdomain
	if f.block != nil {
		close(f.entered)
		<-f.block
	}
	return f.available, f.err
}

// fakeCreator is a scriptable tenant-creation call.
type fakeCreator struct {
	resp  api.TenantCreateResponse
	err   error
	calls int
	got   api.TenantCreateRequest

	// When set, CreateTenant blocks until the channel is closed and
	// signals entry on entered.
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeCreator) CreateTenant(ctx context.Context, req api.TenantCreateRequest) (api.TenantCreateResponse, error) {
	f.calls++
	f.got = req
	if f.block != nil {
		close(f.entered)
		<-f.block
	}
	return f.resp, f.err
}

func newTestNavigator(checker *fakeChecker, creator *fakeCreator) *Navigator {
	return NewNavigator(DefaultCatalog(), checker, creator)
}

// fillCompany populates step 1 with valid values.
func fillCompany(f *Fields) {
	f.CompanyName = "Acme"
	f.Subdomain = "acme"
	f.Industry = "retail"
	f.CompanySize = "11-50"
}

// fillPhone populates step 2 credentials (the proof is made separately).
func fillPhone(f *Fields) {
	f.PBXHost = "10.0.0.5"
	f.PBXPort = "8089"
	f.PBXUsername = "cdrapi"
	f.PBXPassword = "pbx-secret"
	f.WebhookUsername = "hook"
	f.WebhookPassword = "hook-secret"
}

func fillAdmin(f *Fields) {
	f.AdminEmail = "ada@acme.test"
	f.AdminPassword = "longenough"
	f.AdminFullName = "Ada Admin"
	f.AdminPhone = "+15550100"
}

// verifyConnection runs the explicit connectivity-test flow to a Verified
// proof, the way the TUI does.
func verifyConnection(t *testing.T, nav *Navigator) {
	t.Helper()
	_, err := nav.BeginConnectionTest()
	require.NoError(t, err)
	nav.FinishConnectionTest(api.PhoneSystemTestResult{Success: true}, nil)
	require.Equal(t, ConnVerified, nav.State().Fields.Connection.State)
}

// advanceTo drives a fully-filled wizard forward to the given step.
func advanceTo(t *testing.T, nav *Navigator, step int) {
	t.Helper()
	require.NoError(t, nav.Update(func(f *Fields) {
		fillCompany(f)
		fillPhone(f)
		fillAdmin(f)
		f.Plan = "starter"
		f.SubscriptionID = "sub-123"
	}))
	verifyConnection(t, nav)
	cat := DefaultCatalog()
	require.NoError(t, nav.Update(func(f *Fields) {
		feat, _ := cat.FeatureByKey("transcription")
		f.ToggleFeature(feat)
	}))

	for nav.State().Step < step {
		res, err := nav.Next(context.Background())
		require.NoError(t, err)
		require.Empty(t, res.Failure, "unexpected validation failure at step %d", res.Step)
	}
	require.Equal(t, step, nav.State().Step)
}

func TestNewNavigator_Defaults(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{}, &fakeCreator{})
	st := nav.State()

	assert.Equal(t, StepCompany, st.Step)
	assert.False(t, st.Submitting)
	assert.Empty(t, st.LastValidationError)
	assert.Equal(t, "grandstream_ucm", st.Fields.PhoneSystemType)
	assert.Equal(t, "8089", st.Fields.PBXPort)
	assert.Equal(t, ConnUntested, st.Fields.Connection.State)
}

func TestNext_Step1_AdvancesWhenSubdomainAvailable(t *testing.T) {
	checker := &fakeChecker{available: true}
	nav := newTestNavigator(checker, &fakeCreator{})
	require.NoError(t, nav.Update(fillCompany))

	res, err := nav.Next(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.Failure)
	assert.Equal(t, StepPhone, res.Step)
	assert.Equal(t, StepPhone, nav.State().Step)
	assert.Equal(t, "acme", checker.got)
	assert.Equal(t, 1, checker.calls)
}

func TestNext_Step1_StaysWhenSubdomainTaken(t *testing.T) {
	checker := &fakeChecker{available: false}
	nav := newTestNavigator(checker, &fakeCreator{})
	require.NoError(t, nav.Update(fillCompany))

	res, err := nav.Next(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.Failure)
	assert.Equal(t, StepCompany, nav.State().Step)
	assert.NotEmpty(t, nav.State().LastValidationError)
}

func TestNext_Step1_CheckErrorBlocksAdvancement(t *testing.T) {
	checker := &fakeChecker{err: errors.New("gateway timeout")}
	nav := newTestNavigator(checker, &fakeCreator{})
	require.NoError(t, nav.Update(fillCompany))

	res, err := nav.Next(context.Background())
	require.NoError(t, err)

	assert.Contains(t, res.Failure, "could not verify")
	assert.Equal(t, StepCompany, nav.State().Step)
	// Not retried automatically.
	assert.Equal(t, 1, checker.calls)
}

func TestNext_FailedValidationNeverAdvances(t *testing.T) {
	// An empty wizard fails step 1 locally without touching the network.
	checker := &fakeChecker{available: true}
	nav := newTestNavigator(checker, &fakeCreator{})

	res, err := nav.Next(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.Failure)
	assert.Equal(t, StepCompany, nav.State().Step)
	assert.Zero(t, checker.calls, "local failure must not invoke the remote check")
}

func TestNext_Step4_ShortPasswordBlocks(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{available: true}, &fakeCreator{})
	advanceTo(t, nav, StepAdmin)

	require.NoError(t, nav.Update(func(f *Fields) {
		f.AdminEmail = "a@b.com"
		f.AdminPassword = "short"
		f.AdminFullName = "A"
	}))

	res, err := nav.Next(context.Background())
	require.NoError(t, err)

	assert.Contains(t, res.Failure, "8 characters")
	assert.Equal(t, StepAdmin, nav.State().Step)
}

func TestBack_AlwaysDecrementsAndNeverTouchesFields(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{available: true}, &fakeCreator{})
	advanceTo(t, nav, StepFeatures)

	before := nav.State().Fields

	step, err := nav.Back()
	require.NoError(t, err)
	assert.Equal(t, StepPhone, step)

	step, err = nav.Back()
	require.NoError(t, err)
	assert.Equal(t, StepCompany, step)

	// Back at the first step is a no-op, not an error.
	step, err = nav.Back()
	require.NoError(t, err)
	assert.Equal(t, StepCompany, step)

	assert.Equal(t, before, nav.State().Fields)
}

func TestFields_SurviveRoundTripNavigation(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{available: true}, &fakeCreator{})
	advanceTo(t, nav, StepFeatures)

	_, err := nav.Back()
	require.NoError(t, err)
	_, err = nav.Back()
	require.NoError(t, err)

	st := nav.State()
	assert.Equal(t, "Acme", st.Fields.CompanyName)
	assert.Equal(t, "10.0.0.5", st.Fields.PBXHost)
	assert.Equal(t, []string{"transcription"}, st.Fields.Features)
	assert.Equal(t, ConnVerified, st.Fields.Connection.State)
}

func TestUpdate_Idempotent(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{}, &fakeCreator{})

	patch := func(f *Fields) {
		f.CompanyName = "Acme"
		f.Industry = "retail"
	}
	require.NoError(t, nav.Update(patch))
	once := nav.State().Fields

	require.NoError(t, nav.Update(patch))
	twice := nav.State().Fields

	assert.Equal(t, once, twice)
}

func TestUpdate_MergesWithoutClearing(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{}, &fakeCreator{})

	require.NoError(t, nav.Update(func(f *Fields) { f.CompanyName = "Acme" }))
	require.NoError(t, nav.Update(func(f *Fields) { f.Industry = "retail" }))

	st := nav.State()
	assert.Equal(t, "Acme", st.Fields.CompanyName)
	assert.Equal(t, "retail", st.Fields.Industry)
}

func TestUpdate_ClearsLastValidationError(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{available: false}, &fakeCreator{})
	require.NoError(t, nav.Update(fillCompany))

	_, err := nav.Next(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, nav.State().LastValidationError)

	require.NoError(t, nav.Update(func(f *Fields) { f.Subdomain = "acme-hq" }))
	assert.Empty(t, nav.State().LastValidationError)
}

func TestUpdate_EditingCredentialsDropsProof(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{}, &fakeCreator{})
	require.NoError(t, nav.Update(fillPhone))
	verifyConnection(t, nav)

	require.NoError(t, nav.Update(func(f *Fields) { f.PBXPassword = "rotated" }))

	assert.Equal(t, ConnUntested, nav.State().Fields.Connection.State)
}

func TestUpdate_NonCredentialEditKeepsProof(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{}, &fakeCreator{})
	require.NoError(t, nav.Update(fillPhone))
	verifyConnection(t, nav)

	require.NoError(t, nav.Update(func(f *Fields) { f.WebhookUsername = "other" }))

	assert.Equal(t, ConnVerified, nav.State().Fields.Connection.State)
}

func TestNext_Step2_RequiresProof(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{available: true}, &fakeCreator{})
	require.NoError(t, nav.Update(func(f *Fields) {
		fillCompany(f)
		fillPhone(f)
	}))

	_, err := nav.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, StepPhone, nav.State().Step)

	// Credentials complete but never tested.
	res, err := nav.Next(context.Background())
	require.NoError(t, err)
	assert.Contains(t, res.Failure, "connection test")
	assert.Equal(t, StepPhone, nav.State().Step)
}

func TestConnectionTest_FailureRecordsReason(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{}, &fakeCreator{})
	require.NoError(t, nav.Update(fillPhone))

	_, err := nav.BeginConnectionTest()
	require.NoError(t, err)
	assert.Equal(t, ConnTesting, nav.State().Fields.Connection.State)

	nav.FinishConnectionTest(api.PhoneSystemTestResult{Success: false, Message: "auth rejected"}, nil)

	conn := nav.State().Fields.Connection
	assert.Equal(t, ConnFailed, conn.State)
	assert.Equal(t, "auth rejected", conn.Reason)
}

func TestConnectionTest_IncompleteCredentialsRejected(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{}, &fakeCreator{})

	_, err := nav.BeginConnectionTest()
	require.Error(t, err)
	assert.Equal(t, ConnUntested, nav.State().Fields.Connection.State)
}

func TestConnectionTest_BlocksOtherOperations(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{}, &fakeCreator{})
	require.NoError(t, nav.Update(fillPhone))

	_, err := nav.BeginConnectionTest()
	require.NoError(t, err)

	assert.ErrorIs(t, nav.Update(func(f *Fields) { f.PBXHost = "x" }), ErrBusy)
	_, err = nav.Back()
	assert.ErrorIs(t, err, ErrBusy)
	_, err = nav.Next(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	nav.FinishConnectionTest(api.PhoneSystemTestResult{Success: true}, nil)
	assert.NoError(t, nav.Update(func(f *Fields) { f.WebhookUsername = "hook" }))
}

func TestNext_SecondCallWhileInFlightIsSuppressed(t *testing.T) {
	checker := &fakeChecker{
		available: true,
		block:     make(chan struct{}),
		entered:   make(chan struct{}),
	}
	nav := newTestNavigator(checker, &fakeCreator{})
	require.NoError(t, nav.Update(fillCompany))

	done := make(chan NextResult, 1)
	go func() {
		res, _ := nav.Next(context.Background())
		done <- res
	}()

	<-checker.entered // first Next is inside the remote check

	_, err := nav.Next(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, nav.Update(func(f *Fields) { f.CompanyName = "x" }), ErrBusy)

	close(checker.block)
	res := <-done
	assert.Empty(t, res.Failure)
	assert.Equal(t, StepPhone, nav.State().Step)
	assert.Equal(t, 1, checker.calls)
}

func TestCommit_SuccessTerminatesWizard(t *testing.T) {
	creator := &fakeCreator{resp: api.TenantCreateResponse{TenantID: "t1"}}
	nav := newTestNavigator(&fakeChecker{available: true}, creator)
	advanceTo(t, nav, StepPlan)

	res, err := nav.Next(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Committed)
	assert.Equal(t, "t1", res.TenantID)
	assert.Equal(t, 1, creator.calls, "commit transform must run exactly once")

	// Payload projection: admin_user nested from the four flat fields,
	// port converted to int.
	assert.Equal(t, "ada@acme.test", creator.got.AdminUser.Email)
	assert.Equal(t, "longenough", creator.got.AdminUser.Password)
	assert.Equal(t, "Ada Admin", creator.got.AdminUser.FullName)
	assert.Equal(t, "+15550100", creator.got.AdminUser.Phone)
	assert.Equal(t, 8089, creator.got.PBXPort)
	assert.Equal(t, []string{"transcription"}, creator.got.AIFeatures)
	assert.Equal(t, "starter", creator.got.Plan)
	assert.Equal(t, "sub-123", creator.got.SubscriptionID)

	// Torn down: no further mutation possible.
	st := nav.State()
	assert.True(t, st.Done)
	assert.Equal(t, "t1", st.TenantID)
	assert.ErrorIs(t, nav.Update(func(f *Fields) { f.CompanyName = "x" }), ErrTerminated)
	_, err = nav.Next(context.Background())
	assert.ErrorIs(t, err, ErrTerminated)
	_, err = nav.Back()
	assert.ErrorIs(t, err, ErrTerminated)
}

func TestCommit_FailureKeepsFieldsForResubmission(t *testing.T) {
	creator := &fakeCreator{err: errors.New("subdomain already registered")}
	nav := newTestNavigator(&fakeChecker{available: true}, creator)
	advanceTo(t, nav, StepPlan)

	res, err := nav.Next(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Committed)
	assert.Equal(t, "subdomain already registered", res.Failure)

	st := nav.State()
	assert.False(t, st.Done)
	assert.False(t, st.Submitting)
	assert.Equal(t, StepPlan, st.Step)
	assert.Equal(t, "Acme", st.Fields.CompanyName, "fields survive a failed commit")

	// Manual resubmission works; no automatic retry happened in between.
	require.Equal(t, 1, creator.calls)
	creator.err = nil
	creator.resp = api.TenantCreateResponse{TenantID: "t2"}
	res, err = nav.Next(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Committed)
	assert.Equal(t, "t2", res.TenantID)
	assert.Equal(t, 2, creator.calls)
}

func TestCancel_DiscardsStateWithoutExternalCall(t *testing.T) {
	creator := &fakeCreator{}
	nav := newTestNavigator(&fakeChecker{available: true}, creator)
	require.NoError(t, nav.Update(fillCompany))

	nav.Cancel()

	assert.Zero(t, creator.calls)
	assert.ErrorIs(t, nav.Update(func(f *Fields) { f.CompanyName = "x" }), ErrTerminated)
	_, err := nav.Next(context.Background())
	assert.ErrorIs(t, err, ErrTerminated)
}

func TestNext_ValidationResolvingAfterCancelIsDropped(t *testing.T) {
	checker := &fakeChecker{
		available: true,
		block:     make(chan struct{}),
		entered:   make(chan struct{}),
	}
	nav := newTestNavigator(checker, &fakeCreator{})
	require.NoError(t, nav.Update(fillCompany))

	done := make(chan error, 1)
	go func() {
		_, err := nav.Next(context.Background())
		done <- err
	}()

	<-checker.entered // Next is inside the remote check
	nav.Cancel()
	close(checker.block)

	// The late pass result must not advance the cancelled wizard.
	assert.ErrorIs(t, <-done, ErrTerminated)
	assert.Equal(t, FirstStep, nav.State().Step)
	assert.False(t, nav.State().Done)
}

func TestNext_CommitResolvingAfterCancelIsDropped(t *testing.T) {
	creator := &fakeCreator{
		resp:    api.TenantCreateResponse{TenantID: "t-late"},
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	nav := newTestNavigator(&fakeChecker{available: true}, creator)
	advanceTo(t, nav, StepPlan)

	done := make(chan error, 1)
	go func() {
		_, err := nav.Next(context.Background())
		done <- err
	}()

	<-creator.entered // Next is inside the creation call
	nav.Cancel()
	close(creator.block)

	// A commit resolving after teardown must not mark the wizard done or
	// record a tenant id.
	assert.ErrorIs(t, <-done, ErrTerminated)
	st := nav.State()
	assert.False(t, st.Done)
	assert.Empty(t, st.TenantID)
}

func TestFinishConnectionTest_AfterCancelIsDropped(t *testing.T) {
	nav := newTestNavigator(&fakeChecker{}, &fakeCreator{})
	require.NoError(t, nav.Update(fillPhone))

	_, err := nav.BeginConnectionTest()
	require.NoError(t, err)

	nav.Cancel()

	// A result resolving after teardown must not be applied.
	nav.FinishConnectionTest(api.PhoneSystemTestResult{Success: true}, nil)
	assert.NotEqual(t, ConnVerified, nav.State().Fields.Connection.State)
}
