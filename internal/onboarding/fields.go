package onboarding

// ConnectionState is the lifecycle of the PBX connectivity proof. It is a
// tagged status instead of a plain boolean so that editing credentials after
// a successful test can explicitly drop the proof back to untested.
type ConnectionState int

const (
	ConnUntested ConnectionState = iota
	ConnTesting
	ConnVerified
	ConnFailed
)

// String returns the user-facing label for a connection state.
func (s ConnectionState) String() string {
	switch s {
	case ConnUntested:
		return "untested"
	case ConnTesting:
		return "testing"
	case ConnVerified:
		return "verified"
	case ConnFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ConnectionStatus pairs the state with the failure reason when tested
// credentials were rejected.
type ConnectionStatus struct {
	State  ConnectionState
	Reason string
}

// Fields is the cumulative field store: every value collected across all
// five steps lives here. Navigating between steps never clears a field;
// values are only overwritten by explicit edits.
type Fields struct {
	// Step 1 - Company
	CompanyName string
	Subdomain   string
	Industry    string
	CompanySize string

	// Step 2 - Phone system
	PhoneSystemType string
	PBXHost         string
	PBXPort         string // kept as text until commit
	PBXUsername     string
	PBXPassword     string
	WebhookUsername string
	WebhookPassword string
	Connection      ConnectionStatus

	// Step 3 - AI features
	Features       []string          // selected feature keys, in selection order
	FeaturePrompts map[string]string // per-feature prompt, keyed by feature key

	// Step 4 - Admin user
	AdminEmail    string
	AdminPassword string
	AdminFullName string
	AdminPhone    string

	// Step 5 - Plan
	Plan           string
	SubscriptionID string
}

// DefaultFields returns the documented starting values for a fresh wizard.
func DefaultFields() Fields {
	return Fields{
		PhoneSystemType: "grandstream_ucm",
		PBXPort:         "8089",
		FeaturePrompts:  map[string]string{},
	}
}

// HasFeature reports whether the feature key is currently selected.
func (f *Fields) HasFeature(key string) bool {
	for _, k := range f.Features {
		if k == key {
			return true
		}
	}
	return false
}

// ToggleFeature selects or deselects a feature. Selecting (re-)loads the
// catalog's default prompt for it; this is the one sanctioned overwrite of
// an already-entered field. Deselecting keeps any prompt edits so a
// mis-click does not lose work.
func (f *Fields) ToggleFeature(feat Feature) {
	if f.FeaturePrompts == nil {
		f.FeaturePrompts = map[string]string{}
	}
	for i, k := range f.Features {
		if k == feat.Key {
			f.Features = append(f.Features[:i], f.Features[i+1:]...)
			return
		}
	}
	f.Features = append(f.Features, feat.Key)
	f.FeaturePrompts[feat.Key] = feat.DefaultPrompt
}

// pbxCredentials captures the fields certified by a connectivity test.
type pbxCredentials struct {
	systemType, host, port, username, password string
}

func (f *Fields) pbxCreds() pbxCredentials {
	return pbxCredentials{
		systemType: f.PhoneSystemType,
		host:       f.PBXHost,
		port:       f.PBXPort,
		username:   f.PBXUsername,
		password:   f.PBXPassword,
	}
}

// clone returns a deep copy so validators can read a snapshot without
// holding the navigator's lock.
func (f *Fields) clone() Fields {
	out := *f
	out.Features = append([]string(nil), f.Features...)
	out.FeaturePrompts = make(map[string]string, len(f.FeaturePrompts))
	for k, v := range f.FeaturePrompts {
		out.FeaturePrompts[k] = v
	}
	return out
}
