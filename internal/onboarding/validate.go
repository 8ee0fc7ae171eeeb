package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SubdomainChecker is the external availability check used by step 1.
// *api.Client satisfies it.
type SubdomainChecker interface {
	CheckSubdomain(ctx context.Context, subdomain string) (bool, error)
}

// ValidateFunc decides whether the wizard may leave a step. A nil return
// permits forward navigation; a non-nil error's text is the user-facing
// reason it is blocked. Every step uses this signature, network-backed or
// not, so the navigator has a single calling convention.
type ValidateFunc func(ctx context.Context, f *Fields) error

// stepValidators builds the validator table for the five steps.
func stepValidators(cat Catalog, checker SubdomainChecker) map[int]ValidateFunc {
	return map[int]ValidateFunc{
		StepCompany:  validateCompany(checker),
		StepPhone:    validatePhone,
		StepFeatures: validateFeatures,
		StepAdmin:    validateAdmin,
		StepPlan:     validatePlan(cat),
	}
}

func validateCompany(checker SubdomainChecker) ValidateFunc {
	return func(ctx context.Context, f *Fields) error {
		if strings.TrimSpace(f.CompanyName) == "" {
			return errors.New("company name is required")
		}
		sub := strings.TrimSpace(f.Subdomain)
		if sub == "" {
			return errors.New("subdomain is required")
		}
		if err := checkSubdomainFormat(sub); err != nil {
			return err
		}
		if strings.TrimSpace(f.Industry) == "" {
			return errors.New("industry is required")
		}

		available, err := checker.CheckSubdomain(ctx, sub)
		if err != nil {
			// An errored check blocks advancement just like an unavailable
			// subdomain; it is not retried automatically.
			return fmt.Errorf("could not verify subdomain availability: %v", err)
		}
		if !available {
			return fmt.Errorf("subdomain %q is already taken", sub)
		}
		return nil
	}
}

// checkSubdomainFormat enforces DNS-label shape: lowercase alphanumeric and
// hyphens, no leading/trailing hyphen, 3-63 characters.
func checkSubdomainFormat(sub string) error {
	if len(sub) < 3 || len(sub) > 63 {
		return errors.New("subdomain must be 3-63 characters")
	}
	if sub[0] == '-' || sub[len(sub)-1] == '-' {
		return errors.New("subdomain cannot start or end with a hyphen")
	}
	for _, r := range sub {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return errors.New("subdomain may only contain lowercase letters, digits and hyphens")
		}
	}
	return nil
}

// validatePhone requires complete credentials and an existing connectivity
// proof. The proof comes from a separate, explicit test action; this
// validator never runs the test itself, it only checks the status.
func validatePhone(ctx context.Context, f *Fields) error {
	if strings.TrimSpace(f.PBXHost) == "" {
		return errors.New("PBX host is required")
	}
	if err := checkPort(f.PBXPort); err != nil {
		return err
	}
	if strings.TrimSpace(f.PBXUsername) == "" {
		return errors.New("PBX username is required")
	}
	if f.PBXPassword == "" {
		return errors.New("PBX password is required")
	}
	switch f.Connection.State {
	case ConnVerified:
		return nil
	case ConnFailed:
		return fmt.Errorf("connection test failed: %s", f.Connection.Reason)
	case ConnTesting:
		return errors.New("connection test is still running")
	default:
		return errors.New("run the connection test before continuing")
	}
}

// connectionTestable checks the minimum credentials needed to dispatch a
// connectivity test. Looser than validatePhone: it does not require a proof,
// it is how the proof gets made.
func connectionTestable(f *Fields) error {
	if strings.TrimSpace(f.PBXHost) == "" {
		return errors.New("PBX host is required")
	}
	if err := checkPort(f.PBXPort); err != nil {
		return err
	}
	if strings.TrimSpace(f.PBXUsername) == "" {
		return errors.New("PBX username is required")
	}
	if f.PBXPassword == "" {
		return errors.New("PBX password is required")
	}
	return nil
}

func checkPort(port string) error {
	port = strings.TrimSpace(port)
	if port == "" {
		return errors.New("PBX port is required")
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return errors.New("PBX port must be a number between 1 and 65535")
	}
	return nil
}

func validateFeatures(ctx context.Context, f *Fields) error {
	if len(f.Features) == 0 {
		return errors.New("select at least one AI feature")
	}
	return nil
}

func validateAdmin(ctx context.Context, f *Fields) error {
	email := strings.TrimSpace(f.AdminEmail)
	if email == "" {
		return errors.New("admin email is required")
	}
	if !looksLikeEmail(email) {
		return errors.New("admin email does not look like an email address")
	}
	if strings.TrimSpace(f.AdminFullName) == "" {
		return errors.New("admin full name is required")
	}
	if len(f.AdminPassword) < 8 {
		return errors.New("admin password must be at least 8 characters")
	}
	return nil
}

// looksLikeEmail is a sanity check, not RFC validation: something@domain.tld.
func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

func validatePlan(cat Catalog) ValidateFunc {
	return func(ctx context.Context, f *Fields) error {
		if f.Plan == "" {
			return errors.New("select a plan")
		}
		if _, ok := cat.PlanByKey(f.Plan); !ok {
			return fmt.Errorf("unknown plan %q", f.Plan)
		}
		return nil
	}
}
