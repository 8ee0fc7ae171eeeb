package onboarding

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ringsight/ringsight/internal/api"
)

// TenantCreator is the one-shot creation call issued by the commit step.
// *api.Client satisfies it.
type TenantCreator interface {
	CreateTenant(ctx context.Context, req api.TenantCreateRequest) (api.TenantCreateResponse, error)
}

// buildConnectionTest projects the PBX credential fields into the
// connectivity test payload.
func buildConnectionTest(f *Fields) (api.PhoneSystemTestRequest, error) {
	port, err := strconv.Atoi(f.PBXPort)
	if err != nil {
		return api.PhoneSystemTestRequest{}, fmt.Errorf("invalid PBX port %q: %w", f.PBXPort, err)
	}
	return api.PhoneSystemTestRequest{
		PhoneSystemType: f.PhoneSystemType,
		PBXIP:           f.PBXHost,
		PBXPort:         port,
		PBXUsername:     f.PBXUsername,
		PBXPassword:     f.PBXPassword,
	}, nil
}

// BuildCreateRequest projects the flat field store into the control plane's
// creation payload: the four flat admin fields are re-nested under
// admin_user and the port is converted from text to an integer. It owns no
// state of its own.
func BuildCreateRequest(f *Fields) (api.TenantCreateRequest, error) {
	port, err := strconv.Atoi(f.PBXPort)
	if err != nil {
		return api.TenantCreateRequest{}, fmt.Errorf("invalid PBX port %q: %w", f.PBXPort, err)
	}

	return api.TenantCreateRequest{
		CompanyName:     f.CompanyName,
		Subdomain:       f.Subdomain,
		Industry:        f.Industry,
		CompanySize:     f.CompanySize,
		PhoneSystemType: f.PhoneSystemType,
		PBXIP:           f.PBXHost,
		PBXUsername:     f.PBXUsername,
		PBXPassword:     f.PBXPassword,
		PBXPort:         port,
		WebhookUsername: f.WebhookUsername,
		WebhookPassword: f.WebhookPassword,
		Plan:            f.Plan,
		AdminUser: api.AdminUser{
			Email:    f.AdminEmail,
			Password: f.AdminPassword,
			FullName: f.AdminFullName,
			Phone:    f.AdminPhone,
		},
		AIFeatures:     append([]string(nil), f.Features...),
		SubscriptionID: f.SubscriptionID,
	}, nil
}
