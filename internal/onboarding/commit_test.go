package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCreateRequest_ProjectsFlatFields(t *testing.T) {
	f := DefaultFields()
	fillCompany(&f)
	fillPhone(&f)
	fillAdmin(&f)
	f.Features = []string{"transcription", "sentiment"}
	f.Plan = "growth"
	f.SubscriptionID = "sub-42"

	req, err := BuildCreateRequest(&f)
	require.NoError(t, err)

	assert.Equal(t, "Acme", req.CompanyName)
	assert.Equal(t, "acme", req.Subdomain)
	assert.Equal(t, "retail", req.Industry)
	assert.Equal(t, "11-50", req.CompanySize)
	assert.Equal(t, "grandstream_ucm", req.PhoneSystemType)
	assert.Equal(t, "10.0.0.5", req.PBXIP)
	assert.Equal(t, 8089, req.PBXPort, "port converted from text to int")
	assert.Equal(t, "cdrapi", req.PBXUsername)
	assert.Equal(t, "pbx-secret", req.PBXPassword)
	assert.Equal(t, "hook", req.WebhookUsername)
	assert.Equal(t, "hook-secret", req.WebhookPassword)
	assert.Equal(t, "growth", req.Plan)
	assert.Equal(t, []string{"transcription", "sentiment"}, req.AIFeatures)
	assert.Equal(t, "sub-42", req.SubscriptionID)

	// The four flat admin fields nest under admin_user.
	assert.Equal(t, "ada@acme.test", req.AdminUser.Email)
	assert.Equal(t, "longenough", req.AdminUser.Password)
	assert.Equal(t, "Ada Admin", req.AdminUser.FullName)
	assert.Equal(t, "+15550100", req.AdminUser.Phone)
}

func TestBuildCreateRequest_BadPort(t *testing.T) {
	f := DefaultFields()
	fillCompany(&f)
	fillPhone(&f)
	f.PBXPort = "not-a-port"

	_, err := BuildCreateRequest(&f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PBX port")
}

func TestBuildCreateRequest_CopiesFeatureSlice(t *testing.T) {
	f := DefaultFields()
	fillPhone(&f)
	f.Features = []string{"transcription"}

	req, err := BuildCreateRequest(&f)
	require.NoError(t, err)

	f.Features[0] = "mutated"
	assert.Equal(t, []string{"transcription"}, req.AIFeatures)
}

func TestBuildConnectionTest(t *testing.T) {
	f := DefaultFields()
	fillPhone(&f)

	req, err := buildConnectionTest(&f)
	require.NoError(t, err)

	assert.Equal(t, "grandstream_ucm", req.PhoneSystemType)
	assert.Equal(t, "10.0.0.5", req.PBXIP)
	assert.Equal(t, 8089, req.PBXPort)
	assert.Equal(t, "cdrapi", req.PBXUsername)
	assert.Equal(t, "pbx-secret", req.PBXPassword)
}
