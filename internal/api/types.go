package api

// AdminUser is the administrator account created alongside a new tenant.
type AdminUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

// TenantCreateRequest is the body of POST /api/v1/tenants. It materializes a
// tenant, its phone-system credentials, its enabled AI feature set and its
// administrator account in a single call.
type TenantCreateRequest struct {
	CompanyName     string    `json:"company_name"`
	Subdomain       string    `json:"subdomain"`
	Industry        string    `json:"industry"`
	CompanySize     string    `json:"company_size,omitempty"`
	PhoneSystemType string    `json:"phone_system_type"`
	PBXIP           string    `json:"pbx_ip"`
	PBXUsername     string    `json:"pbx_username"`
	PBXPassword     string    `json:"pbx_password"`
	PBXPort         int       `json:"pbx_port"`
	WebhookUsername string    `json:"webhook_username,omitempty"`
	WebhookPassword string    `json:"webhook_password,omitempty"`
	Plan            string    `json:"plan"`
	AdminUser       AdminUser `json:"admin_user"`
	AIFeatures      []string  `json:"ai_features"`
	SubscriptionID  string    `json:"subscription_id"`
}

// TenantCreateResponse is returned on successful tenant creation.
type TenantCreateResponse struct {
	TenantID string `json:"tenant_id"`
}

// SubdomainAvailability is the response of the subdomain-availability check.
type SubdomainAvailability struct {
	Available bool `json:"available"`
}

// PhoneSystemTestRequest is the body of the PBX connectivity test.
type PhoneSystemTestRequest struct {
	PhoneSystemType string `json:"phone_system_type"`
	PBXIP           string `json:"pbx_ip"`
	PBXPort         int    `json:"pbx_port"`
	PBXUsername     string `json:"pbx_username"`
	PBXPassword     string `json:"pbx_password"`
}

// PhoneSystemTestResult reports whether the control plane could reach and
// authenticate against the customer's PBX.
type PhoneSystemTestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// errorBody is the control plane's error envelope for non-2xx responses.
type errorBody struct {
	Message string `json:"message"`
}
