package onboarding

// Step numbers for the wizard flow. Step numbering is 1-based to match the
// progress indicator shown to the user.
const (
	StepCompany  = 1 // Company info + subdomain
	StepPhone    = 2 // Phone system credentials
	StepFeatures = 3 // AI feature selection
	StepAdmin    = 4 // Administrator account
	StepPlan     = 5 // Plan selection (terminal step)

	FirstStep = StepCompany
	LastStep  = StepPlan
)

// StepInfo describes one wizard step for rendering.
type StepInfo struct {
	Number int
	Title  string
	Hint   string
}

// Feature is one entry in the AI feature catalog. Description is markdown,
// rendered in the feature step's detail pane.
type Feature struct {
	Key           string
	Name          string
	Description   string
	DefaultPrompt string
}

// Plan is one subscription plan offered during onboarding.
type Plan struct {
	Key             string
	Name            string
	PriceCents      int // monthly, USD cents
	IncludedMinutes int // analyzed call minutes per month
	Blurb           string
}

// Catalog is the immutable configuration the wizard is constructed with:
// step descriptors, the AI feature catalog and the plan table. It is passed
// in explicitly rather than referenced as package globals so the state
// machine stays testable with synthetic catalogs.
type Catalog struct {
	Steps    []StepInfo
	Features []Feature
	Plans    []Plan
}

// FeatureByKey returns the catalog entry for key, or false if unknown.
func (c Catalog) FeatureByKey(key string) (Feature, bool) {
	for _, f := range c.Features {
		if f.Key == key {
			return f, true
		}
	}
	return Feature{}, false
}

// PlanByKey returns the plan for key, or false if unknown.
func (c Catalog) PlanByKey(key string) (Plan, bool) {
	for _, p := range c.Plans {
		if p.Key == key {
			return p, true
		}
	}
	return Plan{}, false
}

// StepByNumber returns the descriptor for a step number, or false if out of
// range.
func (c Catalog) StepByNumber(n int) (StepInfo, bool) {
	for _, s := range c.Steps {
		if s.Number == n {
			return s, true
		}
	}
	return StepInfo{}, false
}

// DefaultCatalog returns the production onboarding catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Steps: []StepInfo{
			{Number: StepCompany, Title: "Company", Hint: "Tell us about the company and pick a subdomain"},
			{Number: StepPhone, Title: "Phone System", Hint: "Connect the PBX that produces call records"},
			{Number: StepFeatures, Title: "AI Features", Hint: "Choose which analyses run on every call"},
			{Number: StepAdmin, Title: "Admin User", Hint: "Create the first administrator account"},
			{Number: StepPlan, Title: "Plan", Hint: "Pick a plan and create the tenant"},
		},
		Features: []Feature{
			{
				Key:  "transcription",
				Name: "Call Transcription",
				Description: "## Call Transcription\n\n" +
					"Every recorded call is transcribed with speaker labels and " +
					"timestamps. Transcripts power search, compliance review and " +
					"all downstream analyses.\n\n" +
					"- Works on mono and stereo recordings\n" +
					"- 30+ languages with automatic detection\n",
				DefaultPrompt: "Transcribe the call verbatim with speaker labels.",
			},
			{
				Key:  "sentiment",
				Name: "Sentiment Analysis",
				Description: "## Sentiment Analysis\n\n" +
					"Tracks caller and agent sentiment across the call and flags " +
					"calls that end on a negative note for supervisor review.\n",
				DefaultPrompt: "Rate overall caller sentiment from -1 to 1 and list turning points.",
			},
			{
				Key:  "summary",
				Name: "Call Summaries",
				Description: "## Call Summaries\n\n" +
					"A three-sentence summary plus action items for each call, " +
					"delivered to the dashboard and the nightly digest email.\n",
				DefaultPrompt: "Summarize the call in three sentences and list action items.",
			},
			{
				Key:  "topics",
				Name: "Topic Detection",
				Description: "## Topic Detection\n\n" +
					"Clusters calls by topic so spikes (outages, billing confusion, " +
					"a broken product flow) surface on the dashboard within hours.\n",
				DefaultPrompt: "Assign up to three topics from the tenant's topic taxonomy.",
			},
			{
				Key:  "compliance",
				Name: "Compliance Monitoring",
				Description: "## Compliance Monitoring\n\n" +
					"Checks each call against required disclosures and forbidden " +
					"phrases, with per-script configuration.\n",
				DefaultPrompt: "Check the call against the required disclosure checklist.",
			},
		},
		Plans: []Plan{
			{Key: "starter", Name: "Starter", PriceCents: 9900, IncludedMinutes: 2000, Blurb: "For small teams getting started with call analytics."},
			{Key: "growth", Name: "Growth", PriceCents: 29900, IncludedMinutes: 10000, Blurb: "Adds topic detection history and digest emails."},
			{Key: "enterprise", Name: "Enterprise", PriceCents: 99900, IncludedMinutes: 50000, Blurb: "Custom retention, SSO and priority support."},
		},
	}
}
