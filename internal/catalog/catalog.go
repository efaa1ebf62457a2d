// Package catalog holds the static option lists that parameterize the quote
// request form. Identifiers are persisted verbatim and must stay stable.
package catalog

// Option is a selectable value with a stable identifier and a display label.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Service identifiers
const (
	ServiceSolar         = "solar"
	ServiceWindow        = "window"
	ServicePowerWashing  = "power-washing"
	ServiceRoof          = "roof"
	ServiceFleet         = "fleet"
	ServiceHouseExterior = "house-exterior"
	ServiceGutter        = "gutter"
	ServiceOther         = "other"
)

// Services is the ordered list of services offered on the quote form.
var Services = []Option{
	{ID: ServiceSolar, Label: "Solar Panel Cleaning"},
	{ID: ServiceWindow, Label: "Window Cleaning"},
	{ID: ServicePowerWashing, Label: "Power Washing"},
	{ID: ServiceRoof, Label: "Roof Washing"},
	{ID: ServiceFleet, Label: "Fleet & Vehicle Washing"},
	{ID: ServiceHouseExterior, Label: "House Exterior Washing"},
	{ID: ServiceGutter, Label: "Gutter Cleaning"},
	{ID: ServiceOther, Label: "Other"},
}

var PropertyTypes = []string{"Residential", "Commercial"}

var StoryOptions = []string{"1 Story", "2 Stories", "3+ Stories"}

var SquareFootageOptions = []string{
	"Under 1,000 sq ft",
	"1,000 - 1,999 sq ft",
	"2,000 - 2,999 sq ft",
	"3,000 - 4,999 sq ft",
	"5,000+ sq ft",
}

var SolarPanelOptions = []string{
	"Up to 12 Panels",
	"13 - 24 Panels",
	"25 - 36 Panels",
	"37 - 48 Panels",
	"49+ Panels",
}

var TimeframeOptions = []Option{
	{ID: "asap", Label: "As Soon As Possible"},
	{ID: "this-week", Label: "This Week"},
	{ID: "next-week", Label: "Next Week"},
	{ID: "this-month", Label: "Within the Month"},
	{ID: "flexible", Label: "Flexible / No Rush"},
}

var TimeOfDayOptions = []Option{
	{ID: "morning", Label: "Morning (8am - 12pm)"},
	{ID: "afternoon", Label: "Afternoon (12pm - 5pm)"},
	{ID: "no-preference", Label: "No Preference"},
}

// StepTitles names the wizard steps in order.
var StepTitles = []string{
	"Select Services",
	"Property Details",
	"Contact Information",
	"Schedule & Review",
}

var timeframeShort = map[string]string{
	"asap":       "ASAP",
	"this-week":  "This Week",
	"next-week":  "Next Week",
	"this-month": "This Month",
	"flexible":   "Flexible",
}

var timeShort = map[string]string{
	"morning":       "Morning",
	"afternoon":     "Afternoon",
	"no-preference": "No Preference",
}

// ServiceLabel resolves a service id to its display label. Unknown ids are
// returned unchanged.
func ServiceLabel(id string) string {
	for _, s := range Services {
		if s.ID == id {
			return s.Label
		}
	}
	return id
}

// ServiceLabels resolves every id in order.
func ServiceLabels(ids []string) []string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		labels = append(labels, ServiceLabel(id))
	}
	return labels
}

// IsService reports whether id is a known service identifier.
func IsService(id string) bool {
	for _, s := range Services {
		if s.ID == id {
			return true
		}
	}
	return false
}

// TimeframeShortLabel returns the compact label used in lead lists.
func TimeframeShortLabel(id string) string {
	if l, ok := timeframeShort[id]; ok {
		return l
	}
	return id
}

// TimeShortLabel returns the compact time-of-day label used in lead lists.
func TimeShortLabel(id string) string {
	if l, ok := timeShort[id]; ok {
		return l
	}
	return id
}

// Snapshot is the full catalog as served to form clients.
type Snapshot struct {
	Services             []Option `json:"services"`
	PropertyTypes        []string `json:"propertyTypes"`
	StoryOptions         []string `json:"storyOptions"`
	SquareFootageOptions []string `json:"squareFootageOptions"`
	SolarPanelOptions    []string `json:"solarPanelOptions"`
	TimeframeOptions     []Option `json:"timeframeOptions"`
	TimeOfDayOptions     []Option `json:"timeOfDayOptions"`
	StepTitles           []string `json:"stepTitles"`
}

// Catalog returns a copy of every option list.
func Catalog() Snapshot {
	return Snapshot{
		Services:             append([]Option(nil), Services...),
		PropertyTypes:        append([]string(nil), PropertyTypes...),
		StoryOptions:         append([]string(nil), StoryOptions...),
		SquareFootageOptions: append([]string(nil), SquareFootageOptions...),
		SolarPanelOptions:    append([]string(nil), SolarPanelOptions...),
		TimeframeOptions:     append([]Option(nil), TimeframeOptions...),
		TimeOfDayOptions:     append([]Option(nil), TimeOfDayOptions...),
		StepTitles:           append([]string(nil), StepTitles...),
	}
}
