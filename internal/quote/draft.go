// Package quote implements the multi-step quote request wizard: the draft
// being filled in, per-step validation, and the controller that drives step
// navigation and submission.
package quote

import "slices"

// Draft is an in-progress quote request.
type Draft struct {
	Services []string `json:"services"`

	PropertyType    string `json:"propertyType"`
	Stories         string `json:"stories"`
	SquareFootage   string `json:"squareFootage"`
	SolarPanelCount string `json:"solarPanelCount"`
	PropertyNotes   string `json:"propertyNotes"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`

	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	ZipCode       string `json:"zipCode"`

	PreferredTimeframe string `json:"preferredTimeframe"`
	PreferredTime      string `json:"preferredTime"`
	Notes              string `json:"notes"`
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	d.Services = slices.Clone(d.Services)
	return d
}

// Patch is a partial draft update. Nil fields are left untouched.
type Patch struct {
	Services *[]string `json:"services,omitempty"`

	PropertyType    *string `json:"propertyType,omitempty"`
	Stories         *string `json:"stories,omitempty"`
	SquareFootage   *string `json:"squareFootage,omitempty"`
	SolarPanelCount *string `json:"solarPanelCount,omitempty"`
	PropertyNotes   *string `json:"propertyNotes,omitempty"`

	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`

	StreetAddress *string `json:"streetAddress,omitempty"`
	City          *string `json:"city,omitempty"`
	ZipCode       *string `json:"zipCode,omitempty"`

	PreferredTimeframe *string `json:"preferredTimeframe,omitempty"`
	PreferredTime      *string `json:"preferredTime,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}

func (p Patch) apply(d *Draft) {
	if p.Services != nil {
		d.Services = slices.Clone(*p.Services)
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&d.PropertyType, p.PropertyType)
	set(&d.Stories, p.Stories)
	set(&d.SquareFootage, p.SquareFootage)
	set(&d.SolarPanelCount, p.SolarPanelCount)
	set(&d.PropertyNotes, p.PropertyNotes)
	set(&d.FirstName, p.FirstName)
	set(&d.LastName, p.LastName)
	set(&d.Phone, p.Phone)
	set(&d.Email, p.Email)
	set(&d.StreetAddress, p.StreetAddress)
	set(&d.City, p.City)
	set(&d.ZipCode, p.ZipCode)
	set(&d.PreferredTimeframe, p.PreferredTimeframe)
	set(&d.PreferredTime, p.PreferredTime)
	set(&d.Notes, p.Notes)
}

// ToggleService adds id to the draft's services, or removes it when present.
func (d *Draft) ToggleService(id string) {
	if i := slices.Index(d.Services, id); i >= 0 {
		d.Services = slices.Delete(d.Services, i, i+1)
		return
	}
	d.Services = append(d.Services, id)
}

// HasService reports whether the draft includes id.
func (d Draft) HasService(id string) bool {
	return slices.Contains(d.Services, id)
}

// Store holds the draft across wizard steps together with the most recent
// validation message.
type Store struct {
	draft           Draft
	validationError string
}

// NewStore returns a store holding an empty draft.
func NewStore() *Store {
	return &Store{}
}

// Update merges the patch into the draft and clears any validation error.
func (s *Store) Update(p Patch) {
	p.apply(&s.draft)
	s.validationError = ""
}

// Reset restores the empty draft.
func (s *Store) Reset() {
	s.draft = Draft{}
	s.validationError = ""
}

// Draft returns a copy of the current draft.
func (s *Store) Draft() Draft {
	return s.draft.Clone()
}

func (s *Store) ValidationError() string {
	return s.validationError
}

func (s *Store) setValidationError(msg string) {
	s.validationError = msg
}
