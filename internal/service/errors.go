package service

import "errors"

// ErrInvalidInput is returned when required input is missing
var ErrInvalidInput = errors.New("invalid input")

// Lead errors
var (
	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrInvalidLeadStatus is returned for a status outside the pipeline
	ErrInvalidLeadStatus = errors.New("invalid lead status")

	// ErrStatusUnchanged is returned when a lead is moved to the status it already has
	ErrStatusUnchanged = errors.New("lead already has this status")
)

// Website content errors
var (
	// ErrContentSectionNotFound is returned for a section key missing from the schema
	ErrContentSectionNotFound = errors.New("content section not found")

	// ErrInvalidContent is returned when content has unknown keys or malformed values
	ErrInvalidContent = errors.New("invalid content")
)

// Site image errors
var (
	// ErrSiteImageNotFound is returned when no image is stored under a key
	ErrSiteImageNotFound = errors.New("image not found")

	// ErrInvalidImageData is returned when image data cannot be decoded
	ErrInvalidImageData = errors.New("invalid image data")

	// ErrImageTooLarge is returned when decoded image data exceeds the upload limit
	ErrImageTooLarge = errors.New("image too large")
)

// Wizard session errors
var (
	// ErrWizardSessionNotFound is returned for unknown or expired wizard sessions
	ErrWizardSessionNotFound = errors.New("quote session not found")
)

// Customer errors
var (
	// ErrCustomerNotFound is returned when a customer is not found
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrLeadAlreadyConverted is returned when a lead already has a customer
	ErrLeadAlreadyConverted = errors.New("lead has already been converted to a customer")
)

// Job errors
var (
	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidJobStatus is returned for a status outside the job workflow
	ErrInvalidJobStatus = errors.New("invalid job status")
)

// Contact form errors
var (
	// ErrContactSubmissionNotFound is returned when a contact submission is not found
	ErrContactSubmissionNotFound = errors.New("contact submission not found")
)
