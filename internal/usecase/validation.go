package usecase

import (
	"regexp"
	"strings"

	"github.com/xavierca1/leadboard/internal/entity"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateLeadForm checks a lead before it is sent for create or update.
func ValidateLeadForm(in entity.LeadInput) error {
	var errs ValidationErrors

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		errs = append(errs, ValidationError{"name", "Lead name is required"})
	case len([]rune(name)) < 2:
		errs = append(errs, ValidationError{"name", "Lead name must be at least 2 characters"})
	}

	switch {
	case in.Source == "":
		errs = append(errs, ValidationError{"source", "Lead source is required"})
	case !in.Source.Valid():
		errs = append(errs, ValidationError{"source", "Invalid lead source"})
	}

	if in.SalesAgent == "" {
		errs = append(errs, ValidationError{"salesAgent", "Sales agent is required"})
	}

	switch {
	case in.Status == "":
		errs = append(errs, ValidationError{"status", "Lead status is required"})
	case !in.Status.Valid():
		errs = append(errs, ValidationError{"status", "Invalid lead status"})
	}

	if in.TimeToClose < 1 {
		errs = append(errs, ValidationError{"timeToClose", "Time to close must be a positive number"})
	}

	switch {
	case in.Priority == "":
		errs = append(errs, ValidationError{"priority", "Priority is required"})
	case !in.Priority.Valid():
		errs = append(errs, ValidationError{"priority", "Invalid priority"})
	}

	return errs.orNil()
}

func ValidateAgentForm(in entity.AgentInput) error {
	var errs ValidationErrors

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		errs = append(errs, ValidationError{"name", "Agent name is required"})
	case len([]rune(name)) < 2:
		errs = append(errs, ValidationError{"name", "Agent name must be at least 2 characters"})
	}

	switch {
	case strings.TrimSpace(in.Email) == "":
		errs = append(errs, ValidationError{"email", "Email is required"})
	case !emailPattern.MatchString(in.Email):
		errs = append(errs, ValidationError{"email", "Invalid email format"})
	}

	return errs.orNil()
}
