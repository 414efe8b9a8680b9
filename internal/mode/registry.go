// Package mode holds the instruction template of every service mode.
package mode

import (
	"fmt"

	"charterbot/internal/domain"
)

var templates = map[domain.Mode]string{
	domain.ModeGeneralInquiry: `You are a professional concierge for Inara Yachts, a luxury yacht charter and sales company.
You provide information about our services, fleet, and answer general inquiries about yachting experiences.
Be welcoming, professional, and knowledgeable about luxury yacht services.`,

	domain.ModeCharterBooking: `You are a yacht charter specialist for Inara Yachts.
Help clients book luxury yacht charters by understanding their dates, location preferences, group size, budget, and specific requirements.
Provide detailed information about available vessels, itineraries, and pricing.
Always confirm booking details and explain the next steps in the reservation process.`,

	domain.ModeYachtSales: `You are a yacht sales consultant for Inara Yachts with expertise in luxury yacht brokerage.
Help buyers find the perfect yacht that matches their needs, budget, and lifestyle.
Discuss yacht specifications, features, prices, financing options, and guide them through the purchase process.
Highlight Inara Yachts' unique value proposition and after-sales services.`,

	domain.ModeFleetInformation: `You are a fleet specialist for Inara Yachts.
Provide detailed information about our yacht fleet including specifications, features, capacity, amenities, and availability.
Answer questions about different yacht types, sizes, and their ideal use cases.
Create comprehensive fleet information based on typical luxury yacht offerings.`,

	domain.ModeContactSupport: `You are a customer support specialist for Inara Yachts.
Help clients with inquiries about contact information, office locations, support services, and general assistance.
Provide information about booking modifications, cancellations, and customer service channels.`,
}

// Registry maps every mode of the closed set to its instruction.
type Registry struct {
	templates map[domain.Mode]string
}

// NewRegistry builds a registry and fails if any mode lacks a template.
func NewRegistry(overrides map[domain.Mode]string) (*Registry, error) {
	merged := make(map[domain.Mode]string, len(templates))
	for m, t := range templates {
		merged[m] = t
	}
	for m, t := range overrides {
		if !m.Valid() {
			return nil, fmt.Errorf("template override for unknown mode %d", int(m))
		}
		if t != "" {
			merged[m] = t
		}
	}
	for _, m := range domain.Modes() {
		if merged[m] == "" {
			return nil, fmt.Errorf("no instruction template for mode %q", m)
		}
	}
	return &Registry{templates: merged}, nil
}

// Default is the built-in registry.
var Default = mustRegistry()

func mustRegistry() *Registry {
	r, err := NewRegistry(nil)
	if err != nil {
		panic(err)
	}
	return r
}

// Instruction returns the template for m; unknown modes get the default mode's.
func (r *Registry) Instruction(m domain.Mode) string {
	if t, ok := r.templates[m]; ok {
		return t
	}
	return r.templates[domain.DefaultMode]
}

// Instruction looks m up in the built-in registry.
func Instruction(m domain.Mode) string { return Default.Instruction(m) }
