package catalog

import (
	"time"

	"github.com/starchart-tools/wayfarer/internal/model"
)

// SubmissionPayload is the wire form of one system-level discovery with
// its nested planets and moons.
type SubmissionPayload struct {
	Name         string    `json:"name"`
	Galaxy       string    `json:"galaxy"`
	Mode         string    `json:"mode"`
	AddressCode  string    `json:"address_code"`
	StarClass    string    `json:"star_type,omitempty"`
	EconomyType  string    `json:"economy_type,omitempty"`
	EconomyLevel string    `json:"economy_level,omitempty"`
	Conflict     string    `json:"conflict_level,omitempty"`
	Discoverer   string    `json:"discoverer,omitempty"`
	DiscoveredAt time.Time `json:"discovered_at,omitzero"`

	// EditID is set when this submission updates an existing catalog
	// entry rather than creating one.
	EditID string `json:"edit_id,omitempty"`

	Planets []BodyPayload `json:"planets,omitempty"`
}

// BodyPayload is the wire form of a planet, moon, or base.
type BodyPayload struct {
	Kind      string        `json:"kind"`
	Name      string        `json:"name"`
	Sentinels string        `json:"sentinels,omitempty"`
	Flora     string        `json:"flora,omitempty"`
	Fauna     string        `json:"fauna,omitempty"`
	Resources string        `json:"resources,omitempty"`
	Moons     []BodyPayload `json:"moons,omitempty"`
}

// NewPayload converts a system-level discovery record into its wire
// form. editID is empty for new submissions.
func NewPayload(rec *model.DiscoveryRecord, addressCode string, mode model.Mode, editID string) *SubmissionPayload {
	p := &SubmissionPayload{
		Name:         rec.Name,
		Galaxy:       rec.Galaxy,
		Mode:         string(mode),
		AddressCode:  addressCode,
		StarClass:    rec.Attributes["star_class"],
		EconomyType:  rec.Attributes["economy"],
		EconomyLevel: rec.Attributes["economy_level"],
		Conflict:     rec.Attributes["conflict"],
		Discoverer:   rec.Discoverer,
		DiscoveredAt: rec.DiscoveredAt,
		EditID:       editID,
	}
	for i := range rec.Children {
		p.Planets = append(p.Planets, bodyPayload(&rec.Children[i]))
	}
	return p
}

func bodyPayload(rec *model.DiscoveryRecord) BodyPayload {
	b := BodyPayload{
		Kind:      string(rec.Kind),
		Name:      rec.Name,
		Sentinels: rec.Attributes["sentinels"],
		Flora:     rec.Attributes["flora"],
		Fauna:     rec.Attributes["fauna"],
		Resources: rec.Attributes["resources"],
	}
	for i := range rec.Children {
		b.Moons = append(b.Moons, bodyPayload(&rec.Children[i]))
	}
	return b
}
