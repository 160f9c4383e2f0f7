package mojang

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/n0madic/go-yggdrasil/yggdrasil"
)

// MaxBatchNames is the largest name list UUIDsByNames accepts.
const MaxBatchNames = 100

// ServiceStatus is the health colour the status service reports.
type ServiceStatus string

const (
	StatusGreen  ServiceStatus = "green"
	StatusYellow ServiceStatus = "yellow"
	StatusRed    ServiceStatus = "red"
)

// UUIDEntry maps a player name to its profile id. It embeds the profile shape
// the authentication server uses, so UUID() parses the undashed id.
type UUIDEntry struct {
	yggdrasil.Profile
	Demo bool `json:"demo,omitempty"`
}

// NameEntry is one step of a profile's name history. ChangedToAt is a Unix
// time in milliseconds and is zero for the original name.
type NameEntry struct {
	Name        string `json:"name"`
	ChangedToAt int64  `json:"changedToAt,omitempty"`
}

// Property is an optionally signed, base64-encoded profile property.
type Property struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Signature string `json:"signature,omitempty"`
}

// ProfileResponse is the session server's view of a game profile.
type ProfileResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
}

// UUID parses the undashed profile id.
func (p *ProfileResponse) UUID() (uuid.UUID, error) {
	return uuid.Parse(p.ID)
}

// Textures decodes the "textures" property. Profiles fetched without
// textures return ErrNoTextures.
func (p *ProfileResponse) Textures() (*TextureData, error) {
	for _, prop := range p.Properties {
		if prop.Name != "textures" {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(prop.Value)
		if err != nil {
			return nil, fmt.Errorf("mojang: decode textures: %w", err)
		}
		var td TextureData
		if err := json.Unmarshal(raw, &td); err != nil {
			return nil, fmt.Errorf("mojang: decode textures: %w", err)
		}
		return &td, nil
	}
	return nil, ErrNoTextures
}

// TextureData is the decoded payload of the "textures" property.
type TextureData struct {
	Timestamp   int64              `json:"timestamp"`
	ProfileID   string             `json:"profileId"`
	ProfileName string             `json:"profileName"`
	Textures    map[string]Texture `json:"textures"`
}

// Texture points at a skin or cape image.
type Texture struct {
	URL      string            `json:"url"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// MetricKey selects a sales counter for SaleStatistics.
type MetricKey string

const (
	MetricMinecraftSold        MetricKey = "item_sold_minecraft"
	MetricMinecraftPrepaidCard MetricKey = "prepaid_card_redeemed_minecraft"
	MetricCobaltSold           MetricKey = "item_sold_cobalt"
	MetricCobaltPrepaidCard    MetricKey = "prepaid_card_redeemed_cobalt"
	MetricScrollsSold          MetricKey = "item_sold_scrolls"
	MetricDungeonsSold         MetricKey = "item_sold_dungeons"
)

// SaleMetrics is the sum of the requested sales counters.
type SaleMetrics struct {
	Total                  int64   `json:"total"`
	Last24h                int64   `json:"last24h"`
	SaleVelocityPerSeconds float64 `json:"saleVelocityPerSeconds"`
}

type statisticsRequest struct {
	MetricKeys []MetricKey `json:"metricKeys"`
}

// undashed formats id the way the Mojang API expects it in paths.
func undashed(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}
