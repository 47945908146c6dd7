package model

import (
	"log/slog"
	"net/url"
)

// DefaultSalutation is used when DeliveryConfig.Salutation is empty.
const DefaultSalutation = "Hi! There are some Merge Requests to review :)"

// SourceConfig describes where open merge requests are fetched from.
type SourceConfig struct {
	BaseURL    string
	Token      string   // Sent as PRIVATE-TOKEN; never logged.
	Projects   []string // Empty means an unscoped, instance-wide query.
	IncludeWIP *bool    // nil means work-in-progress items are excluded.
}

// IncludesWIP reports whether work-in-progress merge requests were explicitly requested.
func (c SourceConfig) IncludesWIP() bool {
	return c.IncludeWIP != nil && *c.IncludeWIP
}

// LogValue implements slog.LogValuer so the token never reaches log output.
func (c SourceConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", c.BaseURL),
		slog.Any("projects", c.Projects),
		slog.Bool("include_wip", c.IncludesWIP()),
		slog.Bool("token_set", c.Token != ""),
	)
}

// WebhookTarget is a single chat webhook endpoint.
type WebhookTarget struct {
	WebhookURL string
}

// LogValue logs only the webhook host; the path of a chat webhook URL is a credential.
func (t WebhookTarget) LogValue() slog.Value {
	u, err := url.Parse(t.WebhookURL)
	if err != nil {
		return slog.StringValue("invalid")
	}
	return slog.StringValue(u.Host)
}

// DeliveryConfig describes where the summary is posted. A nil target
// disables that channel.
type DeliveryConfig struct {
	Salutation string
	Slack      *WebhookTarget
	Teams      *WebhookTarget
}

// ResolveSalutation returns the configured salutation or DefaultSalutation.
func (c DeliveryConfig) ResolveSalutation() string {
	if c.Salutation != "" {
		return c.Salutation
	}
	return DefaultSalutation
}

// Target returns the webhook configured for the given channel, or nil.
func (c DeliveryConfig) Target(ch Channel) *WebhookTarget {
	switch ch {
	case ChannelSlack:
		return c.Slack
	case ChannelTeams:
		return c.Teams
	default:
		return nil
	}
}
