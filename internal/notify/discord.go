package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wondersell/seller-stats/internal/metrics"
	domain "github.com/wondersell/seller-stats/pkg/types"
)

const (
	colorGreen  = 0x2ECC71 // only additions
	colorYellow = 0xF1C40F // additions and removals
	colorRed    = 0xE74C3C // only removals
	colorGrey   = 0x95A5A6 // no changes

	// Discord caps embed descriptions at 4096 characters; the length check
	// counts bytes, which never undercounts.
	maxDescription = 4096

	defaultMaxEntries = 10
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
	maxEntries int
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
		maxEntries: defaultMaxEntries,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// WithMaxEntries caps how many categories are listed per diff kind.
func WithMaxEntries(n int) DiscordOption {
	return func(d *DiscordNotifier) {
		if n > 0 {
			d.maxEntries = n
		}
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendDiff posts a summary embed plus one embed per non-empty diff kind.
func (d *DiscordNotifier) SendDiff(ctx context.Context, notice *DiffNotice) error {
	embeds := []discordEmbed{summaryEmbed(notice)}
	if len(notice.Added) > 0 {
		embeds = append(embeds, d.listEmbed("Added categories", colorGreen, notice.Added))
	}
	if len(notice.Removed) > 0 {
		embeds = append(embeds, d.listEmbed("Removed categories", colorRed, notice.Removed))
	}

	err := d.post(ctx, discordWebhookPayload{Embeds: embeds})
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.NotificationsTotal.WithLabelValues("success").Inc()
	return nil
}

func summaryEmbed(notice *DiffNotice) discordEmbed {
	embed := discordEmbed{
		Title: "Category update",
		URL:   notice.ExportURL,
		Color: diffColor(len(notice.Added), len(notice.Removed)),
		Fields: []discordEmbedField{
			{Name: "Added", Value: fmt.Sprintf("%d", len(notice.Added)), Inline: true},
			{Name: "Removed", Value: fmt.Sprintf("%d", len(notice.Removed)), Inline: true},
		},
	}
	if notice.Source != "" {
		embed.Description = "Source: " + notice.Source
	}
	if notice.ExportURL != "" {
		embed.Fields = append(embed.Fields, discordEmbedField{Name: "Export", Value: notice.ExportURL})
	}
	return embed
}

func (d *DiscordNotifier) listEmbed(title string, color int, entries []domain.CategoryEntry) discordEmbed {
	limit := min(len(entries), d.maxEntries)

	var b strings.Builder
	for i := range limit {
		line := entryLine(&entries[i])
		if b.Len()+len(line)+1 > maxDescription-64 {
			limit = i
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(entries) > limit {
		fmt.Fprintf(&b, "... and %d more", len(entries)-limit)
	}

	return discordEmbed{
		Title:       fmt.Sprintf("%s (%d)", title, len(entries)),
		Color:       color,
		Description: strings.TrimRight(b.String(), "\n"),
	}
}

func entryLine(e *domain.CategoryEntry) string {
	name := e.Name
	if name == "" {
		name = e.URL
	}
	if e.URL == "" {
		return fmt.Sprintf("%s · %s", name, e.Type)
	}
	return fmt.Sprintf("[%s](%s) · %s", name, e.URL, e.Type)
}

func diffColor(added, removed int) int {
	switch {
	case added > 0 && removed > 0:
		return colorYellow
	case added > 0:
		return colorGreen
	case removed > 0:
		return colorRed
	default:
		return colorGrey
	}
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
