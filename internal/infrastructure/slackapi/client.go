// Package slackapi implements the message source against the Slack Web API.
package slackapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Jeff-002/SlackToJournal/internal/domain"
	"github.com/Jeff-002/SlackToJournal/internal/ports"
)

const (
	defaultBaseURL = "https://slack.com/api"

	// historyPageSize bounds one conversations.history page.
	historyPageSize = 200
)

// Channels whose names suggest social chatter are skipped during
// auto-detection. Explicit target channels bypass this list.
var socialChannelExprs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(general|random|social|lunch|coffee|music|games?)$`),
	regexp.MustCompile(`(?i)^(announce|announcement)s?$`),
	regexp.MustCompile(`(?i)^(water.?cooler|chat|casual)$`),
	regexp.MustCompile(`^(社交|閒聊|聊天|音樂|遊戲)$`),
}

// Bot messages are dropped unless the bot belongs to a work tool.
var workBotNames = []string{"github", "jira", "confluence", "calendar", "zoom"}

// Client talks to the Slack Web API and adapts its payloads into domain
// messages.
type Client struct {
	baseURL   string
	botToken  string
	http      *http.Client
	logger    *slog.Logger
	userNames map[string]string
}

var _ ports.MessageSource = (*Client)(nil)

// NewClient wires a bot token; a nil httpClient gets a 20s-timeout default.
func NewClient(botToken string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   defaultBaseURL,
		botToken:  botToken,
		http:      httpClient,
		logger:    logger,
		userNames: map[string]string{},
	}
}

type channelInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsArchived bool   `json:"is_archived"`
	IsMember   bool   `json:"is_member"`
}

type rawMessage struct {
	Type     string `json:"type"`
	Subtype  string `json:"subtype"`
	User     string `json:"user"`
	BotID    string `json:"bot_id"`
	Username string `json:"username"`
	Text     string `json:"text"`
	TS       string `json:"ts"`
}

// FetchWindow retrieves messages for the period across the resolved work
// channels and returns them in timestamp order.
func (c *Client) FetchWindow(ctx context.Context, period domain.Period, opts ports.FetchOptions) ([]domain.Message, error) {
	if c.botToken == "" {
		return nil, fmt.Errorf("slack bot token is not configured")
	}

	if err := c.authTest(ctx); err != nil {
		return nil, fmt.Errorf("slack auth: %w", err)
	}

	channels, err := c.resolveChannels(ctx, opts.Channels)
	if err != nil {
		return nil, fmt.Errorf("resolve channels: %w", err)
	}

	var all []domain.Message
	for _, ch := range channels {
		msgs, err := c.channelHistory(ctx, ch, period)
		if err != nil {
			c.logger.Warn("channel history failed", "channel", ch.Name, "error", err)
			continue
		}
		all = append(all, msgs...)
	}

	if opts.UserName != "" {
		filtered := all[:0]
		for _, msg := range all {
			if strings.EqualFold(msg.AuthorName, opts.UserName) {
				filtered = append(filtered, msg)
			}
		}
		all = filtered
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp.Before(all[j].Timestamp) })

	c.logger.Debug("fetched window", "channels", len(channels), "messages", len(all))
	return all, nil
}

func (c *Client) authTest(ctx context.Context) error {
	var resp struct {
		Team string `json:"team"`
		User string `json:"user"`
	}
	return c.call(ctx, "auth.test", nil, &resp)
}

// resolveChannels maps configured channel names to IDs, joining channels the
// bot is not yet a member of. Without targets it auto-detects work channels
// by excluding social-sounding names.
func (c *Client) resolveChannels(ctx context.Context, targets []string) ([]channelInfo, error) {
	var resp struct {
		Channels []channelInfo `json:"channels"`
	}
	params := url.Values{
		"types":            {"public_channel,private_channel"},
		"exclude_archived": {"true"},
		"limit":            {"1000"},
	}
	if err := c.call(ctx, "conversations.list", params, &resp); err != nil {
		return nil, err
	}

	if len(targets) > 0 {
		byName := make(map[string]channelInfo, len(resp.Channels))
		for _, ch := range resp.Channels {
			byName[ch.Name] = ch
		}

		var selected []channelInfo
		for _, name := range targets {
			ch, ok := byName[strings.TrimPrefix(name, "#")]
			if !ok {
				c.logger.Warn("target channel not found", "channel", name)
				continue
			}
			if !ch.IsMember {
				if err := c.joinChannel(ctx, ch.ID); err != nil {
					c.logger.Warn("cannot join channel", "channel", ch.Name, "error", err)
				}
			}
			selected = append(selected, ch)
		}
		return selected, nil
	}

	var detected []channelInfo
	for _, ch := range resp.Channels {
		if ch.IsArchived || isSocialChannel(ch.Name) {
			continue
		}
		detected = append(detected, ch)
	}
	return detected, nil
}

func (c *Client) joinChannel(ctx context.Context, channelID string) error {
	return c.call(ctx, "conversations.join", url.Values{"channel": {channelID}}, nil)
}

func (c *Client) channelHistory(ctx context.Context, ch channelInfo, period domain.Period) ([]domain.Message, error) {
	var out []domain.Message
	cursor := ""

	for {
		params := url.Values{
			"channel": {ch.ID},
			"oldest":  {slackTS(period.Start)},
			"latest":  {slackTS(period.End)},
			"limit":   {strconv.Itoa(historyPageSize)},
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var resp struct {
			Messages []rawMessage `json:"messages"`
			HasMore  bool         `json:"has_more"`
			Metadata struct {
				NextCursor string `json:"next_cursor"`
			} `json:"response_metadata"`
		}
		if err := c.call(ctx, "conversations.history", params, &resp); err != nil {
			return nil, err
		}

		for _, raw := range resp.Messages {
			msg, ok := c.adaptMessage(ctx, raw, ch.Name)
			if ok {
				out = append(out, msg)
			}
		}

		cursor = resp.Metadata.NextCursor
		if !resp.HasMore || cursor == "" {
			return out, nil
		}
	}
}

// adaptMessage converts one API record, dropping system subtypes and
// non-work bot traffic.
func (c *Client) adaptMessage(ctx context.Context, raw rawMessage, channel string) (domain.Message, bool) {
	if raw.Type != "message" || raw.Subtype != "" || raw.Text == "" {
		return domain.Message{}, false
	}
	if raw.BotID != "" && !isWorkBot(raw.Username) {
		return domain.Message{}, false
	}

	return domain.Message{
		AuthorID:   raw.User,
		AuthorName: c.userName(ctx, raw.User),
		Text:       raw.Text,
		Channel:    channel,
		Timestamp:  parseSlackTS(raw.TS),
	}, true
}

// userName resolves and caches the display name for a user id. Resolution
// failures degrade to the raw id; they never fail the fetch.
func (c *Client) userName(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	if name, ok := c.userNames[userID]; ok {
		return name
	}

	var resp struct {
		User struct {
			RealName string `json:"real_name"`
			Profile  struct {
				DisplayName string `json:"display_name"`
			} `json:"profile"`
		} `json:"user"`
	}
	if err := c.call(ctx, "users.info", url.Values{"user": {userID}}, &resp); err != nil {
		c.logger.Debug("user lookup failed", "user", userID, "error", err)
		c.userNames[userID] = ""
		return ""
	}

	name := resp.User.Profile.DisplayName
	if name == "" {
		name = resp.User.RealName
	}
	c.userNames[userID] = name
	return name
}

func (c *Client) call(ctx context.Context, method string, params url.Values, v any) error {
	endpoint := c.baseURL + "/" + method
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s", method, resp.Status)
	}

	var envelope struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	payload := json.NewDecoder(resp.Body)
	raw := json.RawMessage{}
	if err := payload.Decode(&raw); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode %s envelope: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("%s failed: %s", method, envelope.Error)
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", method, err)
	}
	return nil
}

func isSocialChannel(name string) bool {
	for _, expr := range socialChannelExprs {
		if expr.MatchString(name) {
			return true
		}
	}
	return false
}

func isWorkBot(username string) bool {
	lower := strings.ToLower(username)
	for _, bot := range workBotNames {
		if strings.Contains(lower, bot) {
			return true
		}
	}
	return false
}

func slackTS(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixNano())/1e9, 'f', 6, 64)
}

func parseSlackTS(ts string) time.Time {
	seconds, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(int64(seconds), int64((seconds-float64(int64(seconds)))*1e9))
}
