// Package notify delivers opportunity alerts to Telegram.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/metrics"
	"github.com/Xavi146570/football-value-detector/internal/models"
)

const telegramAPIBase = "https://api.telegram.org"

// Notifier sends alerts about accepted opportunities and daily summaries.
type Notifier interface {
	NotifyOpportunity(ctx context.Context, opp *models.Opportunity) error
	NotifyDailySummary(ctx context.Context, opportunities []*models.Opportunity, totalFixtures int) error
}

// TelegramNotifier implements Notifier against the Telegram Bot API.
type TelegramNotifier struct {
	baseURL string
	chatID  string
	client  *retryablehttp.Client
	logger  logrus.FieldLogger
}

// NewTelegramNotifier creates a notifier from configuration.
func NewTelegramNotifier(cfg *config.TelegramConfig, logger logrus.FieldLogger) *TelegramNotifier {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = 10 * time.Second
	client.RetryMax = 3
	client.Logger = nil

	return &TelegramNotifier{
		baseURL: fmt.Sprintf("%s/bot%s", telegramAPIBase, cfg.BotToken),
		chatID:  cfg.ChatID,
		client:  client,
		logger:  logger,
	}
}

// Ping verifies the bot token against the getMe endpoint.
func (n *TelegramNotifier) Ping(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/getMe", nil)
	if err != nil {
		return err
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram getMe returned %d", resp.StatusCode)
	}
	return nil
}

var qualityEmoji = map[models.QualityTier]string{
	models.QualityExcellent: "\U0001F31F",
	models.QualityGood:      "✅",
	models.QualityFair:      "\U0001F7E1",
	models.QualityWeak:      "⚪",
}

// NotifyOpportunity sends one accepted opportunity as a formatted alert.
func (n *TelegramNotifier) NotifyOpportunity(ctx context.Context, opp *models.Opportunity) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>VALUE OPPORTUNITY</b>\n\n", qualityEmoji[opp.Quality])
	fmt.Fprintf(&b, "⚽ <b>%s vs %s</b>\n", opp.HomeTeam, opp.AwayTeam)
	fmt.Fprintf(&b, "\U0001F3C6 %s\n", opp.League)
	fmt.Fprintf(&b, "\U0001F4C5 %s\n\n", opp.Kickoff.UTC().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "\U0001F4CA <b>ANALYSIS</b>\n")
	fmt.Fprintf(&b, "• Probability: <b>%.1f%%</b>\n", opp.OurProbability*100)
	fmt.Fprintf(&b, "• Over 1.5 odds: <b>%.2f</b>\n", opp.Odds)
	fmt.Fprintf(&b, "• Expected value: <b>%+.1f%%</b>\n", opp.ExpectedValue*100)
	fmt.Fprintf(&b, "• Edge: <b>%+.1f%%</b>\n\n", opp.Edge*100)
	fmt.Fprintf(&b, "\U0001F4B0 <b>RECOMMENDATION</b>\n")
	fmt.Fprintf(&b, "• Stake: <b>%.1f%%</b> of bankroll\n", opp.RecommendedStake*100)
	fmt.Fprintf(&b, "• Quality: <b>%s</b>\n", opp.Quality)
	fmt.Fprintf(&b, "• Risk: <b>%s</b>\n", opp.Risk)
	fmt.Fprintf(&b, "• Confidence: <b>%.0f%%</b>", opp.Confidence*100)
	if opp.Warning != "" {
		fmt.Fprintf(&b, "\n\n⚠️ %s", opp.Warning)
	}

	return n.sendMessage(ctx, b.String())
}

// NotifyDailySummary sends the analysis run summary.
func (n *TelegramNotifier) NotifyDailySummary(ctx context.Context, opportunities []*models.Opportunity, totalFixtures int) error {
	var b strings.Builder

	if len(opportunities) == 0 {
		fmt.Fprintf(&b, "\U0001F4CA <b>DAILY SUMMARY - Over 1.5</b>\n\n")
		fmt.Fprintf(&b, "\U0001F50D Fixtures analyzed: <b>%d</b>\n", totalFixtures)
		fmt.Fprintf(&b, "❌ No value opportunities found today")
		return n.sendMessage(ctx, b.String())
	}

	var sumEV, sumProb, sumStake float64
	qualityDist := map[string]int{}
	for _, opp := range opportunities {
		sumEV += opp.ExpectedValue
		sumProb += opp.OurProbability
		sumStake += opp.RecommendedStake
		qualityDist[opp.Quality.String()]++
	}
	count := float64(len(opportunities))

	fmt.Fprintf(&b, "\U0001F3AF <b>DAILY SUMMARY - Over 1.5</b>\n\n")
	fmt.Fprintf(&b, "\U0001F50D Fixtures analyzed: <b>%d</b>\n", totalFixtures)
	fmt.Fprintf(&b, "✅ Opportunities found: <b>%d</b>\n\n", len(opportunities))
	fmt.Fprintf(&b, "\U0001F4CA <b>STATISTICS</b>\n")
	fmt.Fprintf(&b, "• Avg EV: <b>%+.1f%%</b>\n", sumEV/count*100)
	fmt.Fprintf(&b, "• Avg probability: <b>%.1f%%</b>\n", sumProb/count*100)
	fmt.Fprintf(&b, "• Total stake: <b>%.1f%%</b>\n\n", sumStake*100)
	fmt.Fprintf(&b, "\U0001F3C6 <b>QUALITY</b>\n")
	for _, tier := range []models.QualityTier{models.QualityExcellent, models.QualityGood, models.QualityFair, models.QualityWeak} {
		if c, ok := qualityDist[tier.String()]; ok {
			fmt.Fprintf(&b, "• %s: %dx\n", tier, c)
		}
	}

	return n.sendMessage(ctx, strings.TrimRight(b.String(), "\n"))
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

func (n *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                n.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("failed to encode telegram message: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		n.baseURL+"/sendMessage", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram sendMessage returned %d", resp.StatusCode)
	}

	metrics.RecordNotificationSent()
	n.logger.Debug("Telegram message sent")
	return nil
}

// NopNotifier discards all notifications. Used when Telegram is disabled.
type NopNotifier struct{}

func (NopNotifier) NotifyOpportunity(context.Context, *models.Opportunity) error {
	return nil
}

func (NopNotifier) NotifyDailySummary(context.Context, []*models.Opportunity, int) error {
	return nil
}
