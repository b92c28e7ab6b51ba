package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"sjsage522/priceworker/logger"
	"sjsage522/priceworker/pkg/errors"
)

// TelegramNotifier sends messages through the Telegram bot API.
// Info messages go to the logging channel, alerts to the alerting channel.
type TelegramNotifier struct {
	client          *http.Client
	endpoint        string
	token           string
	loggingChannel  string
	alertingChannel string
	log             *logger.Logger
}

// NewTelegramNotifier creates a new Telegram notifier.
// The endpoint is the API base URL, normally https://api.telegram.org.
func NewTelegramNotifier(endpoint, token, loggingChannel, alertingChannel string) *TelegramNotifier {
	return &TelegramNotifier{
		client:          &http.Client{Timeout: 10 * time.Second},
		endpoint:        endpoint,
		token:           token,
		loggingChannel:  loggingChannel,
		alertingChannel: alertingChannel,
		log:             logger.ForNotifier(),
	}
}

// Notify sends a message to the channel matching the severity
func (n *TelegramNotifier) Notify(ctx context.Context, message string, severity Severity) error {
	chatID := n.loggingChannel
	if severity == SeverityAlert {
		chatID = n.alertingChannel
	}

	query := url.Values{}
	query.Set("chat_id", chatID)
	query.Set("text", message)

	sendURL := fmt.Sprintf("%s/bot%s/sendMessage?%s", n.endpoint, n.token, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sendURL, nil)
	if err != nil {
		return errors.NewNotify("telegram", "failed to create sendMessage request", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return errors.NewNotify("telegram", "sendMessage request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewNotify("telegram",
			fmt.Sprintf("sendMessage returned status %d", resp.StatusCode), nil)
	}

	n.log.Debug().
		Str("severity", string(severity)).
		Str("chat_id", chatID).
		Msg("Notification sent")

	return nil
}
