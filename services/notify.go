package services

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"waiter-telegram/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// OrderNotifier relays a placed order to the kitchen.
type OrderNotifier interface {
	SendOrder(ctx context.Context, items []models.CartItem, table string, total models.Money, settings models.Settings) error
}

// TelegramNotifier posts orders to a chat through the Bot API. The bot token
// and chat id come from the settings row on every call, so an admin can change
// them without a restart.
type TelegramNotifier struct {
	client   tgbotapi.HTTPClient
	endpoint string
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewTelegramNotifier(client tgbotapi.HTTPClient, endpoint string, logger *zap.SugaredLogger) *TelegramNotifier {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &TelegramNotifier{client: client, endpoint: endpoint, logger: logger, now: time.Now}
}

// SendOrder makes exactly one sendMessage call. It does not retry.
func (n *TelegramNotifier) SendOrder(ctx context.Context, items []models.CartItem, table string, total models.Money, settings models.Settings) error {
	if !settings.TelegramConfigured() {
		var missing []string
		if settings.TelegramBotToken == "" {
			missing = append(missing, "telegram_bot_token")
		}
		if settings.TelegramChatID == "" {
			missing = append(missing, "telegram_chat_id")
		}
		return &ConfigurationError{Missing: missing}
	}

	text := BuildKitchenMessage(KitchenOrder{
		Table:    table,
		Items:    items,
		Total:    total,
		Currency: settings.Currency,
		PlacedAt: n.now(),
	})

	// The token comes from the settings row, so the client is built per call.
	// Building it by hand skips the getMe round trip NewBotAPI would make.
	api := &tgbotapi.BotAPI{
		Token:  settings.TelegramBotToken,
		Client: contextClient{ctx: ctx, next: n.client},
		Buffer: 100,
	}
	api.SetAPIEndpoint(n.endpoint)

	msg := tgbotapi.NewMessageToChannel(settings.TelegramChatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := api.Send(msg); err != nil {
		classified := classifySendError(err, settings.TelegramBotToken)
		n.logger.Errorw("send order to telegram", "table", table, "error", classified)
		return classified
	}
	n.logger.Infow("order sent to kitchen", "table", table, "items", len(items), "total", total.String())
	return nil
}

// classifySendError maps a Bot API failure to a domain error. The request URL
// carries the bot token, so transport errors keep only their cause and any
// remaining copy of the token is masked.
func classifySendError(err error, token string) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		desc := apiErr.Message
		if desc == "" {
			desc = "Unknown error"
		}
		return &DeliveryError{Code: apiErr.Code, Description: desc}
	}
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) {
		return &ConnectivityError{Err: redactToken(urlErr.Err, token)}
	}
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &ConnectivityError{Err: redactToken(err, token)}
	}
	// The endpoint answered with something that is not a Bot API response.
	return &DeliveryError{Description: "Unknown error"}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }

func redactToken(err error, token string) error {
	if err == nil || token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "<redacted>"), err: err}
}

// contextClient ties outgoing Bot API requests to the caller's context.
type contextClient struct {
	ctx  context.Context
	next tgbotapi.HTTPClient
}

func (c contextClient) Do(req *http.Request) (*http.Response, error) {
	if c.ctx != nil {
		req = req.WithContext(c.ctx)
	}
	return c.next.Do(req)
}
