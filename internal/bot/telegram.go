package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram wires the flow to the Telegram long-poll API. Updates are handled
// one at a time on a single goroutine, so messages from one chat are never
// processed concurrently against the same conversation state.
type Telegram struct {
	api  *tgbotapi.BotAPI
	flow *Flow
	log  *zap.SugaredLogger
}

func NewTelegram(token string, flow *Flow, log *zap.SugaredLogger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Telegram{
		api:  api,
		flow: flow,
		log:  log,
	}, nil
}

// Run polls for updates until ctx is cancelled.
func (t *Telegram) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := t.api.GetUpdatesChan(u)
	defer t.api.StopReceivingUpdates()

	t.log.Infow("telegram bot polling", "username", t.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(ctx, update)
		}
	}
}

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	handleCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if _, err := t.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			t.log.Warnw("ack callback", "error", err)
		}

		reply, err := t.flow.HandleCallback(handleCtx, cb.Message.Chat.ID, senderName(cb.From), cb.Data)
		if err != nil {
			t.log.Errorw("handle callback", "data", cb.Data, "error", err)
			return
		}
		t.send(cb.Message.Chat.ID, reply)

	case update.Message != nil && update.Message.IsCommand():
		msg := update.Message
		reply, err := t.flow.HandleCommand(handleCtx, msg.Chat.ID, senderName(msg.From), msg.Command())
		if err != nil {
			t.log.Errorw("handle command", "command", msg.Command(), "error", err)
			return
		}
		t.send(msg.Chat.ID, reply)

	case update.Message != nil && update.Message.Text != "":
		msg := update.Message
		reply, err := t.flow.HandleText(handleCtx, msg.Chat.ID, senderName(msg.From), msg.Text)
		if err != nil {
			t.log.Errorw("handle text", "error", err)
			return
		}
		t.send(msg.Chat.ID, reply)
	}
}

func (t *Telegram) send(chatID int64, reply Reply) {
	if reply.Text == "" {
		return
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if len(reply.Keyboard) > 0 {
		msg.ReplyMarkup = toInlineKeyboard(reply.Keyboard)
	}

	if _, err := t.api.Send(msg); err != nil {
		t.log.Errorw("send reply", "chat", chatID, "error", err)
	}
}

func toInlineKeyboard(rows [][]Button) tgbotapi.InlineKeyboardMarkup {
	var out [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		var btns []tgbotapi.InlineKeyboardButton
		for _, b := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		out = append(out, btns)
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

func senderName(u *tgbotapi.User) string {
	if u == nil {
		return "Unknown"
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.UserName != "" {
		return u.UserName
	}
	return "Unknown"
}
