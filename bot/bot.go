// Package bot is the front-of-house Telegram bot: staff list a day's
// reservations, check slot availability and move reservations through their
// statuses with inline buttons.
package bot

import (
	"context"
	"fmt"
	"strings"

	"restaurant-site/config"
	"restaurant-site/models"
	"restaurant-site/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// telegramAPI is the part of *tgbotapi.BotAPI the bot uses.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type AdminBot struct {
	api          telegramAPI
	reservations *services.Reservations
	admins       map[int64]bool
}

func New(cfg config.TelegramConfig, reservations *services.Reservations) (*AdminBot, error) {
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(cfg.Token, endpoint)
	if err != nil {
		return nil, err
	}
	return newAdminBot(api, cfg.AdminIDs, reservations), nil
}

func newAdminBot(api telegramAPI, adminIDs []int64, reservations *services.Reservations) *AdminBot {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &AdminBot{api: api, reservations: reservations, admins: admins}
}

func (b *AdminBot) setBotCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "today", Description: "Today's reservations"},
		tgbotapi.BotCommand{Command: "date", Description: "Reservations for YYYY-MM-DD"},
		tgbotapi.BotCommand{Command: "slots", Description: "Seats left per time slot"},
	)
	_, err := b.api.Request(cfg)
	return err
}

// Start polls for updates until ctx is cancelled.
func (b *AdminBot) Start(ctx context.Context) error {
	if err := b.setBotCommands(); err != nil {
		log.Warn().Err(err).Str("action", "bot_set_commands").Msg("Failed to register bot commands")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	log.Info().Str("action", "bot_started").Int("admins", len(b.admins)).Msg("Reservations bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *AdminBot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	msg := update.Message
	if msg == nil || msg.From == nil || !msg.IsCommand() {
		return
	}
	chatID := msg.Chat.ID
	if !b.admins[msg.From.ID] {
		b.reply(chatID, "This bot is for restaurant staff only.")
		return
	}

	switch msg.Command() {
	case "today":
		b.sendDay(ctx, chatID, b.reservations.Today())
	case "date":
		date, err := services.ParseDate("date", strings.TrimSpace(msg.CommandArguments()))
		if err != nil {
			b.reply(chatID, "Usage: /date YYYY-MM-DD")
			return
		}
		b.sendDay(ctx, chatID, date)
	case "slots":
		date := b.reservations.Today()
		if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
			d, err := services.ParseDate("date", arg)
			if err != nil {
				b.reply(chatID, "Usage: /slots [YYYY-MM-DD]")
				return
			}
			date = d
		}
		b.sendSlots(ctx, chatID, date)
	default:
		b.reply(chatID, helpText)
	}
}

const helpText = "/today - today's reservations\n" +
	"/date YYYY-MM-DD - reservations for a day\n" +
	"/slots [YYYY-MM-DD] - seats left per time slot"

func (b *AdminBot) sendDay(ctx context.Context, chatID int64, date models.Date) {
	list, err := b.reservations.ListReservationsForDate(ctx, date)
	if err != nil {
		log.Error().Err(err).Str("action", "bot_list_reservations").Str("date", date.String()).Msg("Failed to list reservations")
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}
	if len(list) == 0 {
		b.reply(chatID, fmt.Sprintf("No reservations for %s.", date))
		return
	}
	b.reply(chatID, fmt.Sprintf("%d reservation(s) for %s:", len(list), date))
	for i := range list {
		b.sendCard(chatID, services.BuildReservationCard(&list[i]))
	}
}

func (b *AdminBot) sendSlots(ctx context.Context, chatID int64, date models.Date) {
	slots, err := b.reservations.GetAvailableTimeSlots(ctx, date)
	if err != nil {
		log.Error().Err(err).Str("action", "bot_slots").Str("date", date.String()).Msg("Failed to compute slots")
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}
	b.reply(chatID, services.BuildSlotsText(date, slots))
}

func (b *AdminBot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	id, status, ok := services.ParseStatusCallback(cq.Data)
	if !ok {
		b.answer(cq.ID, "Invalid callback.")
		return
	}
	if cq.From == nil || !b.admins[cq.From.ID] {
		b.answer(cq.ID, "Unauthorized.")
		return
	}

	res, found, err := b.reservations.UpdateReservationStatus(ctx, id, status)
	if err != nil {
		log.Error().Err(err).
			Str("action", "bot_update_status").
			Int64("reservation_id", id).
			Str("status", status).
			Int64("admin_id", cq.From.ID).
			Msg("Reservation status update failed")
		b.answer(cq.ID, "Something went wrong, please try again.")
		return
	}
	if !found {
		b.answer(cq.ID, "Reservation not found.")
		return
	}
	log.Info().
		Str("action", "bot_update_status").
		Int64("reservation_id", id).
		Str("status", status).
		Int64("admin_id", cq.From.ID).
		Msg("Reservation status updated")
	b.answer(cq.ID, "✅ Status updated.")

	if cq.Message != nil {
		b.editCard(cq.Message.Chat.ID, cq.Message.MessageID, services.BuildReservationCard(res))
	}
}

// cardMarkup converts card buttons to an inline keyboard.
func cardMarkup(c services.CardContent) *tgbotapi.InlineKeyboardMarkup {
	if len(c.Buttons) == 0 {
		return nil
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range c.Buttons {
		var btns []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData))
		}
		rows = append(rows, btns)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func (b *AdminBot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("Telegram send failed")
	}
}

func (b *AdminBot) sendCard(chatID int64, content services.CardContent) {
	msg := tgbotapi.NewMessage(chatID, content.Text)
	if kb := cardMarkup(content); kb != nil {
		msg.ReplyMarkup = *kb
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("Telegram send failed")
	}
}

// editCard rewrites a card in place; terminal statuses get an empty keyboard.
func (b *AdminBot) editCard(chatID int64, messageID int, content services.CardContent) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, content.Text)
	if kb := cardMarkup(content); kb != nil {
		edit.ReplyMarkup = kb
	} else {
		edit.ReplyMarkup = &tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	}
	if _, err := b.api.Send(edit); err != nil && !strings.Contains(err.Error(), "not modified") {
		log.Warn().Err(err).Int64("chat_id", chatID).Int("message_id", messageID).Msg("Telegram edit failed")
	}
}

func (b *AdminBot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Debug().Err(err).Msg("Callback answer failed")
	}
}
