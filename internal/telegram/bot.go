// Package telegram runs the webhook bot that mirrors the planner on the phone.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"weekmenu/internal/clock"
	"weekmenu/internal/config"
	"weekmenu/internal/importer"
	"weekmenu/internal/recipe"
	"weekmenu/internal/shopping"
	"weekmenu/internal/suggestion"
	"weekmenu/internal/weekplan"
)

// Bot wraps the Telegram API around the suggestion engine and week plan.
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      config.TelegramConfig
	engine   *suggestion.Engine
	resolver *weekplan.Resolver
	recipes  *recipe.Repository
	scraper  *importer.Scraper
	clk      clock.Clock
	logger   *zap.Logger
}

// NewBot initializes the Telegram bot and sets the webhook.
func NewBot(
	cfg config.TelegramConfig,
	engine *suggestion.Engine,
	resolver *weekplan.Resolver,
	recipes *recipe.Repository,
	scraper *importer.Scraper,
	clk clock.Clock,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.WebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.WebhookURL, err)
	}

	return &Bot{
		api:      api,
		cfg:      cfg,
		engine:   engine,
		resolver: resolver,
		recipes:  recipes,
		scraper:  scraper,
		clk:      clk,
		logger:   logger,
	}, nil
}

// WebhookHandler returns the HTTP handler Telegram posts updates to.
func (b *Bot) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		update, err := b.api.HandleUpdate(r)
		if err != nil {
			b.logger.Warn("failed to parse telegram update", zap.Error(err))
			return
		}

		if update.CallbackQuery != nil {
			if b.allowed(update.CallbackQuery.From.ID) {
				go b.handleCallback(update.CallbackQuery)
			}
			return
		}
		if update.Message == nil {
			return
		}
		if !b.allowed(update.Message.From.ID) {
			b.logger.Warn("unauthorized telegram message",
				zap.Int64("user_id", update.Message.From.ID),
				zap.String("username", update.Message.From.UserName))
			return
		}

		go b.processMessage(update.Message)
	}
}

func (b *Bot) allowed(userID int64) bool {
	for _, id := range b.cfg.AllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	text := strings.TrimSpace(msg.Text)
	switch {
	case text == "/vandaag" || text == "/start":
		b.sendToday(ctx, msg.Chat.ID)
	case text == "/week":
		b.sendWeek(ctx, msg.Chat.ID)
	case text == "/boodschappen":
		b.sendShoppingList(ctx, msg.Chat.ID)
	case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
		b.clipRecipe(ctx, msg.Chat.ID, text)
	default:
		b.send(msg.Chat.ID, "Ik ken dat niet. Probeer /vandaag, /week of /boodschappen, of stuur een recept-URL.")
	}
}

// sendToday shows today's suggestion with inline accept/reject buttons.
func (b *Bot) sendToday(ctx context.Context, chatID int64) {
	result, err := b.engine.GetToday(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}

	text := fmt.Sprintf("🍽 *Vandaag*: %s\n🌡 %.0f°C, %s",
		result.Recipe.Name, result.Suggestion.Weather.Temp, result.Suggestion.Weather.Description)
	reply := tgbotapi.NewMessage(chatID, text)
	reply.ParseMode = "Markdown"

	if result.Suggestion.Status == suggestion.StatusPending {
		id := strconv.FormatInt(result.Suggestion.ID, 10)
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Eet ik", "accept|"+id),
				tgbotapi.NewInlineKeyboardButtonData("🔄 Iets anders", "reject|"+id),
			),
		)
		reply.ReplyMarkup = keyboard
	}
	b.api.Send(reply)
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Remove the spinner before doing any work.
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	parts := strings.Split(query.Data, "|")
	if len(parts) != 2 {
		return
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return
	}

	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	switch parts[0] {
	case "accept":
		result, err := b.engine.Accept(ctx, id)
		if err != nil {
			b.sendError(chatID, err)
			return
		}
		edit := tgbotapi.NewEditMessageText(chatID, messageID,
			fmt.Sprintf("✅ *%s* staat op het menu. Eet smakelijk!", result.Recipe.Name))
		edit.ParseMode = "Markdown"
		b.api.Send(edit)
	case "reject":
		result, err := b.engine.Reject(ctx, id)
		if err != nil {
			b.sendError(chatID, err)
			return
		}
		text := fmt.Sprintf("🔄 Nieuw voorstel: *%s*", result.Recipe.Name)
		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		edit.ParseMode = "Markdown"
		sid := strconv.FormatInt(result.Suggestion.ID, 10)
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Eet ik", "accept|"+sid),
				tgbotapi.NewInlineKeyboardButtonData("🔄 Iets anders", "reject|"+sid),
			),
		)
		edit.ReplyMarkup = &keyboard
		b.api.Send(edit)
	}
}

func (b *Bot) sendWeek(ctx context.Context, chatID int64) {
	days, err := b.resolver.ResolveWeek(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}

	var sb strings.Builder
	sb.WriteString("📅 *Weekmenu*\n\n")
	for _, day := range days {
		label := day.Date
		if t, err := time.Parse(clock.DateFormat, day.Date); err == nil {
			label = dutchWeekday(t.Weekday())
		}
		if day.IsToday {
			label = "Vandaag"
		}
		name := "_leeg_"
		if day.Recipe != nil {
			name = day.Recipe.Name
		}
		sb.WriteString(fmt.Sprintf("*%s*: %s (%.0f°C)\n", label, name, day.Temp))
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

func (b *Bot) sendShoppingList(ctx context.Context, chatID int64) {
	days, err := b.resolver.ResolveWeek(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	list := shopping.Build(days, b.clk.Today(), b.clk.Now())

	var sb strings.Builder
	sb.WriteString("🛒 *Boodschappenlijst*\n")
	for _, group := range list.Categories {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", group.Name))
		for _, item := range group.Items {
			if item.Amount != nil {
				sb.WriteString(fmt.Sprintf("• %s %s %s\n",
					trimFloat(*item.Amount), item.Unit, item.DisplayName))
			} else {
				sb.WriteString(fmt.Sprintf("• %s\n", item.DisplayName))
			}
		}
	}
	if len(list.Categories) == 0 {
		sb.WriteString("\n_De week is nog leeg._")
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

// clipRecipe scrapes a URL and saves the result straight into the catalog.
func (b *Bot) clipRecipe(ctx context.Context, chatID int64, url string) {
	status := tgbotapi.NewMessage(chatID, "✂️ *Recept knippen...*")
	status.ParseMode = "Markdown"
	sent, err := b.api.Send(status)
	if err != nil {
		b.logger.Warn("failed to send status message", zap.Error(err))
		return
	}

	imported, err := b.scraper.ScrapeURL(ctx, url)
	if err != nil {
		b.editError(chatID, sent.MessageID, err)
		return
	}

	rec := &recipe.Recipe{
		Name:         imported.Name,
		Category:     recipe.CategoryDiner,
		Instructions: imported.Instructions,
		Servings:     imported.Servings,
		ImageURL:     imported.ImageURL,
		SourceURL:    url,
	}
	for _, ing := range imported.Ingredients {
		rec.Ingredients = append(rec.Ingredients, recipe.Ingredient{
			Name:     ing.Name,
			Amount:   ing.Amount,
			Unit:     ing.Unit,
			Scalable: ing.Amount != nil,
		})
	}
	if err := b.recipes.Create(ctx, rec); err != nil {
		b.editError(chatID, sent.MessageID, err)
		return
	}

	edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID,
		fmt.Sprintf("✅ *Recept opgeslagen!*\n\n*%s* (%d ingrediënten)", rec.Name, len(rec.Ingredients)))
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

func (b *Bot) sendError(chatID int64, err error) {
	b.logger.Warn("telegram command failed", zap.Error(err))
	safe := strings.ReplaceAll(err.Error(), "`", "'")
	b.send(chatID, fmt.Sprintf("❌ *Er ging iets mis:*\n```\n%s\n```", safe))
}

func (b *Bot) editError(chatID int64, messageID int, err error) {
	b.logger.Warn("telegram command failed", zap.Error(err))
	safe := strings.ReplaceAll(err.Error(), "`", "'")
	edit := tgbotapi.NewEditMessageText(chatID, messageID,
		fmt.Sprintf("❌ *Er ging iets mis:*\n```\n%s\n```", safe))
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func dutchWeekday(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "Maandag"
	case time.Tuesday:
		return "Dinsdag"
	case time.Wednesday:
		return "Woensdag"
	case time.Thursday:
		return "Donderdag"
	case time.Friday:
		return "Vrijdag"
	case time.Saturday:
		return "Zaterdag"
	default:
		return "Zondag"
	}
}

func trimFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}
