package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pantry-planner/internal/config"
	"pantry-planner/internal/metrics"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/shopping"
)

const helpText = "🍽 *Pantry Planner*\n\n/plan - latest weekly meal plan\n/shopping - latest shopping list\n/metrics - run metrics (admin)"

// Bot serves stored plans over Telegram.
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          *config.Config
	planRepo     *planner.PlanRepository
	shoppingRepo *shopping.Repository
	metricsStore *metrics.Store
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	planRepo *planner.PlanRepository,
	shoppingRepo *shopping.Repository,
	metricsStore *metrics.Store,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook URL %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		cfg:          cfg,
		planRepo:     planRepo,
		shoppingRepo: shoppingRepo,
		metricsStore: metricsStore,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !isAllowed(b.cfg.TelegramAllowedUserIDs, update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func isAllowed(allowed []int64, id int64) bool {
	for _, a := range allowed {
		if a == id {
			return true
		}
	}
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx := context.Background()

	switch msg.Command() {
	case "plan", "shopping":
		b.handleWeekRequest(ctx, msg.Chat.ID, msg.Command())
	case "metrics":
		if msg.From.ID != b.cfg.AdminTelegramID {
			b.send(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
			return
		}
		b.handleMetricsCommand(ctx, msg.Chat.ID)
	default:
		b.send(msg.Chat.ID, helpText)
	}
}

// latestWeek finds the configured run, or the latest one, and its last week.
func (b *Bot) latestWeek(ctx context.Context) (string, *planner.MealPlan, error) {
	runID := b.cfg.RunID
	if runID == "" {
		latest, err := b.planRepo.LatestRunID(ctx)
		if err != nil {
			return "", nil, err
		}
		runID = latest
	}
	if runID == "" {
		return "", nil, nil
	}

	rows, err := b.planRepo.ListRecentByRun(ctx, runID, 1)
	if err != nil || len(rows) == 0 {
		return runID, nil, err
	}
	plan, err := rows[0].Plan()
	return runID, plan, err
}

func (b *Bot) handleWeekRequest(ctx context.Context, chatID int64, command string) {
	runID, plan, err := b.latestWeek(ctx)
	if err != nil {
		log.Printf("Error loading latest plan: %v", err)
		b.send(chatID, "❌ Error loading the latest plan.")
		return
	}
	if plan == nil {
		b.send(chatID, "_No plans stored yet._")
		return
	}

	list, err := b.shoppingRepo.GetByWeek(ctx, runID, plan.Week)
	if err != nil {
		log.Printf("Error loading shopping list: %v", err)
	}

	planText, shoppingText := formatPlanMarkdownParts(plan, list)
	if command == "plan" {
		b.send(chatID, planText)
		return
	}
	b.send(chatID, shoppingText)
}

func formatPlanMarkdownParts(plan *planner.MealPlan, list *shopping.ShoppingList) (string, string) {
	var pb strings.Builder
	pb.WriteString(fmt.Sprintf("📅 *Week %d Meal Plan*\n\n", plan.Week))
	if plan.Status == planner.StatusRejected {
		pb.WriteString("_Plan rejected: not enough food in the pantry._\n")
	}

	for _, dp := range plan.DayPlans() {
		pb.WriteString(fmt.Sprintf("*%s*\n", dp.Day))
		for _, m := range dp.Meals {
			if m.Breakfast == "" && m.Lunch == "" && m.Dinner == "" {
				continue
			}
			pb.WriteString(fmt.Sprintf("• %s: %s / %s / %s\n", escape(string(m.Member)),
				escape(orDash(string(m.Breakfast))), escape(orDash(string(m.Lunch))), escape(orDash(string(m.Dinner)))))
		}
		pb.WriteString("\n")
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n\n")
	if list == nil || len(list.Items) == 0 {
		sb.WriteString("_Nothing ordered_\n")
		return pb.String(), sb.String()
	}
	total := 0
	for _, item := range list.Items {
		sb.WriteString(fmt.Sprintf("• %s x%d\n", escape(string(item.Food)), item.Units))
		total += item.Units
	}
	sb.WriteString(fmt.Sprintf("\n📦 *Total:* %s units", humanize.Comma(int64(total))))

	return pb.String(), sb.String()
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (b *Bot) handleMetricsCommand(ctx context.Context, chatID int64) {
	runID, _, err := b.latestWeek(ctx)
	if err != nil {
		b.send(chatID, "❌ Error fetching metrics.")
		return
	}
	summary, err := b.metricsStore.GetRunSummary(ctx, runID)
	if err != nil {
		b.send(chatID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))
	b.send(chatID, formatMetrics(summary, health))
}

func formatMetrics(summary *metrics.RunSummary, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Run & Health Report*\n\n")

	sb.WriteString("🗓 *Latest Run*\n")
	if summary == nil {
		sb.WriteString("_No data yet_\n")
	} else {
		sb.WriteString(fmt.Sprintf("• Weeks: %d (%d rejected)\n", summary.Weeks, summary.RejectedWeeks))
		sb.WriteString(fmt.Sprintf("• Meals served: %s\n", humanize.Comma(int64(summary.MealsServed))))
		sb.WriteString(fmt.Sprintf("• Empty slots: %s\n", humanize.Comma(int64(summary.EmptySlots))))
		sb.WriteString(fmt.Sprintf("• Mean satisfaction: %.3f\n", summary.AvgSatisfaction))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %s (Alloc) / %s (Sys)\n", health.Alloc, health.Sys))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}
