package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/internal/metrics"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/tools"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/types"
)

const wellnessInstructionsBase = `You are a warm, supportive wellness companion doing a short daily check-in.

Walk the user through four questions, one at a time:
1. How is their mood today?
2. What is their energy level (low, medium or high)?
3. What are one to three objectives for the day?
4. Is anything stressing them out?

After all four answers, summarize what you heard back to them, then use save_checkin
to record the check-in and close with a brief encouragement.

GUIDELINES:
- Be a listener, not a doctor. Never give medical advice.
- One question at a time, short conversational responses, no formatting or emojis.`

// WellnessAssistant runs the daily check-in and records it. When a
// previous check-in exists its summary is folded into the instructions so
// the conversation can open with continuity.
type WellnessAssistant struct {
	*Assistant
	checkins store.CheckinStore
	logger   *zap.Logger
}

// NewWellnessAssistant creates the wellness check-in assistant for one
// conversation. The previous check-in, if any, is read at construction.
func NewWellnessAssistant(ctx context.Context, checkins store.CheckinStore, logger *zap.Logger) *WellnessAssistant {
	instructions := wellnessInstructionsBase
	last, err := checkins.LastCheckin(ctx)
	if err != nil {
		logger.Warn("could not load previous check-in", zap.Error(err))
	} else if last != nil {
		instructions += fmt.Sprintf(`

PREVIOUS CHECK-IN (%s): mood was %q, energy was %s, objectives were %s, stressors: %s.
Open by briefly referencing this, for example asking how yesterday's objectives went.`,
			last.Date, last.Mood, last.EnergyLevel,
			joinSpoken(last.Objectives), orNone(last.Stressors))
	}

	wa := &WellnessAssistant{
		Assistant: newAssistant("wellness", instructions, logger),
		checkins:  checkins,
		logger:    logger.With(zap.String("agent", "wellness")),
	}

	wa.mustRegister("save_checkin", wa.saveCheckin, tools.Metadata{
		Schema: types.ToolSchema{
			Description: "Record today's completed check-in. Call only once all four answers are collected.",
			Parameters: json.RawMessage(`{"type":"object","properties":{
"mood":{"type":"string","description":"How the user described their mood"},
"energy_level":{"type":"string","description":"low, medium or high"},
"objectives":{"type":"array","items":{"type":"string"},"description":"One to three objectives for the day"},
"stressors":{"type":"string","description":"Anything stressing the user, empty if none"}},
"required":["mood","energy_level","objectives"]}`),
		},
	})

	return wa
}

func (wa *WellnessAssistant) saveCheckin(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Mood        string   `json:"mood"`
		EnergyLevel string   `json:"energy_level"`
		Objectives  []string `json:"objectives"`
		Stressors   string   `json:"stressors"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Mood) == "" || len(in.Objectives) == 0 {
		return "I still need your mood and at least one objective before I can save today's check-in.", nil
	}

	now := time.Now()
	entry := &store.Checkin{
		Date:        now.Format("2006-01-02"),
		Time:        now.Format("15:04"),
		Mood:        in.Mood,
		EnergyLevel: in.EnergyLevel,
		Objectives:  in.Objectives,
		Stressors:   in.Stressors,
		Timestamp:   now,
	}
	if err := wa.checkins.SaveCheckin(ctx, entry); err != nil {
		wa.logger.Error("check-in save failed", zap.Error(err))
		metrics.ObservePersistenceFailure("save_checkin")
		return "I'm sorry, I couldn't save your check-in just now. Let's try once more.", nil
	}

	wa.logger.Info("check-in saved", zap.String("date", entry.Date))
	return fmt.Sprintf("Your check-in is saved. Mood %s, energy %s, with %d objective(s) for today. "+
		"I'll remember this for tomorrow. Take care!",
		in.Mood, in.EnergyLevel, len(in.Objectives)), nil
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}
