package builder

import (
	"encoding/json"
	"fmt"
	"strings"

	"tutor-lesson-pipeline/internal/domain/model"
)

// systemPrompt is the contract with the generative model: strict JSON with
// exactly the lesson schema keys, nothing else.
const systemPrompt = `You are Mimi, a warm, patient French tutor for an 11-year-old (A1-A2 level).
Turn the input (topic, text excerpt, image descriptions) into a complete 30-minute lesson.

Return STRICT JSON ONLY with EXACTLY these keys:

{
  "title": "string",
  "duration": "string (e.g., '30 min')",
  "objectives": ["string", "..."],
  "plan": [
    { "name": "string", "minutes": "string or number", "teacher_script": "string" }
  ],
  "image_prompts": [
    { "id": "string", "prompt": "string" }
  ],
  "first_tutor_messages": ["string", "..."]
}

Rules:
- No extra keys.
- No code fences.
- No prose outside JSON.
- Make language simple and encouraging; short sentences; playful tone.
- Include speaking aloud, call-and-response, mini-games, and a creative wrap-up.
- Provide 5-8 kid-safe image prompts (no brands, no text in-image, no real faces).`

const maxExcerptLen = 12000

// buildPayload is what the model receives as the user message.
type buildPayload struct {
	TopicHint         string   `json:"topic_hint"`
	PDFTextExcerpt    string   `json:"pdf_text_excerpt"`
	ImageDescriptions []string `json:"image_descriptions"`
	Age               int      `json:"age"`
}

func payloadJSON(topic, text string, age int) string {
	p := buildPayload{
		TopicHint:         topic,
		PDFTextExcerpt:    trimExcerpt(text),
		ImageDescriptions: []string{},
		Age:               age,
	}
	b, _ := json.Marshal(p)
	return string(b)
}

func trimExcerpt(s string) string {
	r := []rune(s)
	if len(r) > maxExcerptLen {
		r = r[:maxExcerptLen]
	}
	return string(r)
}

// parseLesson decodes the model reply and normalizes it to the strict
// schema. Models routinely drift on key names (activities vs plan,
// duration_minutes vs duration), so normalization is forgiving.
func parseLesson(reply, sourceText string) (*model.Lesson, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")

	var raw map[string]any
	if err := json.Unmarshal([]byte(reply), &raw); err != nil {
		return nil, fmt.Errorf("builder reply is not json: %w", err)
	}
	lesson := normalize(raw)
	lesson.UISteps = uiSteps(lesson, sourceText)
	return lesson, nil
}

func normalize(obj map[string]any) *model.Lesson {
	lesson := &model.Lesson{
		Title:    stringOr(obj["title"], stringOr(obj["lesson_title"], "Leçon")),
		Duration: normalizeDuration(obj),
	}

	for _, v := range anySlice(obj["objectives"]) {
		if s := stringOr(v, ""); s != "" {
			lesson.Objectives = append(lesson.Objectives, s)
		}
	}

	planIn := anySlice(obj["plan"])
	if len(planIn) == 0 {
		planIn = anySlice(obj["activities"])
	}
	if len(planIn) == 0 {
		planIn = anySlice(obj["sections"])
	}
	for _, v := range planIn {
		step, ok := v.(map[string]any)
		if !ok {
			continue
		}
		lesson.Plan = append(lesson.Plan, model.LessonStep{
			Name:          stringOr(step["name"], stringOr(step["title"], "Étape")),
			Minutes:       minutesOr(step),
			TeacherScript: scriptOr(step),
		})
	}

	promptsIn := anySlice(obj["image_prompts"])
	if len(promptsIn) == 0 {
		promptsIn = anySlice(obj["imagePrompts"])
	}
	for i, v := range promptsIn {
		it, ok := v.(map[string]any)
		if !ok {
			continue
		}
		prompt := stringOr(it["prompt"], stringOr(it["image_prompt"], ""))
		if prompt == "" {
			continue
		}
		id := stringOr(it["id"], fmt.Sprintf("img%d", i+1))
		lesson.ImagePrompts = append(lesson.ImagePrompts, model.ImagePrompt{ID: id, Prompt: prompt})
	}

	for _, v := range anySlice(obj["first_tutor_messages"]) {
		if s := stringOr(v, ""); s != "" {
			lesson.FirstTutorMessages = append(lesson.FirstTutorMessages, s)
		}
	}
	if len(lesson.FirstTutorMessages) == 0 {
		lesson.FirstTutorMessages = []string{"Bonjour ! " + lesson.Title}
	}
	return lesson
}

// uiSteps keeps the legacy preview format alive: the first three plan steps,
// or a short excerpt of the source text when the plan came back empty.
func uiSteps(lesson *model.Lesson, sourceText string) []model.UIStep {
	var steps []model.UIStep
	for i, block := range lesson.Plan {
		if i == 3 {
			break
		}
		steps = append(steps, model.UIStep{Step: block.Name})
		if script := strings.SplitN(block.TeacherScript, "\n", 2)[0]; script != "" {
			r := []rune(script)
			if len(r) > 140 {
				r = r[:140]
			}
			steps = append(steps, model.UIStep{Prompt: string(r)})
		}
	}
	if len(steps) > 0 {
		return steps
	}

	preview := strings.TrimSpace(sourceText)
	if preview == "" {
		preview = "Nouvelle leçon"
	}
	r := []rune(preview)
	if len(r) > 160 {
		r = r[:160]
	}
	return []model.UIStep{
		{Step: "Explorons : " + string(r)},
		{Prompt: "Répète : Bonjour Mimi ! Je suis prêt(e) à apprendre !"},
	}
}

func normalizeDuration(obj map[string]any) string {
	switch d := obj["duration"].(type) {
	case string:
		if d != "" {
			return d
		}
	case float64:
		return fmt.Sprintf("%d min", int(d))
	}
	if d, ok := obj["duration_minutes"].(float64); ok {
		return fmt.Sprintf("%d min", int(d))
	}
	return "30 min"
}

func minutesOr(step map[string]any) string {
	for _, key := range []string{"minutes", "duration", "duration_minutes"} {
		switch v := step[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%d", int(v))
		}
	}
	return ""
}

func scriptOr(step map[string]any) string {
	if s := stringOr(step["teacher_script"], ""); s != "" {
		return s
	}
	if s := stringOr(step["script"], ""); s != "" {
		return s
	}
	if steps := anySlice(step["steps"]); len(steps) > 0 {
		var parts []string
		for _, v := range steps {
			if s := stringOr(v, ""); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " • ")
	}
	return stringOr(step["description"], "")
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

func anySlice(v any) []any {
	s, _ := v.([]any)
	return s
}
