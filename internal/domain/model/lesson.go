package model

// Lesson is the structured artifact produced by the lesson builder.
// The pipeline treats it as opaque: it is persisted and returned to polling
// clients verbatim, the worker never interprets its contents.
type Lesson struct {
	Title              string        `json:"title"`
	Duration           string        `json:"duration"`
	Objectives         []string      `json:"objectives"`
	Plan               []LessonStep  `json:"plan"`
	ImagePrompts       []ImagePrompt `json:"image_prompts"`
	FirstTutorMessages []string      `json:"first_tutor_messages"`
	UISteps            []UIStep      `json:"ui_steps,omitempty"`
}

type LessonStep struct {
	Name          string `json:"name"`
	Minutes       string `json:"minutes"`
	TeacherScript string `json:"teacher_script"`
}

type ImagePrompt struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

// UIStep is the legacy preview format some front-ends still read.
type UIStep struct {
	Step   string `json:"step,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

// FallbackLesson is the fixed single-note artifact substituted when the
// builder fails. The job is still marked completed in that case: content
// generation failing is a degraded result, not a pipeline failure.
func FallbackLesson() *Lesson {
	return &Lesson{
		Title:    "Leçon depuis fichier",
		Duration: "30 min",
		Plan: []LessonStep{{
			Name:          "Note",
			TeacherScript: "La leçon complète n'a pas pu être générée cette fois. Relis le document avec ton tuteur et réessaie.",
		}},
		FirstTutorMessages: []string{"Bonjour ! On regarde ton document ensemble ?"},
	}
}
