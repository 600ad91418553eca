//go:build !integration

package builder

import (
	"strings"
	"testing"
)

func TestParseLesson(t *testing.T) {
	t.Run("should accept the strict schema verbatim", func(t *testing.T) {
		reply := `{
			"title": "Les symboles de la France",
			"duration": "30 min",
			"objectives": ["Reconnaître le drapeau"],
			"plan": [
				{"name": "Échauffement", "minutes": "5", "teacher_script": "Bonjour !\nOn commence."}
			],
			"image_prompts": [{"id": "img1", "prompt": "un drapeau tricolore stylisé"}],
			"first_tutor_messages": ["Salut !"]
		}`
		lesson, err := parseLesson(reply, "texte source")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if lesson.Title != "Les symboles de la France" {
			t.Errorf("unexpected title %q", lesson.Title)
		}
		if len(lesson.Plan) != 1 || lesson.Plan[0].Minutes != "5" {
			t.Errorf("unexpected plan %+v", lesson.Plan)
		}
		if lesson.Plan[0].TeacherScript != "Bonjour !\nOn commence." {
			t.Errorf("unexpected script %q", lesson.Plan[0].TeacherScript)
		}
		if len(lesson.ImagePrompts) != 1 || lesson.ImagePrompts[0].ID != "img1" {
			t.Errorf("unexpected image prompts %+v", lesson.ImagePrompts)
		}
		if len(lesson.UISteps) == 0 || lesson.UISteps[0].Step != "Échauffement" {
			t.Errorf("unexpected ui steps %+v", lesson.UISteps)
		}
	})

	t.Run("should strip code fences", func(t *testing.T) {
		reply := "```json\n{\"title\":\"Fenced\",\"plan\":[]}\n```"
		lesson, err := parseLesson(reply, "")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if lesson.Title != "Fenced" {
			t.Errorf("unexpected title %q", lesson.Title)
		}
	})

	t.Run("should normalize drifted key names", func(t *testing.T) {
		reply := `{
			"lesson_title": "Dérive",
			"duration_minutes": 25,
			"activities": [
				{"title": "Jeu", "duration_minutes": 10, "steps": ["Écoute", "Répète"]}
			],
			"imagePrompts": [{"image_prompt": "une salle de classe joyeuse"}]
		}`
		lesson, err := parseLesson(reply, "")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if lesson.Title != "Dérive" {
			t.Errorf("expected lesson_title fallback, got %q", lesson.Title)
		}
		if lesson.Duration != "25 min" {
			t.Errorf("expected normalized duration, got %q", lesson.Duration)
		}
		if len(lesson.Plan) != 1 {
			t.Fatalf("expected one plan step, got %+v", lesson.Plan)
		}
		if lesson.Plan[0].Name != "Jeu" || lesson.Plan[0].Minutes != "10" {
			t.Errorf("unexpected step %+v", lesson.Plan[0])
		}
		if !strings.Contains(lesson.Plan[0].TeacherScript, "Écoute") {
			t.Errorf("expected steps joined into the script, got %q", lesson.Plan[0].TeacherScript)
		}
		if len(lesson.ImagePrompts) != 1 || lesson.ImagePrompts[0].ID != "img1" {
			t.Errorf("expected generated prompt id, got %+v", lesson.ImagePrompts)
		}
	})

	t.Run("should fill defaults for a minimal reply", func(t *testing.T) {
		lesson, err := parseLesson(`{}`, "Le texte du document scanné par l'élève.")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if lesson.Title != "Leçon" {
			t.Errorf("expected default title, got %q", lesson.Title)
		}
		if lesson.Duration != "30 min" {
			t.Errorf("expected default duration, got %q", lesson.Duration)
		}
		if len(lesson.FirstTutorMessages) == 0 {
			t.Error("expected a default first tutor message")
		}
		if len(lesson.UISteps) == 0 || !strings.HasPrefix(lesson.UISteps[0].Step, "Explorons : ") {
			t.Errorf("expected the excerpt ui step, got %+v", lesson.UISteps)
		}
	})

	t.Run("should reject non-json replies", func(t *testing.T) {
		if _, err := parseLesson("Je ne peux pas aider avec ça.", ""); err == nil {
			t.Fatal("expected an error for a prose reply")
		}
	})

	t.Run("should cap ui steps at the first three plan blocks", func(t *testing.T) {
		reply := `{"title":"Long","plan":[
			{"name":"Un","teacher_script":"a"},
			{"name":"Deux","teacher_script":"b"},
			{"name":"Trois","teacher_script":"c"},
			{"name":"Quatre","teacher_script":"d"}
		]}`
		lesson, err := parseLesson(reply, "")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		for _, s := range lesson.UISteps {
			if s.Step == "Quatre" {
				t.Error("expected only the first three plan steps in ui steps")
			}
		}
	})
}

func TestPayloadJSON(t *testing.T) {
	t.Run("should cap the excerpt", func(t *testing.T) {
		long := strings.Repeat("x", maxExcerptLen+100)
		got := payloadJSON("Topic", long, 11)
		if len(got) > maxExcerptLen+200 {
			t.Errorf("payload not capped, %d bytes", len(got))
		}
		if !strings.Contains(got, `"age":11`) {
			t.Errorf("expected age field, got %s", got[:80])
		}
	})
}
