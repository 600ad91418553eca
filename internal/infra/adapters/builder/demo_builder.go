package builder

import (
	"context"

	"tutor-lesson-pipeline/internal/domain/model"
	"tutor-lesson-pipeline/internal/domain/ports/adapter"
)

var _ adapter.LessonBuilder = (*DemoBuilder)(nil)

// DemoBuilder returns a canned lesson so the pipeline runs end to end
// without any AI provider configured (builder.provider: demo).
type DemoBuilder struct{}

func NewDemoBuilder() *DemoBuilder { return &DemoBuilder{} }

func (DemoBuilder) BuildLesson(_ context.Context, in adapter.BuildInput) (*model.Lesson, error) {
	lesson := &model.Lesson{
		Title:      "Démo — Les symboles de la France",
		Duration:   "30 min",
		Objectives: []string{"Reconnaître quelques symboles", "Dire 'C'est ...'"},
		Plan: []model.LessonStep{
			{Name: "Échauffement — Devine l'image", Minutes: "5", TeacherScript: "Regarde l'image. Qu'est-ce que c'est ? Répète : C'est un croissant !"},
			{Name: "Jeu — Associer", Minutes: "8", TeacherScript: "Associe la photo au mot. Répète ensemble."},
			{Name: "Découverte — Carte du monde", Minutes: "7", TeacherScript: "On parle français dans plusieurs pays."},
			{Name: "Jeu de rôle — Guide & Touriste", Minutes: "6", TeacherScript: "Tu es le guide, je suis le touriste."},
			{Name: "Créatif — Dessin", Minutes: "4", TeacherScript: "Dessine ton symbole préféré et dis : C'est ..."},
		},
		ImagePrompts: []model.ImagePrompt{
			{ID: "img1", Prompt: "Kid-friendly illustration of the Eiffel Tower, bright colors, no text, no real faces, teaching style"},
			{ID: "img2", Prompt: "Croissant on a small plate, friendly illustration, simple shapes, no text"},
		},
		FirstTutorMessages: []string{"Bonjour ! Prêt(e) ? On commence avec un jeu de devinettes !"},
	}
	lesson.UISteps = uiSteps(lesson, in.Text)
	return lesson, nil
}
