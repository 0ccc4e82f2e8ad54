package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"plangen/models/roadmap"
)

func TestParseDirectives(t *testing.T) {
	videos := []roadmap.VideoLink{{URL: "https://youtu.be/abc123", Shortcode: "VID1"}}
	quizzes := []roadmap.QuizItem{{Model: gorm.Model{ID: 7}, Shortcode: "QZ1"}}
	checklist := []roadmap.ChecklistItem{{Model: gorm.Model{ID: 9}, Shortcode: "CHK1"}}

	description := "Watch this first: [video:VID1] then take [quiz:QZ1] and finish with [checklist:CHK1]."
	directives := ParseDirectives(description, videos, quizzes, checklist)

	assert.Len(t, directives, 7)
	assert.Equal(t, DirectiveText, directives[0].Kind)
	assert.Equal(t, "Watch this first: ", directives[0].Text)

	assert.Equal(t, DirectiveVideo, directives[1].Kind)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", directives[1].EmbedURL)

	assert.Equal(t, DirectiveQuiz, directives[3].Kind)
	assert.Equal(t, uint(7), directives[3].QuizID)

	assert.Equal(t, DirectiveChecklist, directives[5].Kind)
	assert.Equal(t, uint(9), directives[5].ChecklistID)

	assert.Equal(t, ".", directives[6].Text)
}

func TestParseDirectivesUnresolved(t *testing.T) {
	directives := ParseDirectives("Before [quiz:NOPE] after", nil, nil, nil)

	// The placeholder stays in the text when no item carries its shortcode
	assert.Len(t, directives, 2)
	assert.Equal(t, "Before [quiz:NOPE]", directives[0].Text)
	assert.Equal(t, " after", directives[1].Text)
}

func TestParseDirectivesPlainText(t *testing.T) {
	directives := ParseDirectives("No markup here", nil, nil, nil)
	assert.Len(t, directives, 1)
	assert.Equal(t, DirectiveText, directives[0].Kind)

	assert.Nil(t, ParseDirectives("", nil, nil, nil))
}

func TestVideoEmbedURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/embed/abc123", VideoEmbedURL("https://youtu.be/abc123"))
	assert.Equal(t, "https://www.youtube.com/embed/xyz", VideoEmbedURL("https://www.youtube.com/watch?v=xyz"))
	assert.Equal(t, "https://player.vimeo.com/video/12345", VideoEmbedURL("https://vimeo.com/12345"))
	assert.Equal(t, "", VideoEmbedURL("https://example.com/video"))
}
