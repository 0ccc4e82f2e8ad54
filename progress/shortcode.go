package progress

import (
	"net/url"
	"regexp"
	"strings"

	"plangen/models/roadmap"
)

// DirectiveKind discriminates the structured pieces a step description is
// split into.
type DirectiveKind string

const (
	DirectiveText      DirectiveKind = "text"
	DirectiveVideo     DirectiveKind = "video"
	DirectiveQuiz      DirectiveKind = "quiz"
	DirectiveChecklist DirectiveKind = "checklist"
)

// Directive is one renderable unit of a step description. Descriptions embed
// [video:CODE], [quiz:CODE] and [checklist:CODE] placeholders; parsing them
// into directives keeps raw markup out of the substitution path.
type Directive struct {
	Kind        DirectiveKind `json:"kind"`
	Text        string        `json:"text,omitempty"`
	Shortcode   string        `json:"shortcode,omitempty"`
	EmbedURL    string        `json:"embed_url,omitempty"`
	QuizID      uint          `json:"quiz_id,omitempty"`
	ChecklistID uint          `json:"checklist_id,omitempty"`
}

var shortcodeRe = regexp.MustCompile(`\[(video|quiz|checklist):([A-Z0-9]+)\]`)

// ParseDirectives splits a step description into ordered directives,
// resolving shortcodes against the step's videos, quiz items and checklist
// items. A placeholder that resolves to nothing stays in the text verbatim.
func ParseDirectives(description string, videos []roadmap.VideoLink, quizzes []roadmap.QuizItem, checklist []roadmap.ChecklistItem) []Directive {
	if description == "" {
		return nil
	}

	var directives []Directive
	appendText := func(s string) {
		if s != "" {
			directives = append(directives, Directive{Kind: DirectiveText, Text: s})
		}
	}

	rest := description
	for {
		loc := shortcodeRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			appendText(rest)
			return directives
		}
		kind := rest[loc[2]:loc[3]]
		code := rest[loc[4]:loc[5]]

		resolved := resolveShortcode(kind, code, videos, quizzes, checklist)
		if resolved == nil {
			// unresolved placeholder stays in the text verbatim
			appendText(rest[:loc[1]])
		} else {
			appendText(rest[:loc[0]])
			directives = append(directives, *resolved)
		}
		rest = rest[loc[1]:]
	}
}

func resolveShortcode(kind, code string, videos []roadmap.VideoLink, quizzes []roadmap.QuizItem, checklist []roadmap.ChecklistItem) *Directive {
	switch kind {
	case "video":
		for _, v := range videos {
			if v.Shortcode == code {
				embed := VideoEmbedURL(v.URL)
				if embed == "" {
					return nil
				}
				return &Directive{Kind: DirectiveVideo, Shortcode: code, EmbedURL: embed}
			}
		}
	case "quiz":
		for _, q := range quizzes {
			if q.Shortcode == code {
				return &Directive{Kind: DirectiveQuiz, Shortcode: code, QuizID: q.ID}
			}
		}
	case "checklist":
		for _, c := range checklist {
			if c.Shortcode == code {
				return &Directive{Kind: DirectiveChecklist, Shortcode: code, ChecklistID: c.ID}
			}
		}
	}
	return nil
}

// VideoEmbedURL converts a YouTube or Vimeo watch URL to its embeddable
// form. Unknown hosts return "".
func VideoEmbedURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	switch {
	case strings.Contains(host, "youtu.be"):
		return "https://www.youtube.com/embed/" + strings.TrimPrefix(u.Path, "/")
	case strings.Contains(host, "youtube.com"):
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	case strings.Contains(host, "vimeo.com"):
		return "https://player.vimeo.com/video/" + strings.TrimPrefix(u.Path, "/")
	}
	return ""
}
