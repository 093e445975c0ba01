package domain

import "fmt"

// ContentCard is one step within a mission. Cards are immutable once the
// mission is authored.
type ContentCard struct {
	Type          CardType `json:"type"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	ImageURL      string   `json:"image_url,omitempty"`
	QuizOptions   []string `json:"quiz_options,omitempty"`
	CorrectOption *int     `json:"correct_option,omitempty"`
}

// CardVariant is the per-type behaviour of a card. Every CardType maps to
// exactly one variant; callers dispatch through it instead of switching on
// the type string.
type CardVariant interface {
	Kind() CardType
	Label() string
	Icon() string
	// CheckAdvance reports whether the user may move past the card given
	// whether an answer has been recorded for it.
	CheckAdvance(answered bool) error
	// CheckAnswer validates an option index recorded against the card.
	CheckAnswer(card ContentCard, option int) error
	NeedsProof() bool
}

type infoVariant struct {
	kind  CardType
	label string
	icon  string
}

func (v infoVariant) Kind() CardType { return v.kind }
func (v infoVariant) Label() string { return v.label }
func (v infoVariant) Icon() string { return v.icon }
func (v infoVariant) CheckAdvance(bool) error { return nil }
func (v infoVariant) NeedsProof() bool { return false }
func (v infoVariant) CheckAnswer(card ContentCard, _ int) error {
	return newValidationError(ErrCodeNotQuizCard, "card %q is not a quiz", card.Title)
}

type quizVariant struct{}

func (quizVariant) Kind() CardType { return CardQuiz }
func (quizVariant) Label() string { return "Question" }
func (quizVariant) Icon() string { return "?" }
func (quizVariant) NeedsProof() bool { return false }

func (quizVariant) CheckAdvance(answered bool) error {
	if !answered {
		return ErrAnswerRequired
	}
	return nil
}

func (quizVariant) CheckAnswer(card ContentCard, option int) error {
	if option < 0 || option >= len(card.QuizOptions) {
		return newValidationError(ErrCodeInvalidAnswer, "option %d out of range (card has %d options)", option, len(card.QuizOptions))
	}
	return nil
}

type photoProofVariant struct{ infoVariant }

func (photoProofVariant) NeedsProof() bool { return true }

var cardVariants = map[CardType]CardVariant{
	CardText:       infoVariant{kind: CardText, label: "Information", icon: "📖"},
	CardImage:      infoVariant{kind: CardImage, label: "Image", icon: "🖼"},
	CardVideo:      infoVariant{kind: CardVideo, label: "Video", icon: "▶"},
	CardChecklist:  infoVariant{kind: CardChecklist, label: "Checklist", icon: "☑"},
	CardQuiz:       quizVariant{},
	CardPhotoProof: photoProofVariant{infoVariant{kind: CardPhotoProof, label: "Photo Proof", icon: "📷"}},
}

// ValidCardTypes is the canonical set of accepted card type strings.
var ValidCardTypes = map[string]bool{
	"text": true, "image": true, "video": true,
	"quiz": true, "checklist": true, "photo_proof": true,
}

// Variant returns the behaviour for the card's type. Unknown types behave as
// plain information cards.
func (c ContentCard) Variant() CardVariant {
	if v, ok := cardVariants[c.Type]; ok {
		return v
	}
	return infoVariant{kind: c.Type, label: "Unknown", icon: "·"}
}

// IsCorrect reports whether option is the card's correct quiz answer.
// Cards without a correct option never count as correct.
func (c ContentCard) IsCorrect(option int) bool {
	return c.Type == CardQuiz && c.CorrectOption != nil && *c.CorrectOption == option
}

// Validate checks an authored card for structural errors.
func (c ContentCard) Validate() error {
	if !ValidCardTypes[string(c.Type)] {
		return fmt.Errorf("invalid card type %q", c.Type)
	}
	if c.Title == "" {
		return fmt.Errorf("card title is required")
	}
	if c.Type != CardQuiz {
		if len(c.QuizOptions) > 0 {
			return fmt.Errorf("card %q: quiz_options only allowed on quiz cards", c.Title)
		}
		return nil
	}
	if len(c.QuizOptions) < 2 {
		return fmt.Errorf("quiz card %q needs at least 2 options", c.Title)
	}
	if c.CorrectOption != nil && (*c.CorrectOption < 0 || *c.CorrectOption >= len(c.QuizOptions)) {
		return fmt.Errorf("quiz card %q: correct_option %d out of range", c.Title, *c.CorrectOption)
	}
	return nil
}
