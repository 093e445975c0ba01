package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardVariant_OnlyQuizBlocksAdvance(t *testing.T) {
	cases := []struct {
		typ     CardType
		blocked bool
		proof   bool
	}{
		{CardText, false, false},
		{CardImage, false, false},
		{CardVideo, false, false},
		{CardChecklist, false, false},
		{CardQuiz, true, false},
		{CardPhotoProof, false, true},
	}
	for _, tc := range cases {
		v := ContentCard{Type: tc.typ}.Variant()
		assert.Equal(t, tc.typ, v.Kind())
		assert.Equal(t, tc.blocked, v.CheckAdvance(false) != nil, "type=%s", tc.typ)
		assert.NoError(t, v.CheckAdvance(true), "type=%s", tc.typ)
		assert.Equal(t, tc.proof, v.NeedsProof(), "type=%s", tc.typ)
		assert.NotEmpty(t, v.Label())
	}
}

func TestCardVariant_CheckAnswer(t *testing.T) {
	quiz := ContentCard{Type: CardQuiz, Title: "Q", QuizOptions: []string{"a", "b"}}
	assert.NoError(t, quiz.Variant().CheckAnswer(quiz, 1))

	err := quiz.Variant().CheckAnswer(quiz, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, &ValidationError{Code: ErrCodeInvalidAnswer})

	text := ContentCard{Type: CardText, Title: "T"}
	err = text.Variant().CheckAnswer(text, 0)
	assert.ErrorIs(t, err, &ValidationError{Code: ErrCodeNotQuizCard})
}

func TestContentCard_Validate(t *testing.T) {
	assert.NoError(t, ContentCard{Type: CardText, Title: "Intro"}.Validate())
	assert.Error(t, ContentCard{Type: "poster", Title: "Intro"}.Validate())
	assert.Error(t, ContentCard{Type: CardText}.Validate())
	assert.Error(t, ContentCard{Type: CardText, Title: "T", QuizOptions: []string{"a"}}.Validate())
	assert.Error(t, ContentCard{Type: CardQuiz, Title: "Q", QuizOptions: []string{"a"}}.Validate())
	assert.Error(t, ContentCard{Type: CardQuiz, Title: "Q", QuizOptions: []string{"a", "b"}, CorrectOption: intPtr(5)}.Validate())
	assert.NoError(t, ContentCard{Type: CardQuiz, Title: "Q", QuizOptions: []string{"a", "b"}, CorrectOption: intPtr(0)}.Validate())
}

func TestMission_MatchesCrops(t *testing.T) {
	m := &Mission{TargetCrops: []string{"rice", "wheat"}}
	assert.True(t, m.MatchesCrops([]string{"Basmati Rice"}))
	assert.True(t, m.MatchesCrops([]string{"Corn", "Wheat"}))
	assert.False(t, m.MatchesCrops([]string{"Cotton"}))
	assert.False(t, m.MatchesCrops(nil))

	open := &Mission{}
	assert.True(t, open.MatchesCrops(nil), "missions without targets match everyone")
}

func TestMission_CountCorrect(t *testing.T) {
	m := threeCardMission()
	assert.Equal(t, 1, m.CountCorrect(map[int]int{1: 1}))
	assert.Equal(t, 0, m.CountCorrect(map[int]int{1: 0}))
	assert.Equal(t, 0, m.CountCorrect(map[int]int{0: 1, 9: 1}))
}
