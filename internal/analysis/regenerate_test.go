package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeText struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeText) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func sampleResult() Result {
	return Result{
		Transcript: "I love learning Englando",
		Scores:     Scores{Accuracy: 70, Fluency: 80, Intonation: 75, Overall: 75},
		Details: []FeedbackDetail{
			{Word: "Englando", Phonetic: "/ˈɪŋ.ɡlɪʃ/", Issue: "sai âm cuối", Suggestion: "đọc rõ /ɪʃ/"},
		},
		Summary:        "Cô nhận xét...",
		SubmissionLink: "https://drive.example/1",
	}
}

func TestRegenerate(t *testing.T) {
	gen := &fakeText{reply: "\n  Cô nhận xét bài nói của con nhé: ... 💜 \n"}
	r := NewRegenerator(gen, testLogger())

	text, err := r.Regenerate(context.Background(), RegenerateRequestFor(sampleResult(), "I love learning English"))
	require.NoError(t, err)

	assert.Equal(t, "Cô nhận xét bài nói của con nhé: ... 💜", text)
	assert.Contains(t, gen.prompt, "I love learning Englando")
	assert.Contains(t, gen.prompt, "I love learning English\"")
	assert.Contains(t, gen.prompt, "accuracy 70, fluency 80, intonation 75, overall 75")
	assert.Contains(t, gen.prompt, "Englando /ˈɪŋ.ɡlɪʃ/")
	assert.Contains(t, gen.prompt, "https://drive.example/1")
	assert.Contains(t, gen.prompt, SummaryClosing)
	assert.NotContains(t, gen.prompt, "hai lần đọc")
}

func TestRegenerate_TwoAttemptFraming(t *testing.T) {
	gen := &fakeText{reply: "ok"}
	res := sampleResult()
	res.SubmissionLink2 = "https://drive.example/2"

	_, err := NewRegenerator(gen, testLogger()).Regenerate(context.Background(), RegenerateRequestFor(res, ""))
	require.NoError(t, err)

	assert.Contains(t, gen.prompt, "hai lần đọc")
	assert.Contains(t, gen.prompt, "Lần 2: https://drive.example/2")
}

func TestRegenerate_NoDetails(t *testing.T) {
	gen := &fakeText{reply: "ok"}
	res := sampleResult()
	res.Details = nil

	_, err := NewRegenerator(gen, testLogger()).Regenerate(context.Background(), RegenerateRequestFor(res, ""))
	require.NoError(t, err)

	assert.Contains(t, gen.prompt, "không có")
}

func TestRegenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		gen      *fakeText
		wantKind string
	}{
		{name: "backend error is wrapped", gen: &fakeText{err: errors.New("503")}, wantKind: "transport"},
		{name: "typed error passes through", gen: &fakeText{err: &SchemaError{Op: "generate text", Reason: "empty response", Err: ErrMissingBody}}, wantKind: "schema"},
		{name: "blank reply", gen: &fakeText{reply: " \n "}, wantKind: "schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := NewRegenerator(tt.gen, testLogger()).Regenerate(context.Background(), RegenerateRequestFor(sampleResult(), ""))

			assert.Empty(t, text)
			require.ErrorIs(t, err, ErrAnalysisFailed)
			assert.Equal(t, tt.wantKind, ErrorKind(err))
		})
	}
}

func TestRegenerateRequestFor_CopiesDetails(t *testing.T) {
	res := sampleResult()
	req := RegenerateRequestFor(res, "x")

	req.Details[0].Word = "changed"

	assert.Equal(t, "Englando", res.Details[0].Word)
	assert.Equal(t, "https://drive.example/1", req.Link1)
	assert.Empty(t, req.Link2)
}

func TestResultClone(t *testing.T) {
	res := sampleResult()
	clone := res.Clone()
	clone.Details[0].Issue = "other"

	assert.Equal(t, "sai âm cuối", res.Details[0].Issue)
	assert.False(t, res.Flawless())
	assert.True(t, Result{}.Flawless())
	assert.NotNil(t, Result{}.Clone().Details)
}
