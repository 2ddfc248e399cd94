package analysis

import (
	"slices"
	"strings"

	"github.com/alkime/englishpro/internal/media"
)

// Scores are the four 0-100 ratings returned for every attempt.
type Scores struct {
	Accuracy   int `json:"accuracy"`
	Fluency    int `json:"fluency"`
	Intonation int `json:"intonation"`
	Overall    int `json:"overall"`
}

// FeedbackDetail is one word-level correction. Order is the model's emphasis
// order; the same word may appear more than once.
type FeedbackDetail struct {
	Word       string `json:"word"`
	Phonetic   string `json:"phonetic"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}

// Result is a validated analysis. Summary is the only field that changes
// after the fact, through review revisions.
type Result struct {
	Transcript         string           `json:"transcript"`
	SuggestedText      string           `json:"suggestedText,omitempty"`
	ComparisonFeedback string           `json:"comparisonFeedback,omitempty"`
	Scores             Scores           `json:"scores"`
	Details            []FeedbackDetail `json:"details"`
	Summary            string           `json:"summary"`
	SubmissionLink     string           `json:"submissionLink,omitempty"`
	SubmissionLink2    string           `json:"submissionLink2,omitempty"`
}

// Clone returns a copy that shares no mutable state with r.
func (r Result) Clone() Result {
	r.Details = slices.Clone(r.Details)
	if r.Details == nil {
		r.Details = []FeedbackDetail{}
	}
	return r
}

// Flawless reports whether the model found nothing to correct.
func (r Result) Flawless() bool {
	return len(r.Details) == 0
}

// WithLinks returns r with the submission links taken from the request that
// produced it, whatever the model echoed.
func (r Result) WithLinks(req Request) Result {
	r.SubmissionLink = strings.TrimSpace(req.Slot1.Link)
	r.SubmissionLink2 = ""
	if req.Slot2 != nil {
		r.SubmissionLink2 = strings.TrimSpace(req.Slot2.Link)
	}
	return r
}

// Input is one attempt: an uploaded file, an external link, or both.
type Input struct {
	Upload *media.Upload
	Link   string
}

// Usable reports whether the input carries a file or a non-blank link.
func (in Input) Usable() bool {
	return in.Upload != nil || strings.TrimSpace(in.Link) != ""
}

// Request is everything sent for one analysis.
type Request struct {
	Slot1            Input
	Slot2            *Input
	IntendedText     string
	EditedTranscript string
}

// second returns slot 2 when it is present and usable.
func (r Request) second() (Input, bool) {
	if r.Slot2 == nil || !r.Slot2.Usable() {
		return Input{}, false
	}
	return *r.Slot2, true
}

// RegenerateRequest carries what the feedback rewrite needs. No media is sent.
type RegenerateRequest struct {
	Transcript   string
	Scores       Scores
	Details      []FeedbackDetail
	IntendedText string
	Link1        string
	Link2        string
}

// RegenerateRequestFor builds a rewrite request from a result and the
// intended sentence it was analyzed against.
func RegenerateRequestFor(r Result, intendedText string) RegenerateRequest {
	return RegenerateRequest{
		Transcript:   r.Transcript,
		Scores:       r.Scores,
		Details:      slices.Clone(r.Details),
		IntendedText: intendedText,
		Link1:        r.SubmissionLink,
		Link2:        r.SubmissionLink2,
	}
}

// twoAttempts approximates whether the original submission had two attempts.
// Only links are recorded, so a second file without a link reads as one attempt.
func (r RegenerateRequest) twoAttempts() bool {
	return strings.TrimSpace(r.Link2) != ""
}
