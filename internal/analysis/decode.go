package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Pointer fields let decodeResult tell a missing key from a zero value.
type wireScores struct {
	Accuracy   *float64 `json:"accuracy"`
	Fluency    *float64 `json:"fluency"`
	Intonation *float64 `json:"intonation"`
	Overall    *float64 `json:"overall"`
}

type wireDetail struct {
	Word       *string `json:"word"`
	Phonetic   *string `json:"phonetic"`
	Issue      *string `json:"issue"`
	Suggestion *string `json:"suggestion"`
}

type wireResult struct {
	Transcript         *string       `json:"transcript"`
	SuggestedText      string        `json:"suggestedText"`
	ComparisonFeedback string        `json:"comparisonFeedback"`
	Scores             *wireScores   `json:"scores"`
	Details            *[]wireDetail `json:"details"`
	Summary            *string       `json:"summary"`
}

// decodeResult parses and validates a structured-output body. Any deviation
// from the schema is an error; nothing partial is returned.
func decodeResult(body string) (*Result, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrMissingBody
	}

	var w wireResult
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var problems []error
	missing := func(field string) {
		problems = append(problems, fmt.Errorf("missing required field %q", field))
	}

	if w.Transcript == nil {
		missing("transcript")
	}
	if w.Summary == nil {
		missing("summary")
	}
	if w.Details == nil {
		missing("details")
	}

	var scores Scores
	if w.Scores == nil {
		missing("scores")
	} else {
		for _, s := range []struct {
			name string
			val  *float64
			dst  *int
		}{
			{"scores.accuracy", w.Scores.Accuracy, &scores.Accuracy},
			{"scores.fluency", w.Scores.Fluency, &scores.Fluency},
			{"scores.intonation", w.Scores.Intonation, &scores.Intonation},
			{"scores.overall", w.Scores.Overall, &scores.Overall},
		} {
			if s.val == nil {
				missing(s.name)
				continue
			}
			v, err := scoreValue(*s.val)
			if err != nil {
				problems = append(problems, fmt.Errorf("%s: %w", s.name, err))
				continue
			}
			*s.dst = v
		}
	}

	details := []FeedbackDetail{}
	if w.Details != nil {
		for i, d := range *w.Details {
			if d.Word == nil || d.Phonetic == nil || d.Issue == nil || d.Suggestion == nil {
				problems = append(problems, fmt.Errorf("details[%d]: missing required field", i))
				continue
			}
			details = append(details, FeedbackDetail{
				Word:       *d.Word,
				Phonetic:   *d.Phonetic,
				Issue:      *d.Issue,
				Suggestion: *d.Suggestion,
			})
		}
	}

	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}

	return &Result{
		Transcript:         *w.Transcript,
		SuggestedText:      w.SuggestedText,
		ComparisonFeedback: w.ComparisonFeedback,
		Scores:             scores,
		Details:            details,
		Summary:            *w.Summary,
	}, nil
}

func scoreValue(v float64) (int, error) {
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%v is not an integer", v)
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("%v is outside [0,100]", v)
	}
	return int(v), nil
}
