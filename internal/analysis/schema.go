package analysis

import "google.golang.org/genai"

// ResponseSchema is the structured-output contract for analysis calls.
func ResponseSchema() *genai.Schema {
	score := func() *genai.Schema {
		return &genai.Schema{
			Type:    genai.TypeInteger,
			Minimum: genai.Ptr(0.0),
			Maximum: genai.Ptr(100.0),
		}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"transcript": {Type: genai.TypeString},
			"suggestedText": {
				Type:        genai.TypeString,
				Description: "Phiên bản sửa lỗi ngữ pháp và từ vựng hoàn hảo nhất dựa trên ý định học sinh.",
			},
			"comparisonFeedback": {
				Type:        genai.TypeString,
				Description: "Giải thích sự khác biệt giữa câu dự kiến và câu thực tế nói ra bằng tiếng Việt.",
			},
			"scores": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"accuracy":   score(),
					"fluency":    score(),
					"intonation": score(),
					"overall":    score(),
				},
				Required:         []string{"accuracy", "fluency", "intonation", "overall"},
				PropertyOrdering: []string{"accuracy", "fluency", "intonation", "overall"},
			},
			"details": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"word":       {Type: genai.TypeString},
						"phonetic":   {Type: genai.TypeString, Description: "IPA"},
						"issue":      {Type: genai.TypeString},
						"suggestion": {Type: genai.TypeString},
					},
					Required:         []string{"word", "phonetic", "issue", "suggestion"},
					PropertyOrdering: []string{"word", "phonetic", "issue", "suggestion"},
				},
			},
			"summary": {Type: genai.TypeString},
		},
		Required: []string{"transcript", "scores", "details", "summary"},
		PropertyOrdering: []string{
			"transcript", "suggestedText", "comparisonFeedback", "scores", "details", "summary",
		},
	}
}
