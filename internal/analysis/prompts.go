package analysis

import (
	"fmt"
	"strings"

	"github.com/alkime/englishpro/internal/media"
)

// Positional labels placed before each inline recording.
const (
	AttemptLabel1 = "Lần 1"
	AttemptLabel2 = "Lần 2"
)

// SummaryTemplate is the shape the model is asked to give the summary: an
// opening line, a "Phát âm" section listing word errors with IPA, a "Ngữ điệu"
// section with one strength and one improvement, and a fixed closing line.
// It is a prompt convention only and is never parsed.
const SummaryTemplate = `Cô nhận xét bài nói của con nhé:

🔹 Phát âm:
- <từ> /<IPA>/: <lỗi> → <cách sửa>

🔹 Ngữ điệu:
- Điểm mạnh: <một điểm tốt>
- Cần cải thiện: <một điểm cần luyện>

` + SummaryClosing

// SummaryClosing is the encouragement line every summary ends with.
const SummaryClosing = "Con cố gắng luyện tập thêm nhé, cô tin con sẽ tiến bộ mỗi ngày! 💜"

const persona = "Bạn là một cô giáo chuyên gia ngôn ngữ và phát âm tiếng Anh, nhận xét ân cần cho học sinh Việt Nam."

func mediaNoun(in Input) string {
	switch {
	case in.Upload == nil:
		return "bài làm qua đường link"
	case in.Upload.Kind() == media.KindVideo:
		return "tệp video"
	default:
		return "tệp âm thanh"
	}
}

// buildAnalysisPrompt renders the single instruction block for Analyze.
func buildAnalysisPrompt(req Request) string {
	second, two := req.second()

	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\n")

	if two {
		fmt.Fprintf(&sb, "Học sinh nộp HAI lần đọc: \"%s\" (%s) và \"%s\" (%s).\n",
			AttemptLabel1, mediaNoun(req.Slot1), AttemptLabel2, mediaNoun(second))
		sb.WriteString("Hãy so sánh Lần 1 với Lần 2 (Attempt 1 vs Attempt 2). ")
		sb.WriteString("Chấm điểm dựa trên lần đọc tốt nhất và khen ngợi cụ thể những điểm Lần 2 đã tiến bộ so với Lần 1.\n")
	} else {
		fmt.Fprintf(&sb, "Hãy phân tích %s đính kèm của học sinh.\n", mediaNoun(req.Slot1))
	}

	if text := strings.TrimSpace(req.IntendedText); text != "" {
		fmt.Fprintf(&sb, "\nHọc sinh đang cố gắng nói câu này: \"%s\"\n", text)
	} else {
		sb.WriteString("\nHọc sinh không cung cấp câu đích cụ thể.\n")
	}

	if edited := strings.TrimSpace(req.EditedTranscript); edited != "" {
		fmt.Fprintf(&sb, "\nGiáo viên đã chỉnh sửa transcript thành: \"%s\". "+
			"Dùng transcript này thay vì tự nghe lại, và chấm điểm dựa trên nó.\n", edited)
	}

	links := linkLines(req.Slot1.Link, linkOf(req.Slot2))
	if links != "" {
		sb.WriteString("\nĐường link bài làm (chỉ dùng làm ngữ cảnh, không cần mở):\n")
		sb.WriteString(links)
	}

	sb.WriteString(`
Nhiệm vụ của bạn:
1. Trích xuất chính xác văn bản (transcript) từ lời nói của học sinh.
2. Nếu học sinh có cung cấp câu dự kiến:
   - So sánh lời nói thực tế với câu dự kiến, chỉ ra từ bị thiếu, nói sai hoặc lỗi cấu trúc.
   - Đề xuất câu hoàn chỉnh nhất trong 'suggestedText'.
   - Giải thích sự khác biệt trong 'comparisonFeedback'.
3. Chấm điểm số nguyên 0-100 cho accuracy, fluency, intonation, overall.
4. 'details': mỗi lỗi phát âm một mục gồm từ, phiên âm IPA, lỗi, cách sửa. Để trống nếu học sinh đọc hoàn hảo.
5. 'summary': viết TOÀN BỘ BẰNG TIẾNG VIỆT theo đúng mẫu sau:
`)
	sb.WriteString(SummaryTemplate)
	sb.WriteString("\n")

	return sb.String()
}

// buildRegeneratePrompt renders the plain-text rewrite instruction.
func buildRegeneratePrompt(req RegenerateRequest) string {
	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\nHãy viết lại phần nhận xét tổng quát cho bài nói dưới đây. ")
	sb.WriteString("Chỉ trả về đoạn nhận xét, không dùng JSON hay markdown code block.\n")

	if req.twoAttempts() {
		sb.WriteString("Học sinh đã nộp hai lần đọc (Lần 1 và Lần 2); hãy nhắc đến sự tiến bộ ở Lần 2.\n")
	}

	if text := strings.TrimSpace(req.IntendedText); text != "" {
		fmt.Fprintf(&sb, "\nCâu dự kiến: \"%s\"\n", text)
	}
	fmt.Fprintf(&sb, "Transcript: \"%s\"\n", req.Transcript)
	fmt.Fprintf(&sb, "Điểm: accuracy %d, fluency %d, intonation %d, overall %d\n",
		req.Scores.Accuracy, req.Scores.Fluency, req.Scores.Intonation, req.Scores.Overall)

	if len(req.Details) == 0 {
		sb.WriteString("Lỗi phát âm: không có, học sinh đọc rất chuẩn.\n")
	} else {
		sb.WriteString("Lỗi phát âm:\n")
		for _, d := range req.Details {
			fmt.Fprintf(&sb, "- %s %s: %s → %s\n", d.Word, d.Phonetic, d.Issue, d.Suggestion)
		}
	}

	if links := linkLines(req.Link1, req.Link2); links != "" {
		sb.WriteString("Đường link bài làm:\n")
		sb.WriteString(links)
	}

	sb.WriteString("\nViết TOÀN BỘ BẰNG TIẾNG VIỆT theo đúng mẫu sau, diễn đạt khác với lần trước:\n")
	sb.WriteString(SummaryTemplate)
	sb.WriteString("\n")

	return sb.String()
}

func linkOf(in *Input) string {
	if in == nil {
		return ""
	}
	return in.Link
}

func linkLines(link1, link2 string) string {
	var sb strings.Builder
	if l := strings.TrimSpace(link1); l != "" {
		fmt.Fprintf(&sb, "- %s: %s\n", AttemptLabel1, l)
	}
	if l := strings.TrimSpace(link2); l != "" {
		fmt.Fprintf(&sb, "- %s: %s\n", AttemptLabel2, l)
	}
	return sb.String()
}
