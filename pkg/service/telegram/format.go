package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aiakos/pkg/domain/model"
	"github.com/secmon-lab/aiakos/pkg/domain/types"
)

// SegmentLimit is the maximum length of one message segment in runes. Kept
// under Telegram's 4096-character cap to leave room for transport overhead.
const SegmentLimit = 4000

const divider = "━━━━━━━━━━━━━━━━━━━━━━"

// markdownEscaper escapes MarkdownV2 reserved punctuation with a single
// backslash each. It runs in one pass, so already-escaped input is not
// escaped twice within a single call.
var markdownEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMarkdown escapes a user-supplied string for MarkdownV2. It is applied
// per field before composition, never to composed lines carrying intentional
// markup.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// codeSpanEscaper handles the two characters MarkdownV2 still reserves inside
// `pre` and `code` entities.
var codeSpanEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"`", "\\`",
)

// EscapeCodeSpan escapes a string placed inside a MarkdownV2 code span
func EscapeCodeSpan(s string) string {
	return codeSpanEscaper.Replace(s)
}

func statusGlyph(status types.ReviewStatus) string {
	switch status {
	case types.ReviewStatusPassed:
		return "✅"
	case types.ReviewStatusWarnings:
		return "⚠️"
	case types.ReviewStatusFailed:
		return "❌"
	default:
		return "📝"
	}
}

func severityHeading(severity types.Severity, count int) string {
	switch severity {
	case types.SeverityError:
		return fmt.Sprintf("🔴 *ERRORS \\(%d\\):*", count)
	case types.SeverityWarning:
		return fmt.Sprintf("🟡 *WARNINGS \\(%d\\):*", count)
	default:
		return fmt.Sprintf("🔵 *INFO \\(%d\\):*", count)
	}
}

// FormatReview renders a review into ordered message segments, each at most
// SegmentLimit runes. Splitting accumulates whole lines; a segment is never
// split mid-line and concatenating all segments reproduces the full text.
func FormatReview(review *model.Review) []string {
	return splitMessage(renderReview(review), SegmentLimit)
}

func renderReview(review *model.Review) string {
	lines := []string{
		fmt.Sprintf("%s *Merge Request Review Complete*", statusGlyph(review.Status)),
		"",
		divider,
		"",
		fmt.Sprintf("📋 *Title:* %s", EscapeMarkdown(review.MRTitle)),
		fmt.Sprintf("👤 *Author:* %s", EscapeMarkdown(review.Author)),
		fmt.Sprintf("📊 *Status:* %s", EscapeMarkdown(strings.ToUpper(review.Status.String()))),
		fmt.Sprintf("⏱ *Review Time:* %s", EscapeMarkdown(review.ReviewTime)),
		"",
		"📈 *Changes:*",
		fmt.Sprintf("  • Files Changed: %d", review.FilesChanged),
		fmt.Sprintf("  • Lines Added: \\+%d", review.LinesAdded),
		fmt.Sprintf("  • Lines Removed: \\-%d", review.LinesRemoved),
		"",
		"📝 *Summary:*",
		EscapeMarkdown(review.Summary),
		"",
	}

	if len(review.Issues) > 0 {
		lines = append(lines,
			fmt.Sprintf("🔍 *Issues Found:* %d", len(review.Issues)),
			divider,
			"",
		)

		// Severity groups keep the record's issue order within each group
		for _, severity := range types.AllSeverities() {
			var group []model.Issue
			for _, issue := range review.Issues {
				if issue.Severity == severity {
					group = append(group, issue)
				}
			}
			if len(group) == 0 {
				continue
			}

			lines = append(lines, severityHeading(severity, len(group)))
			for idx, issue := range group {
				lines = append(lines,
					fmt.Sprintf("%d\\. `%s:%d`", idx+1, EscapeCodeSpan(issue.File), issue.Line),
					fmt.Sprintf("   Rule: %s", EscapeMarkdown(issue.Rule)),
					fmt.Sprintf("   %s", EscapeMarkdown(issue.Message)),
				)
				if issue.Suggestion != "" {
					lines = append(lines, fmt.Sprintf("   💡 %s", EscapeMarkdown(issue.Suggestion)))
				}
				lines = append(lines, "")
			}
		}
	} else {
		lines = append(lines, "✨ *No Issues Found\\!*", "")
	}

	lines = append(lines,
		divider,
		"🔗 *Merge Request:*",
		EscapeMarkdown(review.MRURL),
	)

	return strings.Join(lines, "\n")
}

// splitMessage packs whole lines into segments of at most limit runes.
// Concatenating the segments in order reproduces text exactly.
func splitMessage(text string, limit int) []string {
	lines := strings.Split(text, "\n")

	var segments []string
	var current strings.Builder
	currentLen := 0

	for i, line := range lines {
		piece := line
		if i < len(lines)-1 {
			piece += "\n"
		}

		pieceLen := utf8.RuneCountInString(piece)
		if currentLen > 0 && currentLen+pieceLen > limit {
			segments = append(segments, current.String())
			current.Reset()
			currentLen = 0
		}

		current.WriteString(piece)
		currentLen += pieceLen
	}

	if current.Len() > 0 || len(segments) == 0 {
		segments = append(segments, current.String())
	}

	return segments
}

// ReviewKeyboard builds the two-button control layout for a review. The
// callback data round-trips verbatim through Telegram back to the webhook.
func ReviewKeyboard(reviewID types.ReviewID, mrURL string) (*tgbotapi.InlineKeyboardMarkup, error) {
	approve, err := (&model.CallbackData{
		Action:   types.ReviewActionApprove,
		ReviewID: reviewID,
		MRURL:    mrURL,
	}).Encode()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode approve callback data")
	}

	decline, err := (&model.CallbackData{
		Action:   types.ReviewActionDecline,
		ReviewID: reviewID,
		MRURL:    mrURL,
	}).Encode()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode decline callback data")
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve & Merge", approve),
			tgbotapi.NewInlineKeyboardButtonData("❌ Decline", decline),
		),
	)

	return &markup, nil
}
