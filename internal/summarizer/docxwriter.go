package summarizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Malgun Gothic"
	fontSize = 12
)

// transcriptHeading introduces the transcript appendix of an export.
const transcriptHeading = "스크립트 원문"

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reLineBrk  = regexp.MustCompile(`<br\s*/?>`)
	reSentence = regexp.MustCompile(`([.!?])\s+`)
)

// ExportDocx writes the summary, followed by the transcript when it is not
// empty, to a .docx file at outputPath.
func ExportDocx(title, summary, transcript, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)

	summary = reLineBrk.ReplaceAllString(summary, "\n")
	for _, line := range strings.Split(summary, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}

		addRichText(doc.AddParagraph(""), trimmed)
	}

	if transcript = strings.TrimSpace(transcript); transcript != "" {
		doc.AddParagraph("")
		addStyledRun(doc.AddParagraph(""), transcriptHeading, true, 14)
		for _, paragraph := range transcriptParagraphs(transcript, 5) {
			doc.AddParagraph("").AddText(paragraph).Font(fontName).Size(fontSize).Color("000000")
		}
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save %s: %w", outputPath, err)
	}
	return nil
}

// transcriptParagraphs groups the run-on transcript into paragraphs of at
// most perParagraph sentences.
func transcriptParagraphs(transcript string, perParagraph int) []string {
	marked := reSentence.ReplaceAllString(transcript, "$1\n")
	sentences := strings.Split(marked, "\n")

	var paragraphs []string
	for start := 0; start < len(sentences); start += perParagraph {
		end := min(start+perParagraph, len(sentences))
		paragraphs = append(paragraphs, strings.Join(sentences[start:end], " "))
	}
	return paragraphs
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
