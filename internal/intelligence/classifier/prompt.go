// Package classifier turns a post and its extracted pain aspects into an
// opportunity verdict via a single external model call, with a lenient JSON
// parser and a deterministic heuristic fallback for when the model is
// unavailable.
package classifier

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/turtacn/NicheSignal/internal/domain/post"
)

const (
	maxBodyLen           = 1000
	maxPromptSentenceLen = 100

	// noSignalsSentinel is emitted in place of the aspect list when the
	// extractor found nothing.
	noSignalsSentinel = "No clear pain signals detected."
)

var titleCaser = cases.Title(language.English)

// BuildPrompt serializes the post, its aspects, and the industry context
// into the classification prompt.  The model is instructed to answer with a
// single JSON object.
func BuildPrompt(p post.Post, aspects []post.AspectMatch, industry string) string {
	title := p.Title
	if title == "" {
		title = "No Title"
	}
	body := post.Truncate(p.Body, maxBodyLen)

	var b strings.Builder
	fmt.Fprintf(&b, "You are analyzing a Reddit post from the %s industry to identify Micro-SaaS software opportunities.\n\n", industry)
	fmt.Fprintf(&b, "TITLE: %s\n", title)
	fmt.Fprintf(&b, "BODY: %s\n\n", body)
	b.WriteString("DETECTED PAIN SIGNALS:\n")
	b.WriteString(formatAspects(aspects))
	b.WriteString("\n\n")
	b.WriteString(`CLASSIFICATION TASK:
Based on the detected signals above, classify this post:

1. STRONG_OPPORTUNITY: Professional clearly needs software (tool complaint + seeking alternative, OR explicit "is there an app" question)
2. WEAK_OPPORTUNITY: Possible need, but unclear context (mentions manual process but no frustration expressed)
3. NOT_OPPORTUNITY: Off-topic (consumer, student, career advice, hobby discussion, literal physical pain)

REJECT if:
- No pain signals detected
- About salary/career/burnout
- Student/homework help
- Consumer price complaints (not B2B)

ACCEPT if:
- Professionals discussing workflow problems
- Explicit questions about tools/software
- Frustration with existing software + industry relevance

Respond ONLY with valid JSON:
{"classification": "STRONG_OPPORTUNITY|WEAK_OPPORTUNITY|NOT_OPPORTUNITY", "confidence": 0.0-1.0, "reasoning": "1 sentence", "pain_type": "tool|process|cost|ux|none"}`)

	return b.String()
}

func formatAspects(aspects []post.AspectMatch) string {
	if len(aspects) == 0 {
		return noSignalsSentinel
	}

	lines := make([]string, 0, len(aspects))
	for _, a := range aspects {
		sentence := post.Truncate(a.Sentence, maxPromptSentenceLen)
		lines = append(lines, fmt.Sprintf("- [%s]: %q... (sentiment: %.2f)",
			titleCaser.String(a.Kind.Humanize()), sentence, a.Sentiment))
	}
	return strings.Join(lines, "\n")
}
