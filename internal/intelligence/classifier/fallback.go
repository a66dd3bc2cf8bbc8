package classifier

import (
	"fmt"

	"github.com/turtacn/NicheSignal/internal/domain/post"
)

const maxCauseLen = 50

// FallbackVerdict builds the deterministic heuristic verdict applied when
// the model path fails: strong aspect evidence (seeking_alternative or
// tool_complaint) still counts as a weak opportunity.  The reasoning names
// the failure so the degraded path stays auditable.
func FallbackVerdict(aspects []post.AspectMatch, cause string) *post.Verdict {
	strong := post.HasKind(aspects, post.KindSeekingAlternative) ||
		post.HasKind(aspects, post.KindToolComplaint)

	classification := post.ClassNotOpportunity
	if strong {
		classification = post.ClassWeakOpportunity
	}

	cause = post.Truncate(cause, maxCauseLen)

	return &post.Verdict{
		IsOpportunity:  strong,
		Classification: classification,
		Confidence:     0.5,
		Reasoning:      fmt.Sprintf("model unavailable (fallback): %s", cause),
		PainType:       post.PainTypeUnknown,
		Fallback:       true,
	}
}
