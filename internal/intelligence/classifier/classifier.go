package classifier

import (
	"context"

	"github.com/turtacn/NicheSignal/internal/domain/post"
	"github.com/turtacn/NicheSignal/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/NicheSignal/pkg/errors"
)

// CompletionModel is the external text-completion collaborator.  One call
// per Classify; retry policy belongs to the caller, not here.
type CompletionModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classifier produces an opportunity verdict for a scored post.
type Classifier interface {
	// Classify calls the model exactly once and parses its response.  Any
	// failure (transport, non-JSON body, unknown label) is returned as an
	// error; the caller applies FallbackVerdict to keep classification
	// total.
	Classify(ctx context.Context, p post.Post, aspects []post.AspectMatch) (*post.Verdict, error)
}

type classifierImpl struct {
	model    CompletionModel
	industry string
	logger   logging.Logger
}

// NewClassifier constructs a classifier for the given industry.
func NewClassifier(model CompletionModel, industry string, logger logging.Logger) (Classifier, error) {
	if model == nil {
		return nil, errors.New(errors.ErrCodeModelUnavailable, "completion model is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &classifierImpl{model: model, industry: industry, logger: logger}, nil
}

func (c *classifierImpl) Classify(ctx context.Context, p post.Post, aspects []post.AspectMatch) (*post.Verdict, error) {
	prompt := BuildPrompt(p, aspects, c.industry)

	response, err := c.model.Complete(ctx, prompt)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeModelUnavailable, "model completion failed")
	}

	verdict, err := ParseVerdict(response)
	if err != nil {
		c.logger.Warn("model response unparseable",
			logging.String("post_id", p.ID),
			logging.Err(err))
		return nil, err
	}
	return verdict, nil
}
