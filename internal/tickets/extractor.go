package tickets

import (
	"regexp"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/relgate/internal/models"
)

// Extractor pulls Jira issue keys out of commit message text using a
// compiled regex pattern.
type Extractor struct {
	logger     arbor.ILogger
	keyPattern *regexp.Regexp
}

// NewExtractor creates a new ticket extractor. Keys have the shape
// PROJECT-123: an uppercase prefix of at least two letters, a hyphen,
// and digits, bounded by word boundaries.
func NewExtractor(logger arbor.ILogger) *Extractor {
	return &Extractor{
		logger:     logger,
		keyPattern: regexp.MustCompile(`\b[A-Z]{2,}-\d+\b`),
	}
}

// ExtractKeys returns the union of all issue keys found across the
// given commit messages. Duplicates collapse; empty messages contribute
// nothing.
func (e *Extractor) ExtractKeys(messages []string) models.KeySet {
	keys := models.NewKeySet()
	for _, msg := range messages {
		if msg == "" {
			continue
		}
		for _, key := range e.keyPattern.FindAllString(msg, -1) {
			keys.Add(key)
		}
	}
	return keys
}
