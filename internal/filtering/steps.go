package filtering

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/idea-screener/internal/idea"
)

// predicateFilter drops every entry for which drop returns true.
type predicateFilter struct {
	name    string
	message string
	drop    func(deps Deps, entry *idea.Idea) bool

	disabled bool
	reason   string
}

func (f *predicateFilter) Name() string { return f.name }

func (f *predicateFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *predicateFilter) IsEnabled() bool { return !f.disabled }

func (f *predicateFilter) DisabledReason() string { return f.reason }

func (f *predicateFilter) Apply(deps Deps, corpus idea.Corpus) (idea.Corpus, Step) {
	initial := corpus.Len()
	kept, excluded := corpus.Filter(func(entry *idea.Idea) bool {
		return !f.drop(deps, entry)
	})

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info(f.message,
			zap.Strings("excluded_entries", excluded),
			zap.Int("entries_left", kept.Len()),
		)
	}

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}
}

// NewOwner creates a filter that removes entries submitted by Options.ExcludeOwnerID.
func NewOwner() Filter {
	return &predicateFilter{
		name:    "owner",
		message: "excluding entries of the same owner",
		drop: func(deps Deps, entry *idea.Idea) bool {
			owner := strings.TrimSpace(deps.Options.ExcludeOwnerID)
			return owner != "" && strings.TrimSpace(entry.OwnerID) == owner
		},
	}
}

// NewSelf creates a filter that removes the candidate itself from the corpus.
func NewSelf() Filter {
	return &predicateFilter{
		name:    "self",
		message: "excluding the candidate from its own corpus",
		drop: func(deps Deps, entry *idea.Idea) bool {
			if deps.Candidate == nil {
				return false
			}
			id := strings.TrimSpace(deps.Candidate.ID)
			return id != "" && strings.TrimSpace(entry.ID) == id
		},
	}
}

// NewInactive creates a filter that removes entries flagged inactive.
func NewInactive() Filter {
	return &predicateFilter{
		name:    "inactive",
		message: "excluding inactive entries",
		drop: func(_ Deps, entry *idea.Idea) bool {
			return entry.Inactive
		},
	}
}

// NewBlank creates a filter that removes entries with neither title nor description.
func NewBlank() Filter {
	return &predicateFilter{
		name:    "blank",
		message: "excluding entries without title and description",
		drop: func(_ Deps, entry *idea.Idea) bool {
			return strings.TrimSpace(entry.Title) == "" && strings.TrimSpace(entry.Description) == ""
		},
	}
}
