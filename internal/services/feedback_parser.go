package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tbourn/go-training-planner/internal/domain"
	"github.com/tbourn/go-training-planner/internal/search"
)

// FeedbackParser turns free-text feedback into plan adjustments.
type FeedbackParser interface {
	Parse(comments, trainedUntil string) (domain.Adjustments, error)
}

// feedbackStopwords are dropped before exercise names are resolved.
var feedbackStopwords = []string{
	"the", "my", "a", "an", "some", "all", "those", "these", "this", "that",
	"is", "are", "was", "were", "felt", "feel", "feels", "seemed", "seems", "way", "bit", "little",
	"out", "please", "exercise", "exercises",
}

var (
	clauseSplitRE = regexp.MustCompile(`(?i)[.;!?\n]+|,|\s+(?:and|but|also|while)\s+`)
	loadRE        = regexp.MustCompile(`(?i)^(.+?)\s+too\s+(heavy|hard|easy|light)\b`)
	swapRE        = regexp.MustCompile(`(?i)\b(?:replace|swap)\s+(.+?)(?:\s+(?:with|for)\b.*)?$`)
	resumeRE      = regexp.MustCompile(`(?i)\b(?:resume|restart|start)\w*\b\D{0,30}?(\d{4}-\d{2}-\d{2})`)
)

// RuleParser is the rule-based FeedbackParser. Exercise phrases are resolved
// against the catalog index; unresolvable phrases are ignored.
type RuleParser struct {
	Index *search.CatalogIndex
	// Now is the clock used for the default start date.
	Now func() time.Time
}

// NewRuleParser builds a parser over the given catalog.
func NewRuleParser(catalog []domain.Exercise) *RuleParser {
	return &RuleParser{
		Index: search.NewCatalogIndex(catalog, search.WithStopwords(feedbackStopwords)),
		Now:   time.Now,
	}
}

// Parse implements FeedbackParser. The start date is an explicit date
// following resume/restart/start when present, otherwise the later of the
// day after trainedUntil and today.
func (p *RuleParser) Parse(comments, trainedUntil string) (domain.Adjustments, error) {
	tu, err := parseDate(strings.TrimSpace(trainedUntil))
	if err != nil {
		return domain.Adjustments{}, fmt.Errorf("trained_until: %w", err)
	}

	adj := domain.Adjustments{}
	if m := resumeRE.FindStringSubmatch(comments); m != nil {
		if _, err := parseDate(m[1]); err == nil {
			adj.StartDate = m[1]
		}
	}
	if adj.StartDate == "" {
		next := tu.AddDate(0, 0, 1)
		if today := p.today(); today.After(next) {
			next = today
		}
		adj.StartDate = next.Format(domain.DateLayout)
	}

	for _, clause := range clauseSplitRE.Split(comments, -1) {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		if m := swapRE.FindStringSubmatch(clause); m != nil {
			p.set(&adj, m[1], domain.DirectiveSubstitute)
			continue
		}
		if m := loadRE.FindStringSubmatch(clause); m != nil {
			d := domain.DirectiveIncreaseLoad
			switch strings.ToLower(m[2]) {
			case "heavy", "hard":
				d = domain.DirectiveDecreaseLoad
			}
			p.set(&adj, m[1], d)
		}
	}
	return adj, nil
}

func (p *RuleParser) set(adj *domain.Adjustments, phrase string, d domain.Directive) {
	if p.Index == nil {
		return
	}
	name, ok := p.Index.Resolve(phrase)
	if !ok {
		return
	}
	if adj.Exercises == nil {
		adj.Exercises = make(map[string]domain.Directive)
	}
	adj.Exercises[name] = d
}

func (p *RuleParser) today() time.Time {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	t := now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
