package service

import (
	"context"
	"fmt"

	"github.com/viant/easymix/question"
	"go.uber.org/zap"
)

// QuestionReport describes one source question.
type QuestionReport struct {
	Number      int
	Type        question.Type
	Level       question.Level
	Points      string
	Answers     int // options, items or answer values found
	Diagnostics []question.Diagnostic
}

// Report is the validation report of a source document.
type Report struct {
	Source      string
	Questions   []*QuestionReport
	Counts      map[question.Type]int
	Diagnostics []question.Diagnostic // document level findings
}

// Valid reports whether no finding was made.
func (r *Report) Valid() bool {
	if len(r.Diagnostics) > 0 {
		return false
	}
	for _, q := range r.Questions {
		if len(q.Diagnostics) > 0 {
			return false
		}
	}
	return true
}

// Inspect parses the configured source and reports every question with its
// findings, without producing any version.
func (s *Service) Inspect(ctx context.Context) (*Report, error) {
	doc, err := s.store.Open(ctx, s.config.Source)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	source, err := question.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("parse source %s: %w", s.config.Source, err)
	}
	report := &Report{Source: s.config.Source, Counts: map[question.Type]int{}, Diagnostics: source.Diagnostics}
	for _, q := range source.Questions {
		report.Counts[q.Type]++
		report.Questions = append(report.Questions, &QuestionReport{
			Number:      q.Number,
			Type:        q.Type,
			Level:       q.Level,
			Points:      question.Points(q.Block.Text()),
			Answers:     answers(q),
			Diagnostics: q.Diagnostics,
		})
	}
	s.logger.Info("inspected",
		zap.String("source", s.config.Source),
		zap.Int("questions", len(report.Questions)),
		zap.Bool("valid", report.Valid()))
	return report, nil
}

func answers(q *question.Question) int {
	switch q.Type {
	case question.MultipleChoice:
		_, groups := question.Groups(q.Block.Nodes, question.ChoicePattern)
		return len(groups)
	case question.TrueFalse:
		_, groups := question.Groups(q.Block.Nodes, question.ItemPattern)
		return len(groups)
	case question.ShortAnswer, question.Essay:
		count := 0
		for _, node := range q.Block.Nodes {
			if question.Matches(node, question.ChoicePattern) {
				count++
			}
		}
		return count
	}
	return 0
}
