package summary

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Summarizer - единственная точка генерации саммари.
// Заглушку ниже заменит вызов внешней модели без изменений в HTTP слое.
//
//go:generate mockgen -source=internal/summary/summary.go -destination=internal/mocks/mock_summarizer.go -package=mocks
type Summarizer interface {
	Summarize(ctx context.Context, texts []string) (string, error)
}

const maxThemes = 3

// Themes - фиксированный каталог тем для заглушки
var Themes = []string{
	"User interface improvements",
	"Performance optimization",
	"Feature requests",
	"Bug reports",
	"Team collaboration",
	"System reliability",
	"User experience enhancements",
}

const summaryTemplate = "Based on %d feedback submissions, the main themes include %s. " +
	"The team has provided valuable insights about user experience and system performance. " +
	"Key areas for improvement have been identified, and the feedback shows a positive trend " +
	"in user satisfaction with recent updates."

// ThemeSummarizer - заглушка: выбирает от 1 до 3 случайных тем
// и подставляет их в шаблон вместе с числом отзывов
type ThemeSummarizer struct {
	Logger *zap.SugaredLogger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewThemeSummarizer(logger *zap.SugaredLogger) *ThemeSummarizer {
	return NewThemeSummarizerWithSource(logger, rand.NewSource(time.Now().UnixNano()))
}

func NewThemeSummarizerWithSource(logger *zap.SugaredLogger, src rand.Source) *ThemeSummarizer {
	return &ThemeSummarizer{
		Logger: logger,
		rnd:    rand.New(src),
	}
}

func (s *ThemeSummarizer) Summarize(_ context.Context, texts []string) (string, error) {
	themes := s.pickThemes()

	s.Logger.Infof("Generated placeholder summary for %d feedback entries", len(texts))

	return fmt.Sprintf(summaryTemplate, len(texts), strings.Join(themes, ", ")), nil
}

func (s *ThemeSummarizer) pickThemes() []string {
	// *rand.Rand не потокобезопасен
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.rnd.Intn(maxThemes) + 1
	perm := s.rnd.Perm(len(Themes))

	picked := make([]string, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, Themes[idx])
	}

	return picked
}
