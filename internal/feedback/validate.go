package feedback

import (
	"strings"

	myErr "feedback-tool/internal/types/errors"
)

// MaxWords - предельное число слов в одном отзыве
const MaxWords = 500

// CountWords - число слов, разделенных пробельными символами
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Validate - проверяет текст отзыва в порядке: пустое значение,
// пустой после обрезки пробелов, превышение MaxWords.
// Возвращает обрезанный текст, который и нужно сохранять.
func Validate(text string) (string, error) {
	if text == "" {
		return "", myErr.ErrTextRequired
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", myErr.ErrTextEmpty
	}

	if CountWords(trimmed) > MaxWords {
		return "", myErr.ErrTextTooLong
	}

	return trimmed, nil
}
