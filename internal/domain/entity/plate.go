package entity

import (
	"fmt"
	"time"
)

const (
	// NotAvailable подставляется вместо номера, если распознать его не удалось.
	NotAvailable = "N/A"

	// TimestampLayout формат отметки времени dd-MM-yyyy HH:mm:ss.
	TimestampLayout = "02-01-2006 15:04:05"
)

// FormatTimestamp переводит время в формат отметки результата.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// PlateResult итог распознавания одного снимка.
type PlateResult struct {
	Text       string        // распознанный номер или NotAvailable
	Confidence float64       // средняя уверенность по символам, от 0 до 1
	Timestamp  string        // отметка времени в формате TimestampLayout
	Region     Rect          // область номера в координатах исходного снимка
	Found      bool          // номер найден и прочитан
	Reason     FailureReason // причина отказа последнего кандидата
	Candidates int           // сколько кандидатов было проверено
	Warnings   []string      // замечания к качеству снимка
}

// NewFailedResult создаёт результат без номера.
func NewFailedResult(timestamp string, reason FailureReason) *PlateResult {
	return &PlateResult{
		Text:      NotAvailable,
		Timestamp: timestamp,
		Reason:    reason,
	}
}

// String возвращает результат в виде "<номер|N/A>\n<время>".
func (r *PlateResult) String() string {
	text := r.Text
	if text == "" {
		text = NotAvailable
	}
	return fmt.Sprintf("%s\n%s", text, r.Timestamp)
}
