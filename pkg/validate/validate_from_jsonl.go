package validate

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/orders_api/internal/ports"
)

// maxJSONLLine — предел длины строки JSONL, как и лимит тела POST /api/orders.
const maxJSONLLine = 10 << 20

// maxReportedFailures — сколько невалидных строк сохраняется с причиной.
const maxReportedFailures = 20

// LineFailure — невалидная строка JSONL (нумерация с 1).
type LineFailure struct {
	Line int
	Err  error
}

// JSONLResult — статистика валидации потока JSONL.
type JSONLResult struct {
	ValidLinesCount   int
	InvalidLinesCount int
	OrdersCount       int           // заказов в валидных строках
	Failures          []LineFailure // первые maxReportedFailures невалидных строк
}

// ValidateJSONLStream — каждая непустая строка — пакет заказов (массив или одиночный объект).
// Валидные пакеты пишутся в writer каноническим JSON-массивом, по строке на пакет;
// невалидные только считаются. Ошибка возвращается лишь при сбое чтения/записи или отмене ctx.
func ValidateJSONLStream(ctx context.Context, validator ports.OrderValidator, ir io.Reader, ow io.Writer) (JSONLResult, error) {
	var res JSONLResult

	scanner := bufio.NewScanner(ir)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)
	enc := json.NewEncoder(ow)

	for line := 1; scanner.Scan(); line++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		raw := scanner.Bytes()
		if strings.TrimSpace(string(raw)) == "" {
			continue
		}

		orders, err := ValidateOrdersFromJSON(ctx, validator, raw)
		if err != nil {
			res.InvalidLinesCount++
			if len(res.Failures) < maxReportedFailures {
				res.Failures = append(res.Failures, LineFailure{Line: line, Err: err})
			}
			continue
		}

		// Encode добавляет перевод строки сам
		if err := enc.Encode(orders); err != nil {
			return res, fmt.Errorf("write line %d: %w", line, err)
		}
		res.ValidLinesCount++
		res.OrdersCount += len(orders)
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}
