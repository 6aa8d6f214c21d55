package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/orders_api/internal/ports"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// ValidateFile — валидирует файл как JSON (один пакет) или JSONL (пакет на строку)
// и пишет валидный вывод в writer.
func ValidateFile(ctx context.Context, validator ports.OrderValidator, filePath string, format InputFormat, ow io.Writer) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ValidateReader(ctx, validator, file, resolveFormat(filePath, format), ow)
}

// ValidateReader — то же для произвольного reader’а; формат auto трактуется как JSONL.
func ValidateReader(ctx context.Context, validator ports.OrderValidator, ir io.Reader, format InputFormat, ow io.Writer) (string, error) {
	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(ir)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		orders, err := ValidateOrdersFromJSON(ctx, validator, raw)
		if err != nil {
			return "0 valid / 1 invalid", err
		}
		canonical, _ := json.Marshal(orders)
		if _, err := ow.Write(append(canonical, '\n')); err != nil {
			return "", fmt.Errorf("write json: %w", err)
		}
		return fmt.Sprintf("1 valid / 0 invalid (%d orders)", len(orders)), nil

	case FormatJSONL, FormatAuto:
		result, err := ValidateJSONLStream(ctx, validator, ir, ow)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d valid / %d invalid (%d orders)",
			result.ValidLinesCount, result.InvalidLinesCount, result.OrdersCount), nil

	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// resolveFormat — auto по расширению файла (по умолчанию JSON).
func resolveFormat(filePath string, format InputFormat) InputFormat {
	if format != FormatAuto {
		return format
	}
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".jsonl":
		return FormatJSONL
	default:
		return FormatJSON
	}
}
