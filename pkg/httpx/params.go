package httpx

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ParseUUIDList — читает список UUID из query-параметра key.
// Поддерживаются повторы (?k=a&k=b) и перечисление через запятую (?k=a,b).
// present=false, если параметр не передан вовсе; пустое значение (?k=) — present с пустым списком.
func ParseUUIDList(c *gin.Context, key string) (ids []uuid.UUID, present bool, err error) {
	raw, present := c.GetQueryArray(key)
	if !present {
		return nil, false, nil
	}

	ids = make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, parseErr := uuid.Parse(part)
			if parseErr != nil {
				return nil, true, fmt.Errorf("%s: invalid uuid %q", key, part)
			}
			ids = append(ids, id)
		}
	}
	return ids, true, nil
}
