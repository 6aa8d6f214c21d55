package domain

import "github.com/google/uuid"

// IDFilter — необязательный фильтр по идентификаторам.
// «Фильтр не задан» и «задан пустой фильтр» — разные состояния:
// первый означает все заказы, второй — пустой результат.
type IDFilter struct {
	ids     []uuid.UUID
	present bool
}

// AllOrders — фильтр отсутствует.
func AllOrders() IDFilter { return IDFilter{} }

// OnlyIDs — фильтр задан (в том числе пустой). Повторы схлопываются.
func OnlyIDs(ids ...uuid.UUID) IDFilter {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	uniq := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	return IDFilter{ids: uniq, present: true}
}

// IDs — идентификаторы фильтра и признак его наличия.
func (f IDFilter) IDs() ([]uuid.UUID, bool) {
	if !f.present {
		return nil, false
	}
	return append([]uuid.UUID(nil), f.ids...), true
}

// IsPresent — задан ли фильтр.
func (f IDFilter) IsPresent() bool { return f.present }

// IsEmpty — фильтр задан, но не содержит ни одного ID.
func (f IDFilter) IsEmpty() bool { return f.present && len(f.ids) == 0 }
