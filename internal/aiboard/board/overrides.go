// Оптимистичные перемещения карточек по доске (drag-and-drop).
//
// Пока запись в базу не подтверждена, целевые статус и неделя тикета
// хранятся в памяти как override и накладываются на данные при чтении.
// Успешная запись снимает override, неуспешная откатывает его с записью
// в лог. Побеждает последняя запись, повторных попыток нет.
package board

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/dao"
	"github.com/aisa-it/aiboard/aiboard.go/internal/aiboard/types"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Override - оптимистичное состояние тикета до подтверждения базой.
type Override struct {
	Status types.TicketStatus
	Week   int
}

type OverrideStore struct {
	mu        sync.RWMutex
	overrides map[uuid.UUID]Override
}

func NewOverrideStore() *OverrideStore {
	return &OverrideStore{
		overrides: make(map[uuid.UUID]Override),
	}
}

func (s *OverrideStore) Stash(id uuid.UUID, o Override) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[id] = o
}

func (s *OverrideStore) Clear(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, id)
}

func (s *OverrideStore) Get(id uuid.UUID) (Override, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.overrides[id]
	return o, ok
}

// Merge накладывает незавершенные перемещения на выборку тикетов.
func (s *OverrideStore) Merge(tickets []dao.Ticket) []dao.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range tickets {
		if o, ok := s.overrides[tickets[i].Id]; ok {
			tickets[i].ApplyStatus(o.Status)
			tickets[i].SprintWeek = o.Week
		}
	}
	return tickets
}

// Drop обрабатывает бросок карточки в колонку (status) и строку (week).
// Если позиция не изменилась - ничего не делает. Иначе сохраняет override,
// пишет изменение в базу одним обновлением и по результату снимает или
// откатывает override.
func (s *OverrideStore) Drop(db *gorm.DB, ticket *dao.Ticket, status types.TicketStatus, week int) error {
	if ticket.Status == status && ticket.SprintWeek == week {
		return nil
	}

	s.Stash(ticket.Id, Override{Status: status, Week: week})

	ticket.ApplyStatus(status)
	ticket.SprintWeek = week
	if err := db.Model(ticket).
		Select("status", "sprint_week", "completed_at", "updated_at").
		Updates(map[string]interface{}{
			"status":       ticket.Status,
			"sprint_week":  ticket.SprintWeek,
			"completed_at": ticket.CompletedAt,
			"updated_at":   time.Now(),
		}).Error; err != nil {
		s.Clear(ticket.Id)
		slog.Error("Board drop rollback", "ticket", ticket.Id, "status", status, "week", week, "err", err)
		return err
	}

	s.Clear(ticket.Id)
	return nil
}
