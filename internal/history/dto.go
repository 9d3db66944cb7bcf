package history

import (
	"time"

	"github.com/angelmondragon/inventario-backend/pkg/db/models"
)

// Entry is a journal line before it is stored.
type Entry struct {
	Username string
	Action   string
	Location string
	At       time.Time
}

// EntryDTO is the read shape rendered on the history page.
type EntryDTO struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(m models.HistoryEntry) EntryDTO {
	return EntryDTO{
		ID:        m.ID,
		Username:  m.Username,
		Action:    m.Action,
		Location:  m.Location,
		CreatedAt: m.CreatedAt,
	}
}
