package contracts

import (
	"github.com/google/uuid"

	"linkup/internal/core/domain"
)

// RoomStore holds one room's participant list and message history, scoped to
// the process lifetime. Implementations must be safe for concurrent use; all
// operations are synchronous critical sections with no I/O inside them.
type RoomStore interface {
	// AddParticipant adds or refreshes a participant keyed by user id.
	AddParticipant(p domain.RoomParticipant)
	// RemoveParticipant removes the participant and returns how many remain.
	// When the count reaches zero the history is cleared in the same critical
	// section and the attachment paths it referenced are returned so the
	// caller can delete the underlying blobs.
	RemoveParticipant(userID uuid.UUID) (remaining int, orphaned []string)
	// AppendMessage appends to the history and returns the stored entry.
	AppendMessage(m domain.RoomMessage) domain.RoomMessage
	// Snapshot returns copies of the current roster and history.
	Snapshot() ([]domain.RoomParticipant, []domain.RoomMessage)
}
