// internal/domain/obligation/shared_types.go
package obligation

// Kind distinguishes the two obligation flavours the scanners handle.
type Kind string

const (
	KindMedicine Kind = "MEDICINE"
	KindTask     Kind = "TASK"
)

// Status is the lifecycle state of an obligation occurrence.
// COMPLETED and MISSED are terminal: no reminder may fire for them.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusMissed    Status = "MISSED"
)
