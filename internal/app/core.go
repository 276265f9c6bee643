// internal/app/core.go
package app

// Core bundles the dispatch services handed to the process wiring: the two
// scan runners go to the scheduler, Emergency is called synchronously by the
// inbound SOS request path.
type Core struct {
	Reminders *ReminderService
	Missed    *MissedService
	Emergency *EmergencyService
}
