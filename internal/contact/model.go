package contact

import (
	"time"

	"github.com/google/uuid"
)

// Lead is an accepted contact request kept for the sales team.
type Lead struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Company     string      `json:"company"`
	LicenseType LicenseType `json:"license_type"`
	Message     string      `json:"message"`
	RemoteAddr  string      `json:"remote_addr"`
	UserAgent   string      `json:"user_agent"`
	ReceivedAt  time.Time   `json:"received_at"`
}

// RequestMeta carries request details recorded alongside a lead.
type RequestMeta struct {
	RemoteAddr string
	UserAgent  string
}

// LicenseLabel returns the display label for the lead's license type.
func (l Lead) LicenseLabel() string {
	for _, opt := range LicenseOptions() {
		if opt.Value == l.LicenseType {
			return opt.Label
		}
	}
	return string(l.LicenseType)
}
