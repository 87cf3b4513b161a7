package domain

import "fmt"

// AffectedBooking is one row returned by the impact query. The shape is
// loosely typed on purpose: depending on how the booking was created, the
// stable client id or any of the contact fields may be missing.
type AffectedBooking struct {
	BookingID   int64  `json:"booking_id"`
	ClientID    *int64 `json:"client_id,omitempty"`
	ClientEmail string `json:"client_email,omitempty"`
	ClientName  string `json:"client_name,omitempty"`
	ClientPhone string `json:"client_phone,omitempty"`
}

// IdentityKey returns a stable comparable key for deduplicating affected
// parties: client id, then email, name, phone. When no identifying field is
// present it falls back to a per-row key, so such rows count individually.
func (b AffectedBooking) IdentityKey() string {
	switch {
	case b.ClientID != nil:
		return fmt.Sprintf("client:%d", *b.ClientID)
	case b.ClientEmail != "":
		return "email:" + b.ClientEmail
	case b.ClientName != "":
		return "name:" + b.ClientName
	case b.ClientPhone != "":
		return "phone:" + b.ClientPhone
	default:
		return fmt.Sprintf("booking:%d", b.BookingID)
	}
}

// ImpactResult is the count of distinct booked parties whose reservation
// falls inside a changed range. Transient; it exists only to gate the commit
// decision.
type ImpactResult struct {
	AffectedCount int `json:"affected_count"`
}
