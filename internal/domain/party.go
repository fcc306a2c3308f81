package domain

import "time"

// PartyKind tags which directory a recipient id resolves against.
type PartyKind string

const (
	PartyKindRenter PartyKind = "RENTER"
	PartyKindOwner  PartyKind = "OWNER"
)

// Recipient identifies either a renter or an owner. Dispatch on Kind instead
// of a polymorphic foreign key.
type Recipient struct {
	Kind PartyKind `json:"kind"`
	ID   int32     `json:"id"`
}

// Party is the read-only shape served by the external party directory.
type Party struct {
	ID        int32     `json:"id"`
	Kind      PartyKind `json:"kind"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Blocked   bool      `json:"blocked"`
	CreatedOn time.Time `json:"created_on"`
}
