// Copyright (c) 2026 Editaliza. All rights reserved.

package sec

// # Account Kinds

// UserType discriminates the two account variants sharing the users table.
type UserType string

const (
	// Individual creators browsing and applying to editais
	UserTypeArtist UserType = "ARTIST"

	// Organizations allowed to publish editais
	UserTypeProposer UserType = "PROPOSER"
)

// Valid reports whether t is one of the known account kinds.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeArtist, UserTypeProposer:
		return true
	default:
		return false
	}
}

// CanPublish reports whether accounts of this kind may publish editais.
func (t UserType) CanPublish() bool {
	return t == UserTypeProposer
}
