package family

import (
	"time"

	id "samadhan/pkg/domain"
)

// Family groups members. The three name/aadhar/phone arrays are denormalized
// projections of MemberIDs and must stay equal-length and same-order with it.
type Family struct {
	ID         id.FamilyID
	FamilyName string
	ProgramID  id.ProgramID

	MemberIDs          []id.MemberID
	MemberNames        []string
	MemberAadharList   []string
	MemberPhoneNumbers []string

	CreatedBy id.AgentID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Aligned reports whether the denormalized arrays agree with MemberIDs in
// length. Order agreement cannot be checked without the member records.
func (f Family) Aligned() bool {
	n := len(f.MemberIDs)
	return len(f.MemberNames) == n &&
		len(f.MemberAadharList) == n &&
		len(f.MemberPhoneNumbers) == n
}

// Contains reports whether memberID is in the family's member list.
func (f Family) Contains(memberID id.MemberID) bool {
	for _, existing := range f.MemberIDs {
		if existing == memberID {
			return true
		}
	}
	return false
}
