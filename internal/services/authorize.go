package services

import "eventregistry/internal/domain"

// requireOwner returns nil when callerID matches one of the permitted owner
// IDs, and domain.ErrForbidden otherwise. Both the event and registration
// services route their ownership checks through here: the event side permits
// the organizer only, the registration side permits attendee or organizer
// depending on the operation.
func requireOwner(callerID string, ownerIDs ...string) error {
	for _, id := range ownerIDs {
		if id != "" && id == callerID {
			return nil
		}
	}
	return domain.ErrForbidden
}
