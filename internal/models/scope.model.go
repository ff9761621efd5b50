package models

import "github.com/google/uuid"

// IDFilter restricts an entity listing to an explicit id set, or to
// everything when Unrestricted.
type IDFilter struct {
	Unrestricted bool        `json:"unrestricted"`
	IDs          []uuid.UUID `json:"ids,omitempty"`
}

// MatchesNone reports whether the filter can never match a row. An empty
// assignment set is a policy outcome, not an error: scoped listings return
// empty results.
func (f IDFilter) MatchesNone() bool {
	return !f.Unrestricted && len(f.IDs) == 0
}

func (f IDFilter) Contains(id uuid.UUID) bool {
	if f.Unrestricted {
		return true
	}
	for _, candidate := range f.IDs {
		if candidate == id {
			return true
		}
	}
	return false
}

// BranchFilter restricts branches either by their own ids or by the ids of
// their owning clients.
type BranchFilter struct {
	Unrestricted bool        `json:"unrestricted"`
	IDs          []uuid.UUID `json:"ids,omitempty"`
	ClientIDs    []uuid.UUID `json:"clientIds,omitempty"`
}

func (f BranchFilter) MatchesNone() bool {
	return !f.Unrestricted && len(f.IDs) == 0 && len(f.ClientIDs) == 0
}

func (f BranchFilter) Allows(branch *Branch) bool {
	if f.Unrestricted {
		return true
	}
	for _, id := range f.IDs {
		if id == branch.ID {
			return true
		}
	}
	for _, clientID := range f.ClientIDs {
		if clientID == branch.ClientID {
			return true
		}
	}
	return false
}

// UserFilter restricts users by branch assignment overlap or to the
// principal itself.
type UserFilter struct {
	Unrestricted    bool        `json:"unrestricted"`
	BranchIDs       []uuid.UUID `json:"branchIds,omitempty"`
	BranchClientIDs []uuid.UUID `json:"branchClientIds,omitempty"`
	SelfID          *uuid.UUID  `json:"selfId,omitempty"`
}

func (f UserFilter) MatchesNone() bool {
	return !f.Unrestricted && len(f.BranchIDs) == 0 && len(f.BranchClientIDs) == 0 &&
		f.SelfID == nil
}

// LogFilter restricts maintenance logs by branch, by branch owner client,
// or by the attributed staff member.
type LogFilter struct {
	Unrestricted    bool        `json:"unrestricted"`
	BranchIDs       []uuid.UUID `json:"branchIds,omitempty"`
	BranchClientIDs []uuid.UUID `json:"branchClientIds,omitempty"`
	StaffID         *uuid.UUID  `json:"staffId,omitempty"`
}

func (f LogFilter) MatchesNone() bool {
	return !f.Unrestricted && len(f.BranchIDs) == 0 && len(f.BranchClientIDs) == 0 &&
		f.StaffID == nil
}

// Allows evaluates the filter against a loaded log. The log's Branch must
// be preloaded when the filter restricts by client.
func (f LogFilter) Allows(log *MaintenanceLog) bool {
	if f.Unrestricted {
		return true
	}
	if f.StaffID != nil && log.StaffID == *f.StaffID {
		return true
	}
	for _, branchID := range f.BranchIDs {
		if branchID == log.BranchID {
			return true
		}
	}
	if log.Branch != nil {
		for _, clientID := range f.BranchClientIDs {
			if clientID == log.Branch.ClientID {
				return true
			}
		}
	}
	return false
}

// Scope is the full set of filters a principal's reads and writes are
// evaluated against. It is computed once per request by the scope resolver
// and applied identically to listings, counts, and mutation checks.
type Scope struct {
	Principal Principal    `json:"principal"`
	Clients   IDFilter     `json:"clients"`
	Branches  BranchFilter `json:"branches"`
	Users     UserFilter   `json:"users"`
	Logs      LogFilter    `json:"logs"`
}
