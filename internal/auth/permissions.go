package auth

import "github.com/apexcoatings/backoffice/internal/database/models"

// Capability is a single permission bit. Gates check capabilities, never raw
// role strings; the set is computed once when the session is loaded.
type Capability uint8

const (
	// CapViewShop reads dashboard, jobs, customers, services, notes, inventory.
	CapViewShop Capability = 1 << iota
	// CapManageShop writes jobs, customers, services, notes, inventory.
	CapManageShop
	// CapEstimates reads and writes estimates.
	CapEstimates
	// CapConvertEstimates turns an estimate into a job.
	CapConvertEstimates
	// CapManageUsers manages user accounts and roles.
	CapManageUsers
)

// CapabilitySet is the full set of capabilities held by a session.
type CapabilitySet uint8

func (s CapabilitySet) Has(c Capability) bool {
	return CapabilitySet(c)&s == CapabilitySet(c)
}

const allCapabilities = CapabilitySet(CapViewShop | CapManageShop | CapEstimates | CapConvertEstimates | CapManageUsers)

// CapabilitiesFor derives the capability set from a role and the local-admin
// flag. isLocalAdmin is a superset override: it passes every gate regardless
// of the role string stored alongside it.
func CapabilitiesFor(role models.Role, isLocalAdmin bool) CapabilitySet {
	if isLocalAdmin {
		return allCapabilities
	}

	switch role {
	case models.RoleAdmin:
		return allCapabilities
	case models.RoleManager:
		return CapabilitySet(CapViewShop | CapManageShop | CapEstimates | CapConvertEstimates)
	case models.RoleEmployee:
		return CapabilitySet(CapEstimates)
	case models.RoleReadOnly:
		return CapabilitySet(CapViewShop)
	default:
		return 0
	}
}
