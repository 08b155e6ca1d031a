package auth

import "github.com/meditrack/meditrack-backend/internal/models"

// Capability names an operation a role may be granted
type Capability string

const (
	CapCreatePrescription   Capability = "prescription:create"
	CapReviewPrescription   Capability = "prescription:review"
	CapListAllPrescriptions Capability = "prescription:list-all"
)

// grants is the single source of truth for role-to-capability mapping.
// Handlers and services ask Can instead of comparing role strings inline.
var grants = map[models.Role]map[Capability]bool{
	models.RolePatient: {
		CapCreatePrescription: true,
	},
	models.RolePharmacist: {
		CapReviewPrescription:   true,
		CapListAllPrescriptions: true,
	},
}

// Can reports whether the role holds the capability. Unknown roles hold
// nothing.
func Can(role models.Role, cap Capability) bool {
	return grants[role][cap]
}
