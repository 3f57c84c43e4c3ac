package model

// Paths on a Stack Overflow for Teams site
const (
	PathEnterpriseAdminSettings = "/enterprise/admin-settings"
	PathBusinessAdminSettings   = "/admin/settings"
	PathBulkDeleteUsers         = "/enterprise/manageusers/bulk-delete-users"
	PathUsers                   = "/users"
)

// Hosted Business and Basic sites live under this domain; anything else is Enterprise.
const BusinessHostSuffix = "stackoverflowteams.com"

// Product variants
const (
	VariantEnterprise = "enterprise"
	VariantBusiness   = "business"
)

// Form fields of the bulk delete call
const (
	FieldFkey       = "fkey"
	FieldAccountIDs = "accountIds"
)

// DefaultChunkSize keeps one bulk delete call under the server-side timeout.
// Deleting 25 users without content attribution takes about 16 seconds.
const DefaultChunkSize = 25
