package models

// Resource is implemented by every record family subject to tenant scoping:
// assets, controls and documents. The owner tenant link is immutable once
// set; ownership never silently migrates between tenants.
type Resource interface {
	// GetID returns the record's stable identifier, "" when unpersisted.
	GetID() string

	// GetTenantID returns the owning tenant's identifier, "" when the owner
	// has no stable identity yet.
	GetTenantID() string
}
