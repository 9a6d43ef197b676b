// Package models defines the domain models for the GRC policy core.
// This file contains the Tenant domain model forming the tenant hierarchy.
package models

// Tenant represents an organizational scope in the multi-tenant hierarchy.
// Each tenant owns its own assets, risks, controls and documents, and may
// reference a single parent tenant, forming a tree.
// Tenant 代表多租户层级中的一个组织范围。
// 每个租户拥有自己的资产、风险、控制措施和文档，并且可以引用一个父租户，形成树状结构。
type Tenant struct {
	// ID is the unique identifier of the tenant. An empty ID means the
	// tenant has not been persisted yet.
	// ID 是租户的唯一标识符。空 ID 表示租户尚未持久化。
	ID string `json:"id" gorm:"primaryKey;column:id"`

	// Code is the short, stable code of the tenant organization.
	// Code 是租户组织的短标识代码。
	Code string `json:"code" gorm:"column:code"`

	// Name is the display name of the tenant organization.
	// Name 是租户组织的显示名称。
	Name string `json:"name" gorm:"column:name"`

	// ParentID references the parent tenant, if any. The parent relation is
	// a weak back-reference: lookup only, no ownership, so the tree carries
	// no cyclic ownership. An empty ParentID marks a root tenant.
	// ParentID 引用父租户（如果有）。父级关系是弱引用：仅用于查找，不拥有对象。
	ParentID string `json:"parent_id,omitempty" gorm:"column:parent_id"`

	// Parent is the resolved parent tenant, populated by the hierarchy
	// collaborator. Nil for root tenants.
	Parent *Tenant `json:"-" gorm:"-"`

	// Active indicates whether the tenant is currently active.
	Active bool `json:"active" gorm:"column:active"`
}

// TableName maps the model to its table.
func (Tenant) TableName() string { return "tenants" }

// HasParent reports whether the tenant has a resolved parent. Hierarchy
// semantics are meaningless without one; governance resolution for a root
// tenant always yields "own records only".
func (t *Tenant) HasParent() bool {
	return t != nil && t.Parent != nil
}

// IsPersisted reports whether the tenant has a stable identifier.
func (t *Tenant) IsPersisted() bool {
	return t != nil && t.ID != ""
}

// SameIdentity compares two tenants by stable identifier. Either side
// lacking an identifier means identity cannot be asserted and yields false.
func (t *Tenant) SameIdentity(other *Tenant) bool {
	if t == nil || other == nil {
		return false
	}
	if t.ID == "" || other.ID == "" {
		return false
	}
	return t.ID == other.ID
}
