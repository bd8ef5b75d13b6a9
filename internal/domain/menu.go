package domain

import "encoding/json"

// Menu is a navigation tree node. A node may link to a page (PageID set)
// or act as a folder (PageID nil). ParentID nil means root level.
// Table: menus
type Menu struct {
	ID         int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title      string  `gorm:"column:title;size:100;not null" json:"title"`
	PageID     *int64  `gorm:"column:page_id" json:"page_id"`
	Page       *Page   `gorm:"foreignKey:PageID" json:"-"`
	ParentID   *int64  `gorm:"column:parent_id" json:"parent_id"`
	OrderIndex int     `gorm:"column:order_index;default:0" json:"order_index"`
	IsActive   bool    `gorm:"column:is_active" json:"is_active"`
	Children   []*Menu `gorm:"-" json:"children,omitempty"`
}

// TableName specifies the table name for Menu model
func (Menu) TableName() string {
	return "menus"
}

// MenuResponse is the API representation of a menu node with its subtree
type MenuResponse struct {
	ID         int64          `json:"id"`
	Title      string         `json:"title"`
	PageID     *int64         `json:"page_id"`
	PageSlug   string         `json:"page_slug,omitempty"`
	ParentID   *int64         `json:"parent_id"`
	OrderIndex int            `json:"order_index"`
	IsActive   bool           `json:"is_active"`
	Children   []MenuResponse `json:"children"`
}

// ToResponse converts Menu to MenuResponse, expanding children recursively
func (m *Menu) ToResponse() MenuResponse {
	resp := MenuResponse{
		ID:         m.ID,
		Title:      m.Title,
		PageID:     m.PageID,
		ParentID:   m.ParentID,
		OrderIndex: m.OrderIndex,
		IsActive:   m.IsActive,
		Children:   make([]MenuResponse, 0),
	}
	if m.Page != nil {
		resp.PageSlug = m.Page.Slug
	}
	for _, child := range m.Children {
		resp.Children = append(resp.Children, child.ToResponse())
	}
	return resp
}

// OptionalID distinguishes "field absent" from "field: null" in partial
// updates, so page_id can be cleared explicitly without clobbering it on
// every unrelated update.
type OptionalID struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// CreateMenuRequest is the request body for creating a menu node
type CreateMenuRequest struct {
	Title    string `json:"title" binding:"required"`
	PageID   *int64 `json:"page_id"`
	ParentID *int64 `json:"parent_id"`
}

// UpdateMenuRequest is the request body for a partial menu update
type UpdateMenuRequest struct {
	Title    *string    `json:"title,omitempty"`
	PageID   OptionalID `json:"page_id"`
	IsActive *bool      `json:"is_active,omitempty"`
}

// MoveMenuRequest is the request body for moving a single node
type MoveMenuRequest struct {
	ParentID   *int64 `json:"parent_id"`
	OrderIndex *int   `json:"order_index"`
}

// ReorderMenusRequest is the request body for a bulk reorder
type ReorderMenusRequest struct {
	Menus []ReorderMenuItem `json:"menus" binding:"required"`
}

// ReorderMenuItem is a single entry in a bulk reorder. Entries missing
// id or order_index are skipped rather than rejected.
type ReorderMenuItem struct {
	ID         *int64 `json:"id"`
	OrderIndex *int   `json:"order_index"`
	ParentID   *int64 `json:"parent_id"`
}
