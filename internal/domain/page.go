package domain

import "time"

// Page is a Markdown wiki page.
// Table: pages
type Page struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;size:200;not null" json:"title"`
	Slug        string    `gorm:"column:slug;uniqueIndex;size:200;not null" json:"slug"`
	Content     string    `gorm:"column:content;type:text" json:"content"`
	AuthorID    int64     `gorm:"column:author_id;not null" json:"author_id"`
	Author      *User     `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	IsPublished bool      `gorm:"column:is_published" json:"is_published"`
}

// TableName specifies the table name for Page model
func (Page) TableName() string {
	return "pages"
}

// PageResponse is the API representation of a page
type PageResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	HTML        string    `json:"html,omitempty"`
	Author      string    `json:"author,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsPublished bool      `json:"is_published"`
}

// ToResponse converts Page to PageResponse
func (p *Page) ToResponse() PageResponse {
	resp := PageResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		IsPublished: p.IsPublished,
	}
	if p.Author != nil {
		resp.Author = p.Author.Username
	}
	return resp
}

// CreatePageRequest is the request body for creating a page
type CreatePageRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Slug    string `json:"slug"`
}

// UpdatePageRequest is the request body for a partial page update
type UpdatePageRequest struct {
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
}
