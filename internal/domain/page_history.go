package domain

import "time"

// PageHistory is an immutable revision snapshot. Each row holds the
// content a page had just before an overwriting edit, so the page row
// itself is always the latest revision.
// Table: page_histories
type PageHistory struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PageID    int64     `gorm:"column:page_id;index;not null" json:"page_id"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	AuthorID  int64     `gorm:"column:author_id;not null" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for PageHistory model
func (PageHistory) TableName() string {
	return "page_histories"
}

// PageHistoryResponse is the API representation of a revision snapshot
type PageHistoryResponse struct {
	ID        int64     `json:"id"`
	PageID    int64     `json:"page_id"`
	Content   string    `json:"content"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts PageHistory to PageHistoryResponse
func (h *PageHistory) ToResponse() PageHistoryResponse {
	resp := PageHistoryResponse{
		ID:        h.ID,
		PageID:    h.PageID,
		Content:   h.Content,
		CreatedAt: h.CreatedAt,
	}
	if h.Author != nil {
		resp.Author = h.Author.Username
	}
	return resp
}
