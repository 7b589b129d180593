package model

import "time"

// PostModel mirrors the 'posts' table. Deleting the author removes their posts.
type PostModel struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	Description string     `gorm:"type:varchar(2000);not null"`
	AuthorID    int64      `gorm:"not null;index:idx_posts_author_id"`
	Author      *UserModel `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt   time.Time  `gorm:"index:idx_posts_created_at"`
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (PostModel) TableName() string {
	return "posts"
}

// All lists every model in dependency order for schema migration.
func All() []any {
	return []any{
		&UserModel{},
		&PostModel{},
	}
}
