package models

// CategoryModel is a hierarchical post category. Parent is a plain adjacency
// reference; cycle prevention happens at write time in the taxonomy service.
type CategoryModel struct {
	Base
	Name     string  `json:"name"      gorm:"uniqueIndex;not null"`
	Slug     string  `json:"slug"      gorm:"uniqueIndex;not null"`
	ParentID *string `json:"parent_id" gorm:"type:char(36);index"`

	Parent   *CategoryModel  `json:"parent,omitempty"   gorm:"foreignKey:ParentID"`
	Children []CategoryModel `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Posts    []PostModel     `json:"posts,omitempty"    gorm:"many2many:post_categories"`
}

func (CategoryModel) TableName() string { return "categories" }

// TagModel is a flat post tag.
type TagModel struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex;not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;not null"`

	Posts []PostModel `json:"posts,omitempty" gorm:"many2many:post_tags"`
}

func (TagModel) TableName() string { return "tags" }

// ContentTypeModel classifies the editorial format of a post (review,
// buying guide, news, ...). A post links to at most one.
type ContentTypeModel struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex;not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;not null"`

	Posts []PostModel `json:"posts,omitempty" gorm:"many2many:post_content_types"`
}

func (ContentTypeModel) TableName() string { return "content_types" }
