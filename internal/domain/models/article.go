package models

// Article represents a single article inside a reading series
// (series_slug, sort_order)上的复合唯一索引是顺序唯一性的存储层兜底，
// 应用层的预检查只负责给出友好错误信息
type Article struct {
	BaseModel
	Title      string  `gorm:"type:varchar(255);not null" json:"title"`
	Content    string  `gorm:"type:longtext;not null" json:"content"` // 已消毒的HTML
	SeriesSlug string  `gorm:"type:varchar(100);not null;uniqueIndex:idx_articles_series_order" json:"seriesSlug"`
	Order      int     `gorm:"column:sort_order;not null;uniqueIndex:idx_articles_series_order" json:"order"`
	Image      *string `gorm:"type:varchar(500)" json:"image"`
	Views      int     `gorm:"not null;default:0" json:"views"`
	AuthorID   uint    `gorm:"not null" json:"authorId"`

	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
}

// ArticleResponse 文章的线上视图，作者以投影附带
type ArticleResponse struct {
	Article
	AuthorView *AuthorInfo `json:"author,omitempty"`
}

// ToResponse 生成文章响应，作者ID转换为字符串表示
func (a *Article) ToResponse() ArticleResponse {
	resp := ArticleResponse{Article: *a}
	if a.Author != nil {
		info := a.Author.ToAuthorInfo()
		resp.AuthorView = &info
	}
	return resp
}

// ToResponseList 批量生成文章响应
func ToResponseList(articles []Article) []ArticleResponse {
	resps := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		resps = append(resps, articles[i].ToResponse())
	}
	return resps
}
