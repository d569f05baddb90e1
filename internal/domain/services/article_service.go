package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/MFZ2840/literasi-digital/internal/domain/models"
	"github.com/MFZ2840/literasi-digital/internal/infrastructure/config"
)

// ArticleFilter 文章列表的可选过滤条件，零值字段表示不限制
type ArticleFilter struct {
	SeriesSlug string
	AuthorID   *uint
	StartDate  *time.Time
	EndDate    *time.Time
}

// ArticlePage 可选分页参数，nil表示不分页
type ArticlePage struct {
	Take *int
	Skip *int
}

// SeriesOption 系列下拉选项
type SeriesOption struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// AuthorOption 作者下拉选项，ID统一为字符串
type AuthorOption struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

// InterfaceArticleService Article服务接口
type InterfaceArticleService interface {
	GetArticles(filter ArticleFilter, sortBy string, page ArticlePage) ([]models.Article, int64, error)
	GetArticleByID(id uint) (*models.Article, error)
	GetPublicArticleByID(id uint) (*models.Article, error)
	SearchArticles(query string) ([]models.Article, error)
	CreateArticle(article *models.Article) error
	UpdateArticle(id uint, updated *models.Article) (*models.Article, error)
	DeleteArticle(id uint) error
	GetSeriesOptions() ([]SeriesOption, error)
	GetAuthorOptions() ([]AuthorOption, error)
}

// ArticleService 提供文章相关的服务
type ArticleService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewArticleService 创建一个新的文章服务
func NewArticleService(db *gorm.DB, cfg *config.Config) InterfaceArticleService {
	return &ArticleService{
		DB:     db,
		Config: cfg,
	}
}

// buildFilterQuery 把过滤条件翻译为查询，列表查询和计数查询共用
func (s *ArticleService) buildFilterQuery(filter ArticleFilter) *gorm.DB {
	query := s.DB.Model(&models.Article{})

	if filter.SeriesSlug != "" {
		query = query.Where("series_slug = ?", filter.SeriesSlug)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		// 终止日期放宽到当天23:59:59.999，保证当天发布的文章被包含在内
		endOfDay := time.Date(filter.EndDate.Year(), filter.EndDate.Month(), filter.EndDate.Day(),
			23, 59, 59, 999000000, filter.EndDate.Location())
		query = query.Where("created_at <= ?", endOfDay)
	}

	return query
}

// orderClause 把排序键翻译为ORDER BY子句，未知键回退到latest
func orderClause(sortBy string) string {
	switch sortBy {
	case "oldest":
		return "created_at asc"
	case "az":
		return "title asc"
	case "za":
		return "title desc"
	case "popular":
		return "views desc"
	case "latest":
		fallthrough
	default:
		return "created_at desc"
	}
}

// 1 GetArticles 按过滤、排序、分页条件获取文章列表及匹配总数
// 总数忽略分页参数，基于相同的过滤条件统计
func (s *ArticleService) GetArticles(filter ArticleFilter, sortBy string, page ArticlePage) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	if err := s.buildFilterQuery(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := s.buildFilterQuery(filter).
		Preload("Author").
		Order(orderClause(sortBy))

	if page.Skip != nil {
		query = query.Offset(*page.Skip)
	}
	if page.Take != nil {
		query = query.Limit(*page.Take)
	}

	if err := query.Find(&articles).Error; err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

// 2 GetArticleByID 根据ID获取文章（管理后台编辑用，不增加浏览量）
func (s *ArticleService) GetArticleByID(id uint) (*models.Article, error) {
	var article models.Article
	if err := s.DB.Preload("Author").First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundErrorFmt("文章不存在")
		}
		return nil, err
	}
	return &article, nil
}

// 3 GetPublicArticleByID 公开读取单篇文章并累加浏览量
// 浏览量用单条UPDATE累加，并发下可能少计但不会损坏数据
func (s *ArticleService) GetPublicArticleByID(id uint) (*models.Article, error) {
	article, err := s.GetArticleByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Article{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		return nil, err
	}

	return article, nil
}

// 4 SearchArticles 在标题或内容中做大小写不敏感的子串搜索
// 标题命中优先的重排序是展示层的职责，这里只负责查询
func (s *ArticleService) SearchArticles(query string) ([]models.Article, error) {
	var articles []models.Article
	pattern := "%" + strings.ToLower(query) + "%"

	err := s.DB.Model(&models.Article{}).
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern).
		Preload("Author").
		Order("created_at desc").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// checkOrderSlot 检查(seriesSlug, order)槽位是否已被其他文章占用
// excludeID在更新时排除文章自身
func (s *ArticleService) checkOrderSlot(seriesSlug string, order int, excludeID uint) error {
	query := s.DB.Model(&models.Article{}).
		Where("series_slug = ? AND sort_order = ?", seriesSlug, order)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ConflictErrorFmt("order", "顺序 %d 在系列 '%s' 中已被其他文章占用", order, seriesSlug)
	}
	return nil
}

// 5 CreateArticle 创建新文章
// 预检查只用于给出友好错误信息，真正的保证来自复合唯一索引；
// 并发竞争同一槽位时，后写的一方由唯一索引兜底报冲突
func (s *ArticleService) CreateArticle(article *models.Article) error {
	if err := s.checkOrderSlot(article.SeriesSlug, article.Order, 0); err != nil {
		return err
	}

	if err := s.DB.Create(article).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ConflictErrorFmt("order", "顺序 %d 在系列 '%s' 中已被其他文章占用", article.Order, article.SeriesSlug)
		}
		return err
	}

	return s.DB.Preload("Author").First(article, article.ID).Error
}

// 6 UpdateArticle 更新文章（重新校验顺序槽位）
func (s *ArticleService) UpdateArticle(id uint, updated *models.Article) (*models.Article, error) {
	article, err := s.GetArticleByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.checkOrderSlot(updated.SeriesSlug, updated.Order, article.ID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":       updated.Title,
		"content":     updated.Content,
		"series_slug": updated.SeriesSlug,
		"sort_order":  updated.Order,
		"image":       updated.Image,
	}
	if err := s.DB.Model(article).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ConflictErrorFmt("order", "顺序 %d 在系列 '%s' 中已被其他文章占用", updated.Order, updated.SeriesSlug)
		}
		return nil, err
	}

	return s.GetArticleByID(id)
}

// 7 DeleteArticle 删除文章
func (s *ArticleService) DeleteArticle(id uint) error {
	result := s.DB.Delete(&models.Article{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundErrorFmt("文章不存在")
	}
	return nil
}

// 8 GetSeriesOptions 获取去重后的系列列表，按slug升序
// 展示名由slug转换：连字符换空格并把每个单词首字母大写
func (s *ArticleService) GetSeriesOptions() ([]SeriesOption, error) {
	var slugs []string
	err := s.DB.Model(&models.Article{}).
		Distinct("series_slug").
		Order("series_slug asc").
		Pluck("series_slug", &slugs).Error
	if err != nil {
		return nil, err
	}

	options := make([]SeriesOption, 0, len(slugs))
	for _, slug := range slugs {
		options = append(options, SeriesOption{
			Slug: slug,
			Name: seriesDisplayName(slug),
		})
	}
	return options, nil
}

// seriesDisplayName 把slug转换为展示名称
func seriesDisplayName(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// 9 GetAuthorOptions 获取发表过至少一篇文章的作者，按名称升序
func (s *ArticleService) GetAuthorOptions() ([]AuthorOption, error) {
	var users []models.User
	err := s.DB.Model(&models.User{}).
		Where("EXISTS (SELECT 1 FROM articles WHERE articles.author_id = users.id)").
		Order("name asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	options := make([]AuthorOption, 0, len(users))
	for i := range users {
		info := users[i].ToAuthorInfo()
		options = append(options, AuthorOption{ID: info.ID, Name: info.Name})
	}
	return options, nil
}
