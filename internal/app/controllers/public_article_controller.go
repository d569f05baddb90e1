package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MFZ2840/literasi-digital/internal/domain/models"
	"github.com/MFZ2840/literasi-digital/internal/domain/services"
	"github.com/MFZ2840/literasi-digital/internal/domain/services/container"
	"github.com/MFZ2840/literasi-digital/internal/error/code"
	"github.com/MFZ2840/literasi-digital/internal/error/response"
)

// InterfacePublicArticleController 定义公开文章控制器接口
type InterfacePublicArticleController interface {
	GetArticles()
	GetArticle()
	SearchArticles()
	GetAuthors()
	GetSeries()
}

// PublicArticleController 处理面向读者的公开请求，无需认证
type PublicArticleController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPublicArticleController 创建一个新的公开文章控制器
func NewPublicArticleController(ctx *gin.Context, container *container.ServiceContainer) *PublicArticleController {
	return &PublicArticleController{
		Ctx:       ctx,
		Container: container,
	}
}

// PublicArticleList 公开列表响应：文章分页+忽略分页的匹配总数
type PublicArticleList struct {
	Articles      []models.ArticleResponse `json:"articles"`
	TotalArticles int64                    `json:"totalArticles"`
}

// HandlePublicArticleFunc 返回一个处理公开文章请求的Gin处理函数
func HandlePublicArticleFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPublicArticleController(ctx, container)

		switch method {
		case "getArticles":
			controller.GetArticles()
		case "getArticle":
			controller.GetArticle()
		case "searchArticles":
			controller.SearchArticles()
		case "getAuthors":
			controller.GetAuthors()
		case "getSeries":
			controller.GetSeries()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", "")
		}
	}
}

// parseDateParam 解析日期参数，支持YYYY-MM-DD和RFC3339两种格式
func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// 1 GetArticles 获取公开文章列表
// @Summary      获取公开文章列表
// @Description  支持分页(take/skip)、排序(sortBy)和过滤(seriesSlug/authorId/startDate/endDate)的文章列表
// @Tags         Public
// @Produce      json
// @Param        take query int false "每页条数，必须为正整数"
// @Param        skip query int false "跳过条数，必须为非负整数"
// @Param        sortBy query string false "排序键: latest(默认)/oldest/az/za/popular"
// @Param        seriesSlug query string false "按系列过滤"
// @Param        authorId query int false "按作者ID过滤"
// @Param        startDate query string false "起始日期(YYYY-MM-DD)，含当天"
// @Param        endDate query string false "终止日期(YYYY-MM-DD)，含当天"
// @Success      200  {object}  PublicArticleList
// @Failure      400  {object}  response.ErrorBody
// @Failure      500  {object}  response.ErrorBody
// @Router       /public/articles [get]
func (c *PublicArticleController) GetArticles() {
	var page services.ArticlePage
	var filter services.ArticleFilter

	// 非法的take/skip直接拒绝，不做静默截断
	if takeStr := c.Ctx.Query("take"); takeStr != "" {
		take, err := strconv.Atoi(takeStr)
		if err != nil || take <= 0 {
			response.ParamError(c.Ctx, "无效的take参数")
			return
		}
		page.Take = &take
	}
	if skipStr := c.Ctx.Query("skip"); skipStr != "" {
		skip, err := strconv.Atoi(skipStr)
		if err != nil || skip < 0 {
			response.ParamError(c.Ctx, "无效的skip参数")
			return
		}
		page.Skip = &skip
	}

	if slug := strings.TrimSpace(c.Ctx.Query("seriesSlug")); slug != "" {
		filter.SeriesSlug = slug
	}
	if authorStr := strings.TrimSpace(c.Ctx.Query("authorId")); authorStr != "" {
		authorID, err := strconv.ParseUint(authorStr, 10, 32)
		if err != nil {
			response.ParamError(c.Ctx, "无效的authorId参数")
			return
		}
		id := uint(authorID)
		filter.AuthorID = &id
	}
	if startStr := strings.TrimSpace(c.Ctx.Query("startDate")); startStr != "" {
		start, err := parseDateParam(startStr)
		if err != nil {
			response.ParamError(c.Ctx, "无效的startDate参数")
			return
		}
		filter.StartDate = &start
	}
	if endStr := strings.TrimSpace(c.Ctx.Query("endDate")); endStr != "" {
		end, err := parseDateParam(endStr)
		if err != nil {
			response.ParamError(c.Ctx, "无效的endDate参数")
			return
		}
		filter.EndDate = &end
	}

	sortBy := c.Ctx.DefaultQuery("sortBy", "latest")

	articleService := c.Container.GetService("article").(services.InterfaceArticleService)
	articles, total, err := articleService.GetArticles(filter, sortBy, page)
	if err != nil {
		handleServiceError(c.Ctx, err, "获取公开文章列表失败")
		return
	}

	response.Success(c.Ctx, PublicArticleList{
		Articles:      models.ToResponseList(articles),
		TotalArticles: total,
	})
}

// 2 GetArticle 获取单篇公开文章并累加浏览量
// @Summary      获取公开文章详情
// @Description  根据ID获取文章并将浏览量加一
// @Tags         Public
// @Produce      json
// @Param        id path int true "文章ID"
// @Success      200  {object}  models.ArticleResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /public/articles/{id} [get]
func (c *PublicArticleController) GetArticle() {
	idUint, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的文章ID")
		return
	}

	articleService := c.Container.GetService("article").(services.InterfaceArticleService)
	article, err := articleService.GetPublicArticleByID(uint(idUint))
	if err != nil {
		handleServiceError(c.Ctx, err, "获取公开文章失败")
		return
	}

	response.Success(c.Ctx, article.ToResponse())
}

// 3 SearchArticles 公开搜索
// @Summary      搜索文章
// @Description  在标题或内容中做大小写不敏感的子串搜索
// @Tags         Public
// @Produce      json
// @Param        q query string true "搜索关键词"
// @Success      200  {array}   models.ArticleResponse
// @Failure      400  {object}  response.ErrorBody
// @Router       /public/articles/search [get]
func (c *PublicArticleController) SearchArticles() {
	q := c.Ctx.Query("q")
	if strings.TrimSpace(q) == "" {
		response.ParamError(c.Ctx, "搜索关键词不能为空")
		return
	}

	articleService := c.Container.GetService("article").(services.InterfaceArticleService)
	articles, err := articleService.SearchArticles(q)
	if err != nil {
		handleServiceError(c.Ctx, err, "搜索文章失败")
		return
	}

	response.Success(c.Ctx, models.ToResponseList(articles))
}

// 4 GetAuthors 获取作者下拉选项
// @Summary      获取作者列表
// @Description  返回发表过文章的作者，首项为空ID的“全部作者”哨兵
// @Tags         Public
// @Produce      json
// @Success      200  {array}   services.AuthorOption
// @Failure      500  {object}  response.ErrorBody
// @Router       /public/authors [get]
func (c *PublicArticleController) GetAuthors() {
	articleService := c.Container.GetService("article").(services.InterfaceArticleService)
	authors, err := articleService.GetAuthorOptions()
	if err != nil {
		handleServiceError(c.Ctx, err, "获取作者列表失败")
		return
	}

	allAuthors := "All Authors"
	options := append([]services.AuthorOption{{ID: "", Name: &allAuthors}}, authors...)
	response.Success(c.Ctx, options)
}

// 5 GetSeries 获取系列下拉选项
// @Summary      获取系列列表
// @Description  返回去重后的系列，首项为空slug的“全部系列”哨兵
// @Tags         Public
// @Produce      json
// @Success      200  {array}   services.SeriesOption
// @Failure      500  {object}  response.ErrorBody
// @Router       /public/series [get]
func (c *PublicArticleController) GetSeries() {
	articleService := c.Container.GetService("article").(services.InterfaceArticleService)
	series, err := articleService.GetSeriesOptions()
	if err != nil {
		handleServiceError(c.Ctx, err, "获取系列列表失败")
		return
	}

	options := append([]services.SeriesOption{{Slug: "", Name: "All Series"}}, series...)
	response.Success(c.Ctx, options)
}
