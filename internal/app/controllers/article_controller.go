package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MFZ2840/literasi-digital/internal/domain/models"
	"github.com/MFZ2840/literasi-digital/internal/domain/services"
	"github.com/MFZ2840/literasi-digital/internal/domain/services/container"
	"github.com/MFZ2840/literasi-digital/internal/error/code"
	"github.com/MFZ2840/literasi-digital/internal/error/response"
	"github.com/MFZ2840/literasi-digital/pkg/validators"
)

// InterfaceArticleController 定义文章管理控制器接口
type InterfaceArticleController interface {
	GetArticles()
	GetArticle()
	CreateArticle()
	UpdateArticle()
	DeleteArticle()
}

// ArticleController 处理管理后台的文章请求
type ArticleController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewArticleController 创建一个新的文章管理控制器
func NewArticleController(ctx *gin.Context, container *container.ServiceContainer) *ArticleController {
	return &ArticleController{
		Ctx:       ctx,
		Container: container,
	}
}

// ArticleRequest 表示文章创建/更新请求
type ArticleRequest struct {
	Title      string `json:"title" example:"数字素养入门"`
	Content    string `json:"content" example:"<p>正文内容</p>"`
	SeriesSlug string `json:"seriesSlug" example:"digital-literacy-basics"`
	Order      int    `json:"order" example:"1"`
	Image      string `json:"image" example:"https://example.com/cover.png"`
}

// HandleArticleFunc 返回一个处理文章管理请求的Gin处理函数
func HandleArticleFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewArticleController(ctx, container)

		switch method {
		case "getArticles":
			controller.GetArticles()
		case "getArticle":
			controller.GetArticle()
		case "createArticle":
			controller.CreateArticle()
		case "updateArticle":
			controller.UpdateArticle()
		case "deleteArticle":
			controller.DeleteArticle()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", "")
		}
	}
}

// articleID 从路径参数解析文章ID
func (c *ArticleController) articleID() (uint, bool) {
	idUint, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的文章ID")
		return 0, false
	}
	return uint(idUint), true
}

// sanitizeAndValidate 消毒内容并执行共享校验规则
// 写入路径统一在这里消毒，长度校验基于消毒后的内容
func (c *ArticleController) sanitizeAndValidate(req *ArticleRequest) bool {
	sanitizer := c.Container.GetService("sanitizer").(services.InterfaceContentSanitizer)
	req.Content = sanitizer.Sanitize(req.Content)

	errs := validators.ValidateArticle(validators.ArticleInput{
		Title:      req.Title,
		Content:    req.Content,
		SeriesSlug: req.SeriesSlug,
		Order:      req.Order,
		Image:      req.Image,
	})
	if len(errs) > 0 {
		first := errs[0]
		response.FailWithMessage(c.Ctx, code.ErrValidation, first.Message, first.Field)
		return false
	}
	return true
}

// toModel 把请求转换为模型
func (req *ArticleRequest) toModel() models.Article {
	article := models.Article{
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		SeriesSlug: strings.TrimSpace(req.SeriesSlug),
		Order:      req.Order,
	}
	if img := strings.TrimSpace(req.Image); img != "" {
		article.Image = &img
	}
	return article
}

// 1 GetArticles 获取全部文章列表
// @Summary      获取文章列表（管理）
// @Description  获取全部文章，按创建时间倒序，附带作者投影
// @Tags         Article
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.ArticleResponse
// @Failure      401  {object}  response.ErrorBody
// @Failure      500  {object}  response.ErrorBody
// @Router       /articles [get]
func (c *ArticleController) GetArticles() {
	articleService := c.Container.GetService("article").(services.InterfaceArticleService)

	articles, _, err := articleService.GetArticles(services.ArticleFilter{}, "latest", services.ArticlePage{})
	if err != nil {
		handleServiceError(c.Ctx, err, "获取文章列表失败")
		return
	}

	response.Success(c.Ctx, models.ToResponseList(articles))
}

// 2 GetArticle 获取单篇文章（编辑用）
// @Summary      获取文章详情（管理）
// @Description  根据ID获取文章用于编辑，不增加浏览量
// @Tags         Article
// @Produce      json
// @Param        id path int true "文章ID"
// @Security     BearerAuth
// @Success      200  {object}  models.ArticleResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      401  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /articles/{id} [get]
func (c *ArticleController) GetArticle() {
	id, ok := c.articleID()
	if !ok {
		return
	}

	articleService := c.Container.GetService("article").(services.InterfaceArticleService)
	article, err := articleService.GetArticleByID(id)
	if err != nil {
		handleServiceError(c.Ctx, err, "获取文章失败")
		return
	}

	response.Success(c.Ctx, article.ToResponse())
}

// 3 CreateArticle 创建新文章
// @Summary      创建文章
// @Description  校验并消毒后创建文章，作者为会话用户；顺序槽位冲突时返回409
// @Tags         Article
// @Accept       json
// @Produce      json
// @Param        request body ArticleRequest true "文章内容"
// @Security     BearerAuth
// @Success      201  {object}  models.ArticleResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      401  {object}  response.ErrorBody
// @Failure      409  {object}  response.ErrorBody
// @Router       /articles [post]
func (c *ArticleController) CreateArticle() {
	var req ArticleRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", "")
		return
	}

	if !c.sanitizeAndValidate(&req) {
		return
	}

	authorID, ok := sessionUserID(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx)
		return
	}

	article := req.toModel()
	article.AuthorID = authorID

	articleService := c.Container.GetService("article").(services.InterfaceArticleService)
	if err := articleService.CreateArticle(&article); err != nil {
		handleServiceError(c.Ctx, err, "创建文章失败")
		return
	}

	response.Created(c.Ctx, article.ToResponse())
}

// 4 UpdateArticle 更新文章
// @Summary      更新文章
// @Description  重新校验、重新消毒并重新检查顺序槽位后更新文章
// @Tags         Article
// @Accept       json
// @Produce      json
// @Param        id path int true "文章ID"
// @Param        request body ArticleRequest true "文章内容"
// @Security     BearerAuth
// @Success      200  {object}  models.ArticleResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      401  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Failure      409  {object}  response.ErrorBody
// @Router       /articles/{id} [put]
func (c *ArticleController) UpdateArticle() {
	id, ok := c.articleID()
	if !ok {
		return
	}

	var req ArticleRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", "")
		return
	}

	if !c.sanitizeAndValidate(&req) {
		return
	}

	updated := req.toModel()
	articleService := c.Container.GetService("article").(services.InterfaceArticleService)
	article, err := articleService.UpdateArticle(id, &updated)
	if err != nil {
		handleServiceError(c.Ctx, err, "更新文章失败")
		return
	}

	response.Success(c.Ctx, article.ToResponse())
}

// 5 DeleteArticle 删除文章
// @Summary      删除文章
// @Description  无条件删除指定文章，成功返回204
// @Tags         Article
// @Param        id path int true "文章ID"
// @Security     BearerAuth
// @Success      204  "No Content"
// @Failure      400  {object}  response.ErrorBody
// @Failure      401  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /articles/{id} [delete]
func (c *ArticleController) DeleteArticle() {
	id, ok := c.articleID()
	if !ok {
		return
	}

	articleService := c.Container.GetService("article").(services.InterfaceArticleService)
	if err := articleService.DeleteArticle(id); err != nil {
		handleServiceError(c.Ctx, err, "删除文章失败")
		return
	}

	response.NoContent(c.Ctx)
}
