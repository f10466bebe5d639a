package api

import (
	"context"
	"errors"
	"labsite/internal/auth"
	"labsite/internal/config"
	"labsite/internal/model"
	"labsite/internal/notify"
	"labsite/internal/service"
	"labsite/internal/storage"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// storeTimeout bounds the store work of a single request.
const storeTimeout = 5 * time.Second

// Dependencies 是 HTTPHandler 依赖的外部资源
type Dependencies struct {
	Stores   *model.Stores
	Storage  storage.Storage
	Notifier notify.Notifier
	// Clock 为空时使用系统时间
	Clock service.Clock
}

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg               config.Config
	storage           storage.Storage
	storagePublicBase string

	// 服务层
	auth    *service.AuthService
	authz   *service.Authorizer
	access  *service.AccessService
	users   *service.UserService
	contact *service.ContactService
	content *service.ContentServices
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, deps Dependencies) (*HTTPHandler, error) {
	if deps.Stores == nil || deps.Stores.Repo == nil {
		return nil, errors.New("api: stores are required")
	}
	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return nil, err
	}
	if deps.Clock != nil {
		tokens = tokens.WithClock(deps.Clock.Now)
	}

	repo := deps.Stores.Repo
	authz := service.NewAuthorizer(repo)

	return &HTTPHandler{
		cfg:               cfg,
		storage:           deps.Storage,
		storagePublicBase: storage.NormalisePublicBase(cfg.StoragePublicBaseURL),
		auth:              service.NewAuthService(repo, tokens, deps.Clock),
		authz:             authz,
		access: service.NewAccessService(repo, authz, deps.Notifier, deps.Clock, service.AccessSettings{
			Inbox:   cfg.NotifyInbox,
			SiteURL: cfg.SiteURL,
		}),
		users:   service.NewUserService(repo, authz),
		contact: service.NewContactService(repo, deps.Notifier, deps.Clock, cfg.NotifyInbox),
		content: service.NewContentServices(deps.Stores, deps.Clock),
	}, nil
}

// storeContext 为存储调用设置超时
func storeContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), storeTimeout)
}

// parseID reads the :id path parameter. Anything but a positive integer is
// answered with 400 before the store is touched.
func parseID(c *gin.Context) (uint, bool) {
	value := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// Health 健康检查
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
