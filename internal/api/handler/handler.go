package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/jam/internal/service"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", validUsername)
	}
}

// validUsername 用户名只允许字母、数字和下划线
func validUsername(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return s != ""
}

// pageParams 解析 limit/offset 查询参数，非法值由 service 层兜底
func pageParams(c *gin.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}
	return limit, offset
}

// Handler 聚合各业务 service，按文件拆分各资源的路由处理
type Handler struct {
	authService    service.AuthService
	profileService service.ProfileService
	postService    service.PostService
	followService  service.FollowService
	friendService  service.FriendService
	blockService   service.BlockService
	messageService service.MessageService
	userService    service.UserService
}

func New(
	authService service.AuthService,
	profileService service.ProfileService,
	postService service.PostService,
	followService service.FollowService,
	friendService service.FriendService,
	blockService service.BlockService,
	messageService service.MessageService,
	userService service.UserService,
) *Handler {
	return &Handler{
		authService:    authService,
		profileService: profileService,
		postService:    postService,
		followService:  followService,
		friendService:  friendService,
		blockService:   blockService,
		messageService: messageService,
		userService:    userService,
	}
}
