package middleware

import (
	"dsa_tutor_web/internal/config"
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/internal/repository"
	"dsa_tutor_web/internal/util"
	"dsa_tutor_web/pkg/logger"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionMiddleware 通过签名 cookie 识别会话，请求前加载视图状态，请求后写回
func SessionMiddleware(repo repository.SessionRepository, current func() *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := current()

		claims := readSession(c, cfg)
		if claims == nil {
			var err error
			claims, err = issueSession(c, cfg)
			if err != nil {
				util.LogInternalError(c, err)
				c.Abort()
				return
			}
		}

		ctx := c.Request.Context()
		state, err := repo.Get(ctx, claims.SessionID)
		if errors.Is(err, util.ErrSessionCorrupt) {
			// 无法解析的旧状态直接丢弃，按新会话处理
			logger.Log.Warn("Dropping unreadable view state", zap.String("session_id", claims.SessionID), zap.Error(err))
			if err := repo.Delete(ctx, claims.SessionID); err != nil {
				logger.Log.Error("Failed to delete view state", zap.String("session_id", claims.SessionID), zap.Error(err))
			}
			err = util.ErrSessionNotFound
		}
		if errors.Is(err, util.ErrSessionNotFound) {
			state = &model.ViewState{SessionID: claims.SessionID, UserID: claims.UserID}
		} else if err != nil {
			util.LogInternalError(c, err)
			c.Abort()
			return
		}

		c.Set(util.ContextKeyViewState, state)
		c.Next()

		// 后完成的请求覆盖先完成的
		if err := repo.Save(ctx, state); err != nil {
			logger.Log.Error("Failed to save view state", zap.String("session_id", claims.SessionID), zap.Error(err))
		}
	}
}

func readSession(c *gin.Context, cfg *config.Config) *util.SessionClaims {
	token, err := c.Cookie(cfg.Session.CookieName)
	if err != nil || token == "" {
		return nil
	}

	claims, err := util.ParseSessionToken(token, cfg.Session.Secret)
	if err != nil {
		// 签名不符、过期或缺少会话 id 的 cookie 一律重新签发
		logger.Log.Debug("Discarding session cookie", zap.Bool("invalid", errors.Is(err, util.ErrInvalidSession)), zap.Error(err))
		return nil
	}
	return claims
}

func issueSession(c *gin.Context, cfg *config.Config) (*util.SessionClaims, error) {
	claims := &util.SessionClaims{
		SessionID: uuid.NewString(),
		UserID:    cfg.Backend.UserID,
	}

	token, err := util.GenerateSessionToken(claims.SessionID, claims.UserID, cfg.Session.Secret, 0)
	if err != nil {
		return nil, err
	}

	c.SetCookie(cfg.Session.CookieName, token, 0, "/", "", c.Request.TLS != nil, true)
	return claims, nil
}

// ViewState 取出当前请求的视图状态
func ViewState(c *gin.Context) *model.ViewState {
	v, exists := c.Get(util.ContextKeyViewState)
	if !exists {
		return nil
	}
	state, _ := v.(*model.ViewState)
	return state
}
