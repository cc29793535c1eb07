package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/assessment-api/internal/handler/dto"
	"github.com/yourusername/assessment-api/internal/service"
	"github.com/yourusername/assessment-api/pkg/auth"
)

// SessionHandler обрабатывает вход респондента и выдачу полезной нагрузки квиза
type SessionHandler struct {
	sessionService *service.SessionService
	jwtService     *auth.JWTService
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(sessionService *service.SessionService, jwtService *auth.JWTService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		jwtService:     jwtService,
	}
}

// SignIn аутентифицирует респондента по коду доступа и email.
// Недействительный код и отсутствие записи дают одинаковый статус 401:
// ответ не раскрывает, какая часть пары неверна.
// POST /api/qz/signin
func (h *SessionHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, err := h.sessionService.ResolveSession(req.AccessCode, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAccessCode), errors.Is(err, service.ErrNoMatchingSession):
			c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrNoMatchingSession.Error()})
		case errors.Is(err, service.ErrAmbiguousSession):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please contact the test administrator"})
		default:
			log.Printf("[SessionHandler] Ошибка входа респондента: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		}
		return
	}

	token, err := h.jwtService.GenerateRespondentToken(identity.AccessRecordID, identity.TestID, identity.Email)
	if err != nil {
		log.Printf("[SessionHandler] Ошибка выпуска сессионного токена: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate session token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"session": identity,
	})
}

// GetSession возвращает очищенную полезную нагрузку квиза для текущей сессии.
// Идентификатор записи доступа берется из сессионного токена, а не из запроса.
// GET /api/qz/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	accessRecordID := c.MustGet("access_record_id").(uint)
	if accessRecordID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session token is missing access record"})
		return
	}

	payload, err := h.sessionService.FetchQuizPayload(accessRecordID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found, please sign in again"})
			return
		}
		log.Printf("[SessionHandler] Ошибка получения полезной нагрузки сессии ID=%d: %v", accessRecordID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get session"})
		return
	}

	c.JSON(http.StatusOK, payload)
}
