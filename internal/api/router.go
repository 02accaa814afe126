package api

import (
	"errors"
	"net/http"
	"strconv"

	"jester-service/internal/middleware"
	"jester-service/internal/service"
	authSvc "jester-service/internal/service/auth"
	runSvc "jester-service/internal/service/run"
	"jester-service/internal/ws"
	appErr "jester-service/pkg/errors"
	"jester-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	services *service.Container
}

func RegisterRoutes(r *gin.Engine, services *service.Container) {
	handler := &Handler{services: services}
	wsHandler := ws.NewHandler(services.Run)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})

	v1 := r.Group("/jester/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/guest", handler.GuestLogin)
		}

		playerGroup := v1.Group("/player")
		playerGroup.Use(middleware.AuthRequired())
		{
			playerGroup.GET("/profile", handler.GetProfile)
			playerGroup.PUT("/profile", handler.UpdateProfile)
		}

		v1.GET("/leaderboard", handler.Leaderboard)

		runGroup := v1.Group("/runs")
		runGroup.Use(middleware.AuthRequired())
		{
			runGroup.POST("", handler.CreateRun)
			runGroup.GET("/active", handler.GetActiveRun)
			runGroup.GET("/:runId", handler.GetRun)
			runGroup.POST("/:runId/select", handler.SelectCard)
			runGroup.POST("/:runId/sort", handler.SortHand)
			runGroup.POST("/:runId/play", handler.PlayHand)
			runGroup.POST("/:runId/discard", handler.DiscardCards)
			runGroup.POST("/:runId/shop/enter", handler.EnterShop)
			runGroup.POST("/:runId/shop/buy", handler.BuyJoker)
			runGroup.POST("/:runId/shop/sell", handler.SellJoker)
			runGroup.POST("/:runId/shop/reroll", handler.RerollShop)
			runGroup.POST("/:runId/next", handler.NextRound)
			runGroup.GET("/:runId/advice", handler.GetAdvice)
		}
	}

	r.GET("/ws/run/:runId", wsHandler.HandleRunWS)
}

type guestLoginBody struct {
	DeviceID string `json:"deviceId" binding:"required"`
	Nickname string `json:"nickname"`
	Locale   string `json:"locale"`
}

type updateProfileBody struct {
	Nickname *string `json:"nickname"`
	Locale   *string `json:"locale"`
}

type createRunBody struct {
	Locale string `json:"locale"`
}

type cardActionBody struct {
	CardID string `json:"cardId" binding:"required"`
}

type jokerActionBody struct {
	JokerID string `json:"jokerId" binding:"required"`
}

func (h *Handler) GuestLogin(c *gin.Context) {
	var body guestLoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.services.Auth.GuestLogin(c.Request.Context(), body.DeviceID, body.Nickname, body.Locale)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, appErr.ErrInvalidDeviceID):
			status = http.StatusBadRequest
		case errors.Is(err, appErr.ErrPlayerBanned):
			status = http.StatusForbidden
		}
		response.Error(c, status, err.Error())
		return
	}

	response.Success(c, resp)
}

func (h *Handler) GetProfile(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	player, err := h.services.Auth.GetPlayer(c.Request.Context(), playerID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, appErr.ErrPlayerNotFound) {
			status = http.StatusNotFound
		}
		response.Error(c, status, err.Error())
		return
	}
	response.Success(c, gin.H{"player": player})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body updateProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.services.Auth.UpdateProfile(c.Request.Context(), playerID, authSvc.UpdateProfileRequest{
		Nickname: body.Nickname,
		Locale:   body.Locale,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, appErr.ErrPlayerNotFound) {
			status = http.StatusNotFound
		}
		response.Error(c, status, err.Error())
		return
	}
	response.Success(c, gin.H{"player": updated})
}

func (h *Handler) CreateRun(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body createRunBody
	_ = c.ShouldBindJSON(&body)

	rt, err := h.services.Run.CreateRun(c.Request.Context(), playerID, body.Locale)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, rt.State())
}

func (h *Handler) GetActiveRun(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	rt, ok := h.services.Run.ActiveRun(playerID)
	if !ok {
		response.Error(c, http.StatusNotFound, appErr.ErrRunNotFound.Error())
		return
	}
	response.Success(c, rt.State())
}

func (h *Handler) GetRun(c *gin.Context) {
	rt, ok := h.loadRuntime(c)
	if !ok {
		return
	}
	response.Success(c, rt.State())
}

func (h *Handler) SelectCard(c *gin.Context) {
	rt, ok := h.loadRuntime(c)
	if !ok {
		return
	}
	var body cardActionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	state, err := rt.ToggleSelect(body.CardID)
	if err != nil {
		h.handleRunError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) SortHand(c *gin.Context) {
	rt, ok := h.loadRuntime(c)
	if !ok {
		return
	}
	state, err := rt.SortHand()
	if err != nil {
		h.handleRunError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) PlayHand(c *gin.Context) {
	rt, ok := h.loadRuntime(c)
	if !ok {
		return
	}
	state, result, err := rt.Play()
	if err != nil {
		h.handleRunError(c, err)
		return
	}
	response.Success(c, gin.H{
		"state":  state,
		"result": result,
	})
}

func (h *Handler) DiscardCards(c *gin.Context) {
	rt, ok := h.loadRuntime(c)
	if !ok {
		return
	}
	state, err := rt.Discard()
	if err != nil {
		h.handleRunError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) EnterShop(c *gin.Context) {
	rt, ok := h.loadRuntime(c)
	if !ok {
		return
	}
	state, err := rt.EnterShop()
	if err != nil {
		h.handleRunError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) BuyJoker(c *gin.Context) {
	rt, ok := h.loadRuntime(c)
	if !ok {
		return
	}
	var body jokerActionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	state, err := rt.BuyJoker(body.JokerID)
	if err != nil {
		h.handleRunError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) SellJoker(c *gin.Context) {
	rt, ok := h.loadRuntime(c)
	if !ok {
		return
	}
	var body jokerActionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	state, err := rt.SellJoker(body.JokerID)
	if err != nil {
		h.handleRunError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) RerollShop(c *gin.Context) {
	rt, ok := h.loadRuntime(c)
	if !ok {
		return
	}
	state, err := rt.Reroll()
	if err != nil {
		h.handleRunError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) NextRound(c *gin.Context) {
	rt, ok := h.loadRuntime(c)
	if !ok {
		return
	}
	state, err := rt.NextRound()
	if err != nil {
		h.handleRunError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *Handler) GetAdvice(c *gin.Context) {
	rt, ok := h.loadRuntime(c)
	if !ok {
		return
	}

	lang := c.Query("lang")
	snapshot := rt.Snapshot()
	advice := h.services.Advisor.Advise(c.Request.Context(), &snapshot, lang)
	response.Success(c, gin.H{"advice": advice})
}

func (h *Handler) Leaderboard(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.services.Run.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"entries": entries})
}

func (h *Handler) loadRuntime(c *gin.Context) (*runSvc.Runtime, bool) {
	playerID, ok := getPlayerID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	rt, err := h.services.Run.GetRuntime(c.Param("runId"), playerID)
	if err != nil {
		switch {
		case errors.Is(err, appErr.ErrRunNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, appErr.ErrRunAccessDenied):
			response.Error(c, http.StatusForbidden, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return rt, true
}

// handleRunError maps engine rejections onto HTTP statuses. Rule violations
// leave the run untouched, so they come back as conflicts rather than
// server faults.
func (h *Handler) handleRunError(c *gin.Context, err error) {
	switch err {
	case appErr.ErrNotPlayingPhase, appErr.ErrNotShopPhase, appErr.ErrNotWonPhase,
		appErr.ErrNothingSelected, appErr.ErrNoHandsLeft, appErr.ErrNoDiscardsLeft,
		appErr.ErrSelectionLimit, appErr.ErrMustPlayFive, appErr.ErrInsufficientFunds,
		appErr.ErrJokerSlotsFull, appErr.ErrRunFinished:
		response.Reject(c, err.Error())
	case appErr.ErrCardNotInHand, appErr.ErrJokerNotOffered, appErr.ErrJokerNotOwned:
		response.Error(c, http.StatusBadRequest, err.Error())
	case appErr.ErrRunNotFound:
		response.Error(c, http.StatusNotFound, err.Error())
	case appErr.ErrRunAccessDenied:
		response.Error(c, http.StatusForbidden, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}

func getPlayerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(middleware.ContextPlayerIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
