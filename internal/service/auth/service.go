package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jester-service/internal/config"
	"jester-service/internal/model"
	pkgAuth "jester-service/pkg/auth"
	appErr "jester-service/pkg/errors"
	"jester-service/pkg/logger"
	"jester-service/pkg/utils/random"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	rdb      *redis.Client
	claimTTL time.Duration
}

type LoginResult struct {
	Token    string       `json:"token"`
	ExpireAt time.Time    `json:"expireAt"`
	Player   model.Player `json:"player"`
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		db:       db,
		rdb:      rdb,
		claimTTL: 10 * time.Second,
	}
}

// GuestLogin signs a device in, creating the player row on first contact.
// A short redis claim on the device id serializes concurrent first logins
// from the same device.
func (s *Service) GuestLogin(ctx context.Context, deviceID, nickname, lang string) (*LoginResult, error) {
	deviceID = strings.TrimSpace(deviceID)
	if !isValidDeviceID(deviceID) {
		return nil, appErr.ErrInvalidDeviceID
	}

	if s.rdb != nil {
		claimed, err := s.rdb.SetNX(ctx, buildDeviceClaimKey(deviceID), "1", s.claimTTL).Result()
		if err == nil && claimed {
			defer s.rdb.Del(context.Background(), buildDeviceClaimKey(deviceID))
		}
	}

	var player model.Player
	err := s.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&player).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		player, err = s.createPlayer(ctx, deviceID, nickname, lang)
		if err != nil {
			return nil, err
		}
	}

	if strings.EqualFold(player.Status, "banned") {
		return nil, appErr.ErrPlayerBanned
	}

	token, err := pkgAuth.GenerateToken(player.ID)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("guest login",
		zap.Int64("playerID", player.ID),
		zap.String("deviceID", maskDeviceID(deviceID)),
	)

	expireAt := time.Now().Add(time.Duration(config.GlobalConfig.JWT.Expire) * time.Hour)
	return &LoginResult{
		Token:    token,
		ExpireAt: expireAt,
		Player:   player,
	}, nil
}

func (s *Service) GetPlayer(ctx context.Context, playerID int64) (*model.Player, error) {
	var player model.Player
	if err := s.db.WithContext(ctx).First(&player, playerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, appErr.ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

type UpdateProfileRequest struct {
	Nickname *string
	Locale   *string
}

func (s *Service) UpdateProfile(ctx context.Context, playerID int64, req UpdateProfileRequest) (*model.Player, error) {
	updates := map[string]interface{}{}
	if req.Nickname != nil {
		updates["nickname"] = strings.TrimSpace(*req.Nickname)
	}
	if req.Locale != nil {
		updates["locale"] = strings.TrimSpace(*req.Locale)
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&model.Player{}).Where("id = ?", playerID).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, appErr.ErrPlayerNotFound
		}
	}
	return s.GetPlayer(ctx, playerID)
}

func (s *Service) createPlayer(ctx context.Context, deviceID, nickname, lang string) (model.Player, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		nickname = "Jester-" + random.Code(6)
	}
	if strings.TrimSpace(lang) == "" {
		lang = "en"
	}
	player := model.Player{
		DeviceID: deviceID,
		Nickname: nickname,
		Locale:   lang,
		Status:   "normal",
	}
	if err := s.db.WithContext(ctx).Create(&player).Error; err != nil {
		return model.Player{}, err
	}
	return player, nil
}

func isValidDeviceID(deviceID string) bool {
	return len(deviceID) >= 8 && len(deviceID) <= 128
}

func maskDeviceID(deviceID string) string {
	if len(deviceID) < 8 {
		return deviceID
	}
	return deviceID[:4] + "****" + deviceID[len(deviceID)-4:]
}

func buildDeviceClaimKey(deviceID string) string {
	return fmt.Sprintf("auth:device:%s", deviceID)
}
