package run

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"jester-service/internal/config"
	"jester-service/internal/engine"
	"jester-service/internal/model"
	"jester-service/internal/service/locale"
	appErr "jester-service/pkg/errors"
	"jester-service/pkg/logger"
	"jester-service/pkg/utils/random"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const leaderboardKey = "leaderboard:best_ante"

// Service owns every live run in memory and archives them when they end.
// One active run per player; starting a new one abandons the previous.
type Service struct {
	db  *gorm.DB
	rdb *redis.Client
	loc *locale.Service

	runtimes   sync.Map // runID -> *Runtime
	activeRuns sync.Map // playerID -> runID
}

func NewService(db *gorm.DB, rdb *redis.Client, loc *locale.Service) *Service {
	return &Service{db: db, rdb: rdb, loc: loc}
}

// CreateRun starts a fresh seeded run for the player. A previous unfinished
// run is archived as abandoned first.
func (s *Service) CreateRun(ctx context.Context, playerID int64, lang string) (*Runtime, error) {
	if prevID, ok := s.activeRuns.Load(playerID); ok {
		if v, ok := s.runtimes.Load(prevID); ok {
			prev := v.(*Runtime)
			s.archiveRun(prev, "abandoned")
			s.runtimes.Delete(prevID)
		}
	}

	conf := config.GlobalConfig.Game
	seed := random.Seed()
	run := engine.NewRun(seed, engine.Options{
		Hands:    conf.HandsPerBlind,
		Discards: conf.DiscardsPerBlind,
		Money:    conf.StartingMoney,
	})

	runID := uuid.NewString()
	rt := newRuntime(runID, playerID, run,
		s.loc.TextFunc(lang), s.recordHand, s.handleRuntimeFinish)

	s.runtimes.Store(runID, rt)
	s.activeRuns.Store(playerID, runID)

	logger.Log.Info("run created",
		zap.String("runID", runID),
		zap.Int64("playerID", playerID),
		zap.Int64("seed", seed),
	)
	return rt, nil
}

// GetRuntime loads a live run and verifies the caller owns it.
func (s *Service) GetRuntime(runID string, playerID int64) (*Runtime, error) {
	v, ok := s.runtimes.Load(runID)
	if !ok {
		return nil, appErr.ErrRunNotFound
	}
	rt := v.(*Runtime)
	if err := rt.CheckOwner(playerID); err != nil {
		return nil, err
	}
	return rt, nil
}

// ActiveRun returns the player's current run, if any.
func (s *Service) ActiveRun(playerID int64) (*Runtime, bool) {
	runID, ok := s.activeRuns.Load(playerID)
	if !ok {
		return nil, false
	}
	v, ok := s.runtimes.Load(runID)
	if !ok {
		return nil, false
	}
	return v.(*Runtime), true
}

// recordHand appends a HandLog row for every scored play.
func (s *Service) recordHand(rt *Runtime, result engine.ScoreResult) {
	snapshot := rt.Snapshot()
	traceJSON, err := json.Marshal(result.Trace)
	if err != nil {
		logger.Log.Error("failed to marshal trace", zap.Error(err))
		traceJSON = []byte("[]")
	}

	log := model.HandLog{
		RunID:     rt.RunID(),
		PlayerID:  rt.PlayerID(),
		Round:     snapshot.Round,
		Ante:      snapshot.Ante,
		HandType:  string(result.HandType),
		Score:     result.Total,
		TraceJSON: datatypes.JSON(traceJSON),
	}
	if err := s.db.Create(&log).Error; err != nil {
		logger.Log.Error("failed to persist hand log",
			zap.Error(err), zap.String("runID", rt.RunID()))
	}
}

// handleRuntimeFinish archives a lost run and drops it from memory.
func (s *Service) handleRuntimeFinish(rt *Runtime) {
	s.archiveRun(rt, "lost")
	s.runtimes.Delete(rt.RunID())
	s.activeRuns.CompareAndDelete(rt.PlayerID(), rt.RunID())
}

func (s *Service) archiveRun(rt *Runtime, outcome string) {
	snapshot := rt.Snapshot()
	ctx := context.Background()

	jokersJSON, err := json.Marshal(snapshot.Jokers)
	if err != nil {
		jokersJSON = []byte("[]")
	}

	now := time.Now()
	archive := model.RunArchive{
		RunID:      rt.RunID(),
		PlayerID:   rt.PlayerID(),
		Outcome:    outcome,
		FinalAnte:  snapshot.Ante,
		FinalRound: snapshot.Round,
		FinalMoney: snapshot.Money,
		BestHand:   string(snapshot.LastHandType),
		BestScore:  snapshot.LastHandScore,
		JokersJSON: datatypes.JSON(jokersJSON),
		EndedAt:    &now,
	}
	if err := s.db.Create(&archive).Error; err != nil {
		logger.Log.Error("failed to archive run",
			zap.Error(err), zap.String("runID", rt.RunID()))
		return
	}

	err = s.db.Model(&model.Player{}).
		Where("id = ? AND best_ante < ?", rt.PlayerID(), snapshot.Ante).
		Update("best_ante", snapshot.Ante).Error
	if err != nil {
		logger.Log.Error("failed to update best ante", zap.Error(err))
	}
	if err := s.db.Model(&model.Player{}).
		Where("id = ?", rt.PlayerID()).
		Update("runs_total", gorm.Expr("runs_total + 1")).Error; err != nil {
		logger.Log.Error("failed to bump run count", zap.Error(err))
	}

	if s.rdb != nil {
		if err := s.rdb.ZAddGT(ctx, leaderboardKey, redis.Z{
			Score:  float64(snapshot.Ante),
			Member: rt.PlayerID(),
		}).Err(); err != nil {
			logger.Log.Warn("failed to update leaderboard", zap.Error(err))
		}
	}

	logger.Log.Info("run archived",
		zap.String("runID", rt.RunID()),
		zap.String("outcome", outcome),
		zap.Int("ante", snapshot.Ante),
	)
}

type LeaderboardEntry struct {
	PlayerID int64  `json:"playerId"`
	Nickname string `json:"nickname"`
	BestAnte int    `json:"bestAnte"`
}

// Leaderboard reads the top entries from redis and resolves nicknames from
// the database. Falls back to the database alone when redis is empty.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	if s.rdb != nil {
		zs, err := s.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
		if err == nil && len(zs) > 0 {
			return s.resolveEntries(ctx, zs)
		}
	}

	var players []model.Player
	err := s.db.WithContext(ctx).
		Where("best_ante > 0").
		Order("best_ante DESC").
		Limit(limit).
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, LeaderboardEntry{
			PlayerID: p.ID,
			Nickname: p.Nickname,
			BestAnte: p.BestAnte,
		})
	}
	return entries, nil
}

func toPlayerID(v interface{}) (int64, error) {
	switch val := v.(type) {
	case string:
		return strconv.ParseInt(val, 10, 64)
	case int64:
		return val, nil
	default:
		return 0, fmt.Errorf("unsupported member type %T", v)
	}
}

func (s *Service) resolveEntries(ctx context.Context, zs []redis.Z) ([]LeaderboardEntry, error) {
	ids := make([]int64, 0, len(zs))
	scores := make(map[int64]int, len(zs))
	for _, z := range zs {
		id, err := toPlayerID(z.Member)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		scores[id] = int(z.Score)
	}

	var players []model.Player
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&players).Error; err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Nickname
	}

	entries := make([]LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, LeaderboardEntry{
			PlayerID: id,
			Nickname: names[id],
			BestAnte: scores[id],
		})
	}
	return entries, nil
}
