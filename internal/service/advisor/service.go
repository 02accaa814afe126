package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jester-service/internal/config"
	"jester-service/internal/engine"
	"jester-service/internal/service/locale"
	"jester-service/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second
	adviceCacheTTL = 30 * time.Second
)

// Service asks an LLM endpoint for in-character strategic advice about a
// run. It is strictly advisory: every failure mode degrades to a canned
// line and nothing here ever touches game state.
type Service struct {
	rdb    *redis.Client
	loc    *locale.Service
	client *http.Client
}

func NewService(rdb *redis.Client, loc *locale.Service) *Service {
	timeout := defaultTimeout
	if conf := config.GlobalConfig.Advisor; conf.Timeout > 0 {
		timeout = time.Duration(conf.Timeout) * time.Second
	}
	return &Service{
		rdb:    rdb,
		loc:    loc,
		client: &http.Client{Timeout: timeout},
	}
}

// Advise summarizes the run and requests up to two sentences of advice.
func (s *Service) Advise(ctx context.Context, run *engine.Run, lang string) string {
	lang = locale.Normalize(lang)
	conf := config.GlobalConfig.Advisor
	if conf.APIKey == "" || conf.Endpoint == "" {
		return s.loc.Text("advisor.noKey", lang)
	}

	cacheKey := s.cacheKey(run, lang)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			return cached
		}
	}

	advice, err := s.request(ctx, conf, s.buildPrompt(run, lang))
	if err != nil {
		logger.Log.Warn("advisor request failed", zap.Error(err))
		return s.loc.Text("advisor.error", lang)
	}
	if advice == "" {
		return s.loc.Text("advisor.silent", lang)
	}

	if s.rdb != nil {
		s.rdb.Set(ctx, cacheKey, advice, adviceCacheTTL)
	}
	return advice
}

// cacheKey includes the classified selection so changing the selected cards
// never replays advice computed for a different hand.
func (s *Service) cacheKey(run *engine.Run, lang string) string {
	selectedType, _ := engine.Evaluate(run.SelectedCards())
	return fmt.Sprintf("advisor:%s:%d:%d:%d:%s", lang, run.Round, run.Score, len(run.Hand), selectedType)
}

func (s *Service) buildPrompt(run *engine.Run, lang string) string {
	cards := make([]string, 0, len(run.Hand))
	for _, c := range run.Hand {
		cards = append(cards, string(c.Rank)+string(c.Suit[0]))
	}
	jokers := make([]string, 0, len(run.Jokers))
	for _, j := range run.Jokers {
		jokers = append(jokers, s.loc.Text(j.NameKey(), lang))
	}
	selectedType, _ := engine.Evaluate(run.SelectedCards())
	handName := s.loc.Text(selectedType.LocaleKey(), lang)

	if lang == locale.LangZH {
		return fmt.Sprintf(`你是一个肉鸽扑克游戏中的"弄臣"。
分析当前游戏状态，并给出简短、机智且具有战略意义的建议（最多2句话）。
请用中文回答。

当前回合: %d
金钱: $%d
目标分数: %d
当前分数: %d
剩余出手: %d
剩余弃牌: %d

激活的小丑牌: %s
手牌: %s

用户当前选中的牌组成了: %s。

他们应该出牌吗？还是弃牌？或者寻找特定的牌型（同花、顺子）？
语气要有点讽刺，但要乐于助人。`,
			run.Round, run.Money, run.TargetScore, run.Score,
			run.HandsLeft, run.DiscardsLeft,
			strings.Join(jokers, ", "), strings.Join(cards, ", "), handName)
	}

	return fmt.Sprintf(`You are the Jester in a roguelike poker game.
Analyze the current game state and give brief, witty, strategic advice (max 2 sentences).

Current Round: %d
Money: $%d
Target Score: %d
Current Score: %d
Hands Left: %d
Discards Left: %d

Jokers Active: %s
Cards in Hand: %s

The user currently has selected cards forming a: %s.

Should they play this? Discard? Look for a specific hand (Flush, Straight)?
Be sarcastic but helpful.`,
		run.Round, run.Money, run.TargetScore, run.Score,
		run.HandsLeft, run.DiscardsLeft,
		strings.Join(jokers, ", "), strings.Join(cards, ", "), handName)
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *Service) request(ctx context.Context, conf config.AdvisorConfig, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    conf.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, conf.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+conf.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advisor endpoint returned %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
