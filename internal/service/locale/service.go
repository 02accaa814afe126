package locale

import "strings"

const (
	LangEN = "en"
	LangZH = "zh"
)

// Service resolves display strings for the two supported languages. The
// tables are compiled in; unknown keys fall back to English and finally to
// the key itself so a missing entry never breaks a response.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Normalize maps arbitrary client locale tags onto a supported language.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if strings.HasPrefix(lang, LangZH) {
		return LangZH
	}
	return LangEN
}

func (s *Service) Text(key, lang string) string {
	if Normalize(lang) == LangZH {
		if v, ok := zhText[key]; ok {
			return v
		}
	}
	if v, ok := enText[key]; ok {
		return v
	}
	return key
}

// TextFunc binds a language once so collaborators that format many strings
// do not carry the language around.
func (s *Service) TextFunc(lang string) func(key string) string {
	lang = Normalize(lang)
	return func(key string) string {
		return s.Text(key, lang)
	}
}

var enText = map[string]string{
	"ui.score":        "Score",
	"ui.targetScore":  "Target",
	"ui.ante":         "Ante",
	"ui.round":        "Round",
	"ui.hands":        "Hands",
	"ui.discards":     "Discards",
	"ui.playHand":     "PLAY HAND",
	"ui.discard":      "DISCARD",
	"ui.sort":         "Sort",
	"ui.selectCards":  "Select Cards",
	"ui.handScore":    "Hand Score!",
	"ui.wonTitle":     "Blind Defeated!",
	"ui.wonButton":    "Go to Shop",
	"ui.lostTitle":    "Game Over",
	"ui.lostDesc":     "You reached Ante",
	"ui.lostButton":   "New Run",
	"ui.askJester":    "Ask Jester",
	"ui.thinking":     "Thinking...",
	"ui.jesterSays":   "Jester:",
	"ui.chips":        "Chips",
	"ui.mult":         "Mult",
	"ui.base":         "Base",
	"ui.emptySlot":    "Slot",
	"ui.shopTitle":    "SHOP",
	"ui.reroll":       "Reroll",
	"ui.nextRound":    "Next Round",
	"ui.buy":          "BUY",
	"ui.sell":         "SELL",
	"ui.maxJokers":    "Max Jokers",
	"ui.noMoney":      "Not Enough $",
	"ui.interest":     "Interest",
	"ui.reward":       "Reward",
	"ui.bossAbility":  "Ability",
	"ui.psychicAlert": "Must play 5 cards!",

	"blind.small": "Small Blind",
	"blind.big":   "Big Blind",
	"blind.boss":  "Boss Blind",

	"hand.High Card":       "High Card",
	"hand.Pair":            "Pair",
	"hand.Two Pair":        "Two Pair",
	"hand.Three of a Kind": "Three of a Kind",
	"hand.Straight":        "Straight",
	"hand.Flush":           "Flush",
	"hand.Full House":      "Full House",
	"hand.Four of a Kind":  "Four of a Kind",
	"hand.Straight Flush":  "Straight Flush",
	"hand.Royal Flush":     "Royal Flush",

	"boss.The Wall":    "Extra large blind",
	"boss.The Psychic": "Must play 5 cards",
	"boss.The Goad":    "Spade cards are debuffed",
	"boss.The Club":    "Club cards are debuffed",
	"boss.The Window":  "Diamond cards are debuffed",
	"boss.The Head":    "Heart cards are debuffed",

	"joker.joker.name":            "Joker",
	"joker.joker.desc":            "+4 Mult",
	"joker.greedy_joker.name":     "Greedy Joker",
	"joker.greedy_joker.desc":     "Played Diamonds give +4 Mult when scored",
	"joker.lusty_joker.name":      "Lusty Joker",
	"joker.lusty_joker.desc":      "Played Hearts give +4 Mult when scored",
	"joker.wrathful_joker.name":   "Wrathful Joker",
	"joker.wrathful_joker.desc":   "Played Spades give +4 Mult when scored",
	"joker.gluttonous_joker.name": "Gluttonous Joker",
	"joker.gluttonous_joker.desc": "Played Clubs give +4 Mult when scored",
	"joker.droll_joker.name":      "Droll Joker",
	"joker.droll_joker.desc":      "+10 Mult if played hand contains a Flush",
	"joker.banner.name":           "Banner",
	"joker.banner.desc":           "+40 Chips for each remaining discard",
	"joker.half_joker.name":       "Half Joker",
	"joker.half_joker.desc":       "+20 Mult if played hand contains 3 or fewer cards",
	"joker.the_duo.name":          "The Duo",
	"joker.the_duo.desc":          "X2 Mult if played hand contains a Pair",
	"joker.even_steven.name":      "Even Steven",
	"joker.even_steven.desc":      "Played cards with even rank give +4 Mult",
	"joker.odd_todd.name":         "Odd Todd",
	"joker.odd_todd.desc":         "Played cards with odd rank give +30 Chips",
	"joker.mystic_summit.name":    "Mystic Summit",
	"joker.mystic_summit.desc":    "+15 Mult when 0 discards remaining",

	"effect.chips": "+%d Chips",
	"effect.mult":  "+%d Mult",
	"effect.xmult": "X%d Mult",

	"advisor.noKey":  "I can't see the future without an API Key!",
	"advisor.silent": "The stars are silent...",
	"advisor.error":  "My crystal ball is foggy (Network Error).",
}

var zhText = map[string]string{
	"ui.score":        "分数",
	"ui.targetScore":  "目标",
	"ui.ante":         "底注",
	"ui.round":        "回合",
	"ui.hands":        "出手",
	"ui.discards":     "弃牌",
	"ui.playHand":     "出牌",
	"ui.discard":      "弃牌",
	"ui.sort":         "排序",
	"ui.selectCards":  "选择卡牌",
	"ui.handScore":    "手牌得分！",
	"ui.wonTitle":     "盲注击败！",
	"ui.wonButton":    "前往商店",
	"ui.lostTitle":    "游戏结束",
	"ui.lostDesc":     "你到达了底注",
	"ui.lostButton":   "重新开始",
	"ui.askJester":    "问问弄臣",
	"ui.thinking":     "思考中...",
	"ui.jesterSays":   "弄臣：",
	"ui.chips":        "筹码",
	"ui.mult":         "倍率",
	"ui.base":         "基础",
	"ui.emptySlot":    "槽位",
	"ui.shopTitle":    "商店",
	"ui.reroll":       "刷新",
	"ui.nextRound":    "下一回合",
	"ui.buy":          "购买",
	"ui.sell":         "出售",
	"ui.maxJokers":    "小丑牌已满",
	"ui.noMoney":      "余额不足",
	"ui.interest":     "利息",
	"ui.reward":       "奖励",
	"ui.bossAbility":  "能力",
	"ui.psychicAlert": "必须打出5张牌！",

	"blind.small": "小盲注",
	"blind.big":   "大盲注",
	"blind.boss":  "BOSS 盲注",

	"hand.High Card":       "高牌",
	"hand.Pair":            "对子",
	"hand.Two Pair":        "两对",
	"hand.Three of a Kind": "三条",
	"hand.Straight":        "顺子",
	"hand.Flush":           "同花",
	"hand.Full House":      "葫芦",
	"hand.Four of a Kind":  "四条",
	"hand.Straight Flush":  "同花顺",
	"hand.Royal Flush":     "皇家同花顺",

	"boss.The Wall":    "超大盲注 (目标分数x2)",
	"boss.The Psychic": "必须打出5张牌",
	"boss.The Goad":    "黑桃牌被削弱",
	"boss.The Club":    "梅花牌被削弱",
	"boss.The Window":  "方块牌被削弱",
	"boss.The Head":    "红桃牌被削弱",

	"joker.joker.name":            "小丑",
	"joker.joker.desc":            "+4 倍率",
	"joker.greedy_joker.name":     "贪婪小丑",
	"joker.greedy_joker.desc":     "打出的方块牌计分时 +4 倍率",
	"joker.lusty_joker.name":      "色欲小丑",
	"joker.lusty_joker.desc":      "打出的红桃牌计分时 +4 倍率",
	"joker.wrathful_joker.name":   "暴怒小丑",
	"joker.wrathful_joker.desc":   "打出的黑桃牌计分时 +4 倍率",
	"joker.gluttonous_joker.name": "暴食小丑",
	"joker.gluttonous_joker.desc": "打出的梅花牌计分时 +4 倍率",
	"joker.droll_joker.name":      "滑稽小丑",
	"joker.droll_joker.desc":      "如果打出的牌包含同花，+10 倍率",
	"joker.banner.name":           "横幅",
	"joker.banner.desc":           "每次剩余弃牌次数提供 +40 筹码",
	"joker.half_joker.name":       "半个小丑",
	"joker.half_joker.desc":       "如果打出的手牌少于或等于3张，+20 倍率",
	"joker.the_duo.name":          "二重奏",
	"joker.the_duo.desc":          "如果打出的牌包含对子，X2 倍率",
	"joker.even_steven.name":      "偶数史蒂文",
	"joker.even_steven.desc":      "打出的偶数点数牌提供 +4 倍率",
	"joker.odd_todd.name":         "奇数托德",
	"joker.odd_todd.desc":         "打出的奇数点数牌提供 +30 筹码",
	"joker.mystic_summit.name":    "神秘之巅",
	"joker.mystic_summit.desc":    "当剩余弃牌次数为0时，+15 倍率",

	"effect.chips": "+%d 筹码",
	"effect.mult":  "+%d 倍率",
	"effect.xmult": "X%d 倍率",

	"advisor.noKey":  "没有 API 密钥，我无法预知未来！",
	"advisor.silent": "群星沉默...",
	"advisor.error":  "我的水晶球起雾了（网络错误）。",
}
