package thanks

import (
	"strings"
	"time"
)

// Period は期間セレクタの閉じた選択肢です。
type Period string

const (
	PeriodAll    Period = "all"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"
)

// ParsePeriod は文字列を Period に変換します。未知の値はエラーです。
func ParsePeriod(raw string) (Period, error) {
	switch Period(strings.TrimSpace(raw)) {
	case PeriodAll, "":
		return PeriodAll, nil
	case PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	case PeriodYear:
		return PeriodYear, nil
	case PeriodCustom:
		return PeriodCustom, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// Filter は期間による絞り込みと「コメント付きのみ」修飾子をまとめます。
// StartDate / EndDate は Period が PeriodCustom のときのみ参照され、
// YYYY-MM-DD 形式の両端を含む範囲です (ISO 日付は辞書順比較が時系列比較と
// 一致します)。
type Filter struct {
	Period          Period
	StartDate       string
	EndDate         string
	WithCommentOnly bool
}

// Validate はフィルタ自体の整合性を検査します。ゼロ値の Period は
// ParsePeriod("") と同様に全期間として扱います。カスタム期間で片側の境界
// のみが指定されている組み合わせは不正です (両方未指定は全期間扱い)。
func (f Filter) Validate() error {
	switch f.Period {
	case PeriodAll, PeriodWeek, PeriodMonth, PeriodYear, "":
		return nil
	case PeriodCustom:
		start := strings.TrimSpace(f.StartDate)
		end := strings.TrimSpace(f.EndDate)
		if (start == "") != (end == "") {
			return ErrInvalidDateRange
		}
		return nil
	default:
		return ErrInvalidPeriod
	}
}

// Apply は now を基準に、フィルタに合致するイベントだけを入力順のまま返します。
func (f Filter) Apply(events []*Thanks, now time.Time) []*Thanks {
	filtered := make([]*Thanks, 0, len(events))
	for _, t := range events {
		if f.Matches(t, now) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Matches は単一イベントが期間内かを判定します。
func (f Filter) Matches(t *Thanks, now time.Time) bool {
	if f.WithCommentOnly && strings.TrimSpace(t.Message) == "" {
		return false
	}

	switch f.Period {
	case PeriodWeek:
		// カレンダー週ではなく、単純に now から 7×24 時間さかのぼる。
		day := dateOnly(t.CreatedAt)
		return !day.Before(now.Add(-7 * 24 * time.Hour))
	case PeriodMonth:
		return t.CreatedAt.Year() == now.Year() && t.CreatedAt.Month() == now.Month()
	case PeriodYear:
		return t.CreatedAt.Year() == now.Year()
	case PeriodCustom:
		start := strings.TrimSpace(f.StartDate)
		end := strings.TrimSpace(f.EndDate)
		if start == "" && end == "" {
			return true
		}
		if start == "" || end == "" {
			// 片側のみの指定は全件一致に化けさせない。
			return false
		}
		date := t.Date()
		return date >= start && date <= end
	default:
		return true
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
