package thanks

import (
	"sort"
	"time"

	"github.com/onetenth/thanks-point/internal/core/employee"
)

// UnknownName は削除済みなどで解決できない社員の表示名です。
const UnknownName = "不明"

// chartNameRunes はグラフ軸ラベルに表示する名前の先頭文字数です。
const chartNameRunes = 4

// Direction は集計の向き (もらった / あげた) を表します。
type Direction string

const (
	DirectionReceived Direction = "received"
	DirectionGiven    Direction = "given"
)

// ParseDirection は文字列を Direction に変換します。
func ParseDirection(raw string) (Direction, error) {
	switch Direction(raw) {
	case DirectionReceived, "":
		return DirectionReceived, nil
	case DirectionGiven:
		return DirectionGiven, nil
	default:
		return "", ErrInvalidDirection
	}
}

// Detail はランキング明細の 1 件です。Counterpart は受信集計なら送信者、
// 送信集計なら受信者を指します。
type Detail struct {
	CounterpartID   string
	CounterpartName string
	Date            string
	Message         string
}

// Ranked は 1 社員分の集計結果です。
type Ranked struct {
	Employee *employee.Employee
	Points   int
	Details  []Detail
}

// Rank はイベント集合を社員ごとのポイントと明細に折り畳み、ポイント降順の
// ランキングを返します。イベントが 1 件もない社員も 0 ポイントで含まれます。
// 同点の社員は入力 (社員一覧) の順序を保ちます。意図的に第二ソートキーは
// 持ちません。明細は日付降順で、同日付は折り畳み順を保ちます。
func Rank(events []*Thanks, employees []*employee.Employee, direction Direction) []*Ranked {
	points := make(map[string]int, len(employees))
	details := make(map[string][]Detail, len(employees))
	names := nameIndex(employees)

	for _, e := range employees {
		points[e.ID] = 0
		details[e.ID] = nil
	}

	for _, t := range events {
		subject := t.ToEmployeeID
		counterpart := t.FromEmployeeID
		if direction == DirectionGiven {
			subject = t.FromEmployeeID
			counterpart = t.ToEmployeeID
		}
		if _, known := points[subject]; !known {
			continue
		}
		points[subject]++
		details[subject] = append(details[subject], Detail{
			CounterpartID:   counterpart,
			CounterpartName: lookupName(names, counterpart),
			Date:            t.Date(),
			Message:         t.Message,
		})
	}

	ranking := make([]*Ranked, 0, len(employees))
	for _, e := range employees {
		list := details[e.ID]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Date > list[j].Date
		})
		ranking = append(ranking, &Ranked{Employee: e, Points: points[e.ID], Details: list})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Points > ranking[j].Points
	})

	return ranking
}

// ChartEntry はグラフ 1 本分の値です。Name は表示用に先頭 4 文字へ
// 切り詰めた名前、FullName は元の名前です。
type ChartEntry struct {
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	Points   int    `json:"points"`
}

// MonthlyChart は指定月 (YYYY-MM) に受け取ったポイントを社員ごとに数え、
// ポイント降順で返します。withCommentOnly の場合はコメント付きイベントのみを
// 数えます。
func MonthlyChart(events []*Thanks, employees []*employee.Employee, monthKey string, withCommentOnly bool) ([]ChartEntry, error) {
	month, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return nil, ErrInvalidMonthKey
	}

	// PeriodMonth の判定を対象月の先頭時刻を基準にそのまま流用する。
	filter := Filter{Period: PeriodMonth, WithCommentOnly: withCommentOnly}
	return chart(filter.Apply(events, month), employees), nil
}

// PeriodChart は任意の期間フィルタで受け取ったポイントを社員ごとに数えます。
func PeriodChart(events []*Thanks, employees []*employee.Employee, filter Filter, now time.Time) []ChartEntry {
	return chart(filter.Apply(events, now), employees)
}

func chart(events []*Thanks, employees []*employee.Employee) []ChartEntry {
	points := make(map[string]int, len(employees))
	for _, e := range employees {
		points[e.ID] = 0
	}
	for _, t := range events {
		if _, known := points[t.ToEmployeeID]; known {
			points[t.ToEmployeeID]++
		}
	}

	entries := make([]ChartEntry, 0, len(employees))
	for _, e := range employees {
		entries = append(entries, ChartEntry{
			Name:     truncateRunes(e.Name, chartNameRunes),
			FullName: e.Name,
			Points:   points[e.ID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})

	return entries
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func nameIndex(employees []*employee.Employee) map[string]string {
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	return names
}

func lookupName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return UnknownName
}
