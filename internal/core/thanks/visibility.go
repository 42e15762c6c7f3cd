package thanks

import (
	"sort"
	"time"

	"github.com/onetenth/thanks-point/internal/core/employee"
)

// disclosureHour は月次開示の解禁時刻 (その月の末日 18 時) です。
const disclosureHour = 18

// VisibleFrom は monthKey (YYYY-MM) の受信分が閲覧可能になる時刻を返します。
// 末日は翌月 0 日として求めるため、月の長さや閏年を自然に扱えます。
func VisibleFrom(monthKey string, loc *time.Location) (time.Time, error) {
	month, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return time.Time{}, ErrInvalidMonthKey
	}
	return time.Date(month.Year(), month.Month()+1, 0, disclosureHour, 0, 0, 0, loc), nil
}

// IsMonthVisible は now 時点で monthKey の受信分を閲覧できるかを返します。
// 不正な monthKey は閲覧不可として扱います。
func IsMonthVisible(monthKey string, now time.Time) bool {
	from, err := VisibleFrom(monthKey, now.Location())
	if err != nil {
		return false
	}
	return !now.Before(from)
}

// ReceivedItem は受信明細の 1 件です。
type ReceivedItem struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}

// SenderGroup は同一送信者からの受信明細のまとまりです。
type SenderGroup struct {
	SenderName string         `json:"senderName"`
	Items      []ReceivedItem `json:"items"`
}

// MonthGroup は 1 か月分の受信明細です。Total は送信者別件数の合計です。
type MonthGroup struct {
	Month   string        `json:"month"`
	Total   int           `json:"total"`
	Senders []SenderGroup `json:"senders"`
}

// ReceivedByMonth は recipientID 宛のイベントを月ごと、月内では送信者ごとに
// まとめます。開示時刻前の月は結果から完全に除外されます。月は新しい順、
// 送信者は初出順です。
func ReceivedByMonth(events []*Thanks, employees []*employee.Employee, recipientID string, now time.Time) []MonthGroup {
	names := nameIndex(employees)

	type senderBucket struct {
		order []string
		items map[string][]ReceivedItem
	}
	months := make(map[string]*senderBucket)
	var monthOrder []string

	for _, t := range events {
		if t.ToEmployeeID != recipientID {
			continue
		}
		key := t.MonthKey()
		bucket, ok := months[key]
		if !ok {
			bucket = &senderBucket{items: make(map[string][]ReceivedItem)}
			months[key] = bucket
			monthOrder = append(monthOrder, key)
		}
		sender := lookupName(names, t.FromEmployeeID)
		if _, seen := bucket.items[sender]; !seen {
			bucket.order = append(bucket.order, sender)
		}
		bucket.items[sender] = append(bucket.items[sender], ReceivedItem{Date: t.Date(), Message: t.Message})
	}

	sort.Sort(sort.Reverse(sort.StringSlice(monthOrder)))

	groups := make([]MonthGroup, 0, len(monthOrder))
	for _, key := range monthOrder {
		if !IsMonthVisible(key, now) {
			continue
		}
		bucket := months[key]
		senders := make([]SenderGroup, 0, len(bucket.order))
		total := 0
		for _, sender := range bucket.order {
			items := bucket.items[sender]
			total += len(items)
			senders = append(senders, SenderGroup{SenderName: sender, Items: items})
		}
		groups = append(groups, MonthGroup{Month: key, Total: total, Senders: senders})
	}

	return groups
}
