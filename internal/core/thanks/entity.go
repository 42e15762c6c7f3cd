package thanks

import "time"

// DateLayout はサンキューの日付表現 (ISO 8601 の日付部分) です。
// 期間フィルタや月別グルーピングはすべてこの日付粒度で行われます。
const DateLayout = "2006-01-02"

// Thanks はサンキュー (感謝ポイント) イベントです。作成後は不変です。
type Thanks struct {
	ID             string
	FromEmployeeID string
	ToEmployeeID   string
	Message        string
	CreatedAt      time.Time
}

// Date はイベントの日付を YYYY-MM-DD 形式で返します。
func (t *Thanks) Date() string {
	return t.CreatedAt.Format(DateLayout)
}

// MonthKey はイベントの属する月を YYYY-MM 形式で返します。
func (t *Thanks) MonthKey() string {
	return t.CreatedAt.Format("2006-01")
}
