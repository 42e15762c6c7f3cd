package exchange

import (
	"strings"
	"time"

	"github.com/onetenth/thanks-point/internal/core/employee"
	"github.com/onetenth/thanks-point/internal/core/thanks"
)

// csvHeader はエクスポートの 1 行目です。インポート時は内容を検証せず
// 読み飛ばすだけなので、列ラベルのローカライズ差異は許容されます。
const csvHeader = "日付,送信者名,送信者メール,受信者名,受信者メール,メッセージ"

// utf8BOM は非 ASCII を扱う表計算ソフト向けに先頭へ付与するバイト順マークです。
const utf8BOM = "\uFEFF"

// minRowFields は行を受理するために必要な最小フィールド数です。
// 6 列目 (メッセージ) は省略可能で空文字として扱います。
const minRowFields = 5

// Filename はエクスポート時のファイル名規約を返します。
func Filename(now time.Time) string {
	return "thankyou_history_" + now.Format(thanks.DateLayout) + ".csv"
}

// marshalCSV はイベント一覧を交換フォーマットへ直列化します。
// 行順は入力のイベント順のままで、並べ替えは行いません。解決できない
// 社員 ID は名前を「不明」、メールを空欄として出力します。
func marshalCSV(events []*thanks.Thanks, employees []*employee.Employee) []byte {
	index := make(map[string]*employee.Employee, len(employees))
	for _, e := range employees {
		index[e.ID] = e
	}

	lines := make([]string, 0, len(events)+1)
	lines = append(lines, quoteRow(strings.Split(csvHeader, ",")))

	for _, t := range events {
		fromName, fromEmail := resolveColumns(index, t.FromEmployeeID)
		toName, toEmail := resolveColumns(index, t.ToEmployeeID)
		lines = append(lines, quoteRow([]string{
			t.Date(), fromName, fromEmail, toName, toEmail, t.Message,
		}))
	}

	return []byte(utf8BOM + strings.Join(lines, "\n"))
}

func resolveColumns(index map[string]*employee.Employee, id string) (name, email string) {
	if e, ok := index[id]; ok {
		return e.Name, e.Email
	}
	return thanks.UnknownName, ""
}

// quoteRow は全フィールドを二重引用符で囲み、埋め込まれた引用符は
// 二重化してエスケープします。
func quoteRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// splitFields は 1 行をカンマで分割します。引用符は「内側/外側」を切り替える
// だけの 2 状態スキャナで、引用符の内側のカンマは区切りとして扱いません。
// 引用符そのものは出力に残らず、二重化された引用符の復元も行いません。
// 書き込み側のエスケープと非対称ですが、既存データとの互換のため意図的に
// この挙動を保っています。各フィールドは前後の空白を取り除いて返します。
func splitFields(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}
