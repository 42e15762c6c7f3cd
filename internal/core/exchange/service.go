package exchange

import (
	"context"
	"io"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/onetenth/thanks-point/internal/core/employee"
	"github.com/onetenth/thanks-point/internal/core/thanks"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Service はサンキュー履歴の CSV エクスポート/インポートをまとめます。
type Service struct {
	employees employee.Repository
	events    thanks.Repository
	clock     Clock
}

// UseCase は交換フォーマットユースケースの公開インターフェースです。
type UseCase interface {
	Export(ctx context.Context) (*ExportResult, error)
	Import(ctx context.Context, r io.Reader) (*ImportSummary, error)
}

// NewService は Service を生成します。
func NewService(employees employee.Repository, events thanks.Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{employees: employees, events: events, clock: clock}
}

// ExportResult はエクスポート結果です。Content は UTF-8 (BOM 付き) です。
type ExportResult struct {
	Filename string
	Content  []byte
}

// ImportSummary はインポートの成否集計です。
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Export は全サンキュー履歴をストア順のまま CSV へ直列化します。
func (s *Service) Export(ctx context.Context) (*ExportResult, error) {
	events, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.employees.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		Filename: Filename(s.clock.Now()),
		Content:  marshalCSV(events, employees),
	}, nil
}

// Import は CSV を読み取り、解決できた行だけを 1 行ずつ順番にストアへ
// 挿入します。送信者と受信者の両方が解決できない行、フィールド不足の行、
// 日付が解釈できない行、挿入に失敗した行はスキップとして数え、処理は
// 中断しません。部分的な取り込みは許容され、集計で正確に報告されます。
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	decoded, err := io.ReadAll(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0)
	for _, line := range strings.Split(string(decoded), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, ErrNoData
	}

	employees, err := s.employees.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byEmail := make(map[string]*employee.Employee, len(employees))
	byName := make(map[string]*employee.Employee, len(employees))
	for _, e := range employees {
		if _, ok := byEmail[e.Email]; !ok {
			byEmail[e.Email] = e
		}
		if _, ok := byName[e.Name]; !ok {
			byName[e.Name] = e
		}
	}

	summary := &ImportSummary{}

	// 1 行目はヘッダとして内容を見ずに読み飛ばす。
	for _, line := range lines[1:] {
		fields := splitFields(line)
		if len(fields) < minRowFields {
			summary.Skipped++
			continue
		}

		date := fields[0]
		fromEmp := resolve(byEmail, byName, fields[2], fields[1])
		toEmp := resolve(byEmail, byName, fields[4], fields[3])
		if fromEmp == nil || toEmp == nil {
			summary.Skipped++
			continue
		}

		message := ""
		if len(fields) > 5 {
			message = fields[5]
		}

		var createdAt time.Time
		if date != "" {
			parsed, err := time.Parse(thanks.DateLayout, date)
			if err != nil {
				summary.Skipped++
				continue
			}
			createdAt = parsed
		}

		if _, err := s.events.Insert(ctx, &thanks.Thanks{
			FromEmployeeID: fromEmp.ID,
			ToEmployeeID:   toEmp.ID,
			Message:        message,
		}, createdAt); err != nil {
			summary.Skipped++
			continue
		}
		summary.Imported++
	}

	return summary, nil
}

// resolve はメールアドレス優先で社員を同定し、一致しない場合は名前の
// 完全一致にフォールバックします。
func resolve(byEmail, byName map[string]*employee.Employee, email, name string) *employee.Employee {
	if email != "" {
		if e, ok := byEmail[email]; ok {
			return e
		}
	}
	if e, ok := byName[name]; ok {
		return e
	}
	return nil
}
