package exchange

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/onetenth/thanks-point/internal/core/employee"
	"github.com/onetenth/thanks-point/internal/core/thanks"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeEmployeeRepo struct {
	employees []*employee.Employee
}

func (r *fakeEmployeeRepo) Create(_ context.Context, _ *employee.Employee) (*employee.Employee, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeEmployeeRepo) ListAll(_ context.Context) ([]*employee.Employee, error) {
	return r.employees, nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) FindByEmail(_ context.Context, email string) (*employee.Employee, error) {
	for _, e := range r.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) UpdatePassword(_ context.Context, _, _ string) error {
	return errors.New("not implemented")
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, _ string) error {
	return errors.New("not implemented")
}

type fakeThanksRepo struct {
	events    []*thanks.Thanks
	sequence  int
	now       time.Time
	failOnSeq int
}

func (r *fakeThanksRepo) Insert(_ context.Context, t *thanks.Thanks, createdAt time.Time) (*thanks.Thanks, error) {
	r.sequence++
	if r.failOnSeq != 0 && r.sequence == r.failOnSeq {
		return nil, errors.New("storage unavailable")
	}
	clone := *t
	clone.ID = fmt.Sprintf("thx-%d", r.sequence)
	if createdAt.IsZero() {
		clone.CreatedAt = r.now
	} else {
		clone.CreatedAt = createdAt
	}
	r.events = append([]*thanks.Thanks{&clone}, r.events...)
	result := clone
	return &result, nil
}

func (r *fakeThanksRepo) ListAll(_ context.Context) ([]*thanks.Thanks, error) {
	return r.events, nil
}

func testEmployees() []*employee.Employee {
	return []*employee.Employee{
		{ID: "a", Name: "安藤", Email: "ando@example.com"},
		{ID: "b", Name: "伴", Email: "ban@example.com"},
	}
}

func thx(id, from, to, message, date string) *thanks.Thanks {
	created, _ := time.Parse(thanks.DateLayout, date)
	return &thanks.Thanks{ID: id, FromEmployeeID: from, ToEmployeeID: to, Message: message, CreatedAt: created}
}

func TestService_Export_Format(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	events := &fakeThanksRepo{events: []*thanks.Thanks{
		thx("t1", "a", "b", "ありがとう", "2024-06-30"),
		thx("t2", "ghost", "a", "", "2024-06-29"),
	}}
	svc := NewService(&fakeEmployeeRepo{employees: testEmployees()}, events, &stubClock{now: now})

	result, err := svc.Export(context.Background())
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	if result.Filename != "thankyou_history_2024-07-01.csv" {
		t.Fatalf("unexpected filename %q", result.Filename)
	}
	if !bytes.HasPrefix(result.Content, []byte("\uFEFF")) {
		t.Fatalf("expected BOM prefix")
	}

	lines := strings.Split(strings.TrimPrefix(string(result.Content), "\uFEFF"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != `"日付","送信者名","送信者メール","受信者名","受信者メール","メッセージ"` {
		t.Fatalf("unexpected header %q", lines[0])
	}
	// 行順はストア順のまま。
	if lines[1] != `"2024-06-30","安藤","ando@example.com","伴","ban@example.com","ありがとう"` {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	// 解決できない送信者は「不明」とメール空欄で出力する。
	if lines[2] != `"2024-06-29","不明","","安藤","ando@example.com",""` {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestService_Export_EscapesEmbeddedQuotes(t *testing.T) {
	t.Parallel()

	events := &fakeThanksRepo{events: []*thanks.Thanks{
		thx("t1", "a", "b", `say "hi"`, "2024-06-30"),
	}}
	svc := NewService(&fakeEmployeeRepo{employees: testEmployees()}, events, nil)

	result, err := svc.Export(context.Background())
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if !strings.Contains(string(result.Content), `"say ""hi"""`) {
		t.Fatalf("expected doubled quotes in %q", string(result.Content))
	}
}

func TestService_Import_RoundTrip(t *testing.T) {
	t.Parallel()

	employees := testEmployees()
	source := &fakeThanksRepo{events: []*thanks.Thanks{
		thx("t1", "a", "b", "ありがとう", "2024-06-30"),
		thx("t2", "b", "a", "カンマ, 入り", "2024-06-29"),
		thx("t3", "a", "b", "", "2024-06-28"),
	}}
	exporter := NewService(&fakeEmployeeRepo{employees: employees}, source, nil)

	exported, err := exporter.Export(context.Background())
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}

	target := &fakeThanksRepo{now: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)}
	importer := NewService(&fakeEmployeeRepo{employees: employees}, target, nil)

	summary, err := importer.Import(context.Background(), bytes.NewReader(exported.Content))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if summary.Imported != 3 || summary.Skipped != 0 {
		t.Fatalf("expected 3 imported / 0 skipped, got %+v", summary)
	}

	// 挿入は新しい順に積まれるため末尾が最初の行。
	last := target.events[len(target.events)-1]
	if last.FromEmployeeID != "a" || last.ToEmployeeID != "b" || last.Message != "ありがとう" {
		t.Fatalf("unexpected imported event %+v", last)
	}
	if last.Date() != "2024-06-30" {
		t.Fatalf("expected parsed date, got %s", last.Date())
	}
	if target.events[1].Message != "カンマ, 入り" {
		t.Fatalf("comma inside quotes must survive, got %q", target.events[1].Message)
	}
}

func TestService_Import_QuoteAsymmetry(t *testing.T) {
	t.Parallel()

	// 書き込み側は引用符を二重化するが、読み取り側は引用符を状態切り替えと
	// して落とすだけで復元しない。往復すると引用符は失われる。
	csv := "\uFEFF" + `"日付","送信者名","送信者メール","受信者名","受信者メール","メッセージ"` + "\n" +
		`"2024-06-30","安藤","ando@example.com","伴","ban@example.com","say ""hi"""`

	target := &fakeThanksRepo{}
	svc := NewService(&fakeEmployeeRepo{employees: testEmployees()}, target, nil)

	summary, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if summary.Imported != 1 {
		t.Fatalf("expected 1 imported, got %+v", summary)
	}
	if got := target.events[0].Message; got != "say hi" {
		t.Fatalf("expected quotes to be dropped, got %q", got)
	}
}

func TestService_Import_SkipAccounting(t *testing.T) {
	t.Parallel()

	csv := strings.Join([]string{
		"日付,送信者名,送信者メール,受信者名,受信者メール,メッセージ",
		// 削除済み社員の残骸: メールも名前も解決できない。
		`"2024-06-30","退職者","gone@example.com","安藤","ando@example.com","届かない"`,
		// フィールド不足。
		`"2024-06-30","安藤"`,
		// 日付が解釈できない。
		`"30/06/2024","安藤","ando@example.com","伴","ban@example.com",""`,
		// メール不一致でも名前の完全一致で解決できる。
		`"2024-06-30","安藤","old-address@example.com","伴","ban@example.com","名前で解決"`,
		// 日付空欄は現在時刻を採用する。
		`"","安藤","ando@example.com","伴","ban@example.com",""`,
	}, "\n")

	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	target := &fakeThanksRepo{now: now}
	svc := NewService(&fakeEmployeeRepo{employees: testEmployees()}, target, &stubClock{now: now})

	summary, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if summary.Imported != 2 || summary.Skipped != 3 {
		t.Fatalf("expected 2 imported / 3 skipped, got %+v", summary)
	}
	if len(target.events) != 2 {
		t.Fatalf("skipped rows must not create events, got %d", len(target.events))
	}
	if !target.events[0].CreatedAt.Equal(now) {
		t.Fatalf("empty date must use store now, got %v", target.events[0].CreatedAt)
	}
}

func TestService_Import_RowFailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	csv := strings.Join([]string{
		"日付,送信者名,送信者メール,受信者名,受信者メール,メッセージ",
		`"2024-06-30","安藤","ando@example.com","伴","ban@example.com","1行目"`,
		`"2024-06-29","安藤","ando@example.com","伴","ban@example.com","2行目"`,
		`"2024-06-28","安藤","ando@example.com","伴","ban@example.com","3行目"`,
	}, "\n")

	target := &fakeThanksRepo{failOnSeq: 2}
	svc := NewService(&fakeEmployeeRepo{employees: testEmployees()}, target, nil)

	summary, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if summary.Imported != 2 || summary.Skipped != 1 {
		t.Fatalf("expected 2 imported / 1 skipped, got %+v", summary)
	}
}

func TestService_Import_NoData(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeEmployeeRepo{employees: testEmployees()}, &fakeThanksRepo{}, nil)

	if _, err := svc.Import(context.Background(), strings.NewReader("日付,送信者名\n\n  \n")); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestSplitFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line string
		want []string
	}{
		{`"a","b","c"`, []string{"a", "b", "c"}},
		{`plain,fields,here`, []string{"plain", "fields", "here"}},
		{`"with, comma","x"`, []string{"with, comma", "x"}},
		{`"doubled ""quote""",y`, []string{"doubled quote", "y"}},
		{`" padded ","z"`, []string{"padded", "z"}},
		{`only`, []string{"only"}},
	}

	for _, tc := range cases {
		got := splitFields(tc.line)
		if len(got) != len(tc.want) {
			t.Fatalf("splitFields(%q) = %v, want %v", tc.line, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("splitFields(%q)[%d] = %q, want %q", tc.line, i, got[i], tc.want[i])
			}
		}
	}
}
