package thanks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/onetenth/thanks-point/internal/core/employee"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeThanksRepo struct {
	events   []*Thanks
	sequence int
	now      time.Time
}

func (r *fakeThanksRepo) Insert(_ context.Context, t *Thanks, createdAt time.Time) (*Thanks, error) {
	clone := *t
	r.sequence++
	clone.ID = fmt.Sprintf("thx-%d", r.sequence)
	if createdAt.IsZero() {
		clone.CreatedAt = r.now
	} else {
		clone.CreatedAt = createdAt
	}
	// 新しい順を保つため先頭に積む。
	r.events = append([]*Thanks{&clone}, r.events...)
	result := clone
	return &result, nil
}

func (r *fakeThanksRepo) ListAll(_ context.Context) ([]*Thanks, error) {
	list := make([]*Thanks, 0, len(r.events))
	for _, e := range r.events {
		clone := *e
		list = append(list, &clone)
	}
	return list, nil
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

func newTestService(now time.Time, employees []*employee.Employee) (*Service, *fakeThanksRepo) {
	repo := &fakeThanksRepo{now: now}
	svc := NewService(repo, &fakeEmployeeRepo{employees: employees}, &stubClock{now: now})
	return svc, repo
}

func TestService_SendThanks(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	employees := []*employee.Employee{staff("a", "A"), staff("b", "B")}
	svc, repo := newTestService(now, employees)

	sent, err := svc.SendThanks(context.Background(), SendThanksInput{
		FromEmployeeID: "a",
		ToEmployeeID:   "b",
		Message:        "  助かりました  ",
	})
	if err != nil {
		t.Fatalf("SendThanks returned error: %v", err)
	}
	if sent.Message != "助かりました" {
		t.Fatalf("expected trimmed message, got %q", sent.Message)
	}
	if !sent.CreatedAt.Equal(now) {
		t.Fatalf("expected store timestamp, got %v", sent.CreatedAt)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected one stored event, got %d", len(repo.events))
	}

	if _, err := svc.SendThanks(context.Background(), SendThanksInput{
		FromEmployeeID: "a",
		ToEmployeeID:   "ghost",
	}); !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}

	// エンジンとしては自分宛も拒否しない。
	if _, err := svc.SendThanks(context.Background(), SendThanksInput{
		FromEmployeeID: "a",
		ToEmployeeID:   "a",
	}); err != nil {
		t.Fatalf("self thanks must be accepted by the engine: %v", err)
	}
}

func TestService_History_ResolvesNames(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	employees := []*employee.Employee{staff("a", "安藤"), staff("b", "伴")}
	svc, repo := newTestService(now, employees)
	repo.events = []*Thanks{
		event(t, "t1", "a", "b", "最近", "2024-05-01"),
		event(t, "t2", "ghost", "a", "", "2024-04-01"),
	}

	entries, err := svc.History(context.Background(), Filter{Period: PeriodAll})
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].SenderName != "安藤" || entries[0].RecipientName != "伴" {
		t.Fatalf("unexpected name resolution: %+v", entries[0])
	}
	if entries[1].SenderName != UnknownName {
		t.Fatalf("expected placeholder for deleted sender, got %q", entries[1].SenderName)
	}

	if _, err := svc.History(context.Background(), Filter{Period: Period("bogus")}); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestService_Ranking_UsesFilterAndDirection(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	employees := []*employee.Employee{staff("a", "A"), staff("b", "B")}
	svc, repo := newTestService(now, employees)
	repo.events = []*Thanks{
		event(t, "t1", "a", "b", "", "2024-05-01"),
		event(t, "t2", "a", "b", "", "2020-01-01"),
	}

	ranking, err := svc.Ranking(context.Background(), Filter{Period: PeriodYear}, DirectionReceived)
	if err != nil {
		t.Fatalf("Ranking returned error: %v", err)
	}
	if ranking[0].Employee.ID != "b" || ranking[0].Points != 1 {
		t.Fatalf("expected b with 1 point this year, got %+v", ranking[0])
	}

	if _, err := svc.Ranking(context.Background(), Filter{Period: PeriodAll}, Direction("sideways")); !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}

	// ゼロ値のフィルタは全期間扱い。
	all, err := svc.Ranking(context.Background(), Filter{}, DirectionReceived)
	if err != nil {
		t.Fatalf("Ranking with zero-value filter returned error: %v", err)
	}
	if all[0].Employee.ID != "b" || all[0].Points != 2 {
		t.Fatalf("expected b with 2 points over all periods, got %+v", all[0])
	}
}

func TestService_ReceivedThanks_AppliesEmbargo(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	employees := []*employee.Employee{staff("a", "A"), staff("b", "B")}
	svc, repo := newTestService(now, employees)
	repo.events = []*Thanks{
		event(t, "t1", "b", "a", "開示前", "2024-03-01"),
		event(t, "t2", "b", "a", "開示済み", "2024-02-01"),
	}

	groups, err := svc.ReceivedThanks(context.Background(), "a")
	if err != nil {
		t.Fatalf("ReceivedThanks returned error: %v", err)
	}
	if len(groups) != 1 || groups[0].Month != "2024-02" {
		t.Fatalf("expected only 2024-02 to be visible, got %+v", groups)
	}
}

func TestService_SentThanks(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	employees := []*employee.Employee{staff("a", "A"), staff("b", "B")}
	svc, repo := newTestService(now, employees)
	repo.events = []*Thanks{
		event(t, "t1", "a", "b", "新しい", "2024-05-02"),
		event(t, "t2", "b", "a", "宛先違い", "2024-05-01"),
		event(t, "t3", "a", "b", "古い", "2024-04-01"),
	}

	entries, err := svc.SentThanks(context.Background(), "a")
	if err != nil {
		t.Fatalf("SentThanks returned error: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "t1" || entries[1].ID != "t3" {
		t.Fatalf("unexpected sent history: %+v", entries)
	}
}

func TestService_Summary(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	employees := []*employee.Employee{staff("a", "A"), staff("b", "B")}
	svc, repo := newTestService(now, employees)
	repo.events = []*Thanks{
		event(t, "t1", "a", "b", "コメント", "2024-05-01"),
		event(t, "t2", "a", "b", "   ", "2024-05-01"),
		event(t, "t3", "a", "b", "", "2024-05-01"),
	}

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.EmployeeCount != 2 || summary.ThanksCount != 3 || summary.WithCommentCount != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
