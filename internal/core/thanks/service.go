package thanks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/onetenth/thanks-point/internal/core/employee"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Service はサンキューの送信と集計ビューのユースケースをまとめます。
// 集計はストアから取得したスナップショット (社員一覧・イベント一覧) に
// 対する純関数の適用として実装され、サービス自体は状態を持ちません。
type Service struct {
	repo      Repository
	employees employee.Repository
	clock     Clock
}

// UseCase はサンキューユースケースの公開インターフェースです。
type UseCase interface {
	SendThanks(ctx context.Context, in SendThanksInput) (*Thanks, error)
	History(ctx context.Context, filter Filter) ([]HistoryEntry, error)
	Ranking(ctx context.Context, filter Filter, direction Direction) ([]*Ranked, error)
	MonthlyChart(ctx context.Context, monthKey string, withCommentOnly bool) ([]ChartEntry, error)
	PeriodChart(ctx context.Context, filter Filter) ([]ChartEntry, error)
	ReceivedThanks(ctx context.Context, employeeID string) ([]MonthGroup, error)
	SentThanks(ctx context.Context, employeeID string) ([]HistoryEntry, error)
	Summary(ctx context.Context) (*SummaryResult, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, employees employee.Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, employees: employees, clock: clock}
}

// SendThanksInput はサンキュー送信時の入力です。
type SendThanksInput struct {
	FromEmployeeID string
	ToEmployeeID   string
	Message        string
}

// HistoryEntry は履歴表示用に名前解決した 1 件です。
type HistoryEntry struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	SenderName    string `json:"senderName"`
	RecipientName string `json:"recipientName"`
	Message       string `json:"message"`
}

// SummaryResult はダッシュボードの集計カードに対応します。
type SummaryResult struct {
	EmployeeCount    int `json:"employeeCount"`
	ThanksCount      int `json:"thanksCount"`
	WithCommentCount int `json:"withCommentCount"`
}

// SendThanks は新しいサンキューを登録します。受信者は実在する社員で
// なければなりません。自分宛の送信はエンジンとしては禁止しません。
func (s *Service) SendThanks(ctx context.Context, in SendThanksInput) (*Thanks, error) {
	from := strings.TrimSpace(in.FromEmployeeID)
	if from == "" {
		return nil, ErrInvalidSender
	}
	to := strings.TrimSpace(in.ToEmployeeID)
	if to == "" {
		return nil, ErrInvalidRecipient
	}

	if _, err := s.employees.FindByID(ctx, from); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, ErrInvalidSender
		}
		return nil, err
	}
	if _, err := s.employees.FindByID(ctx, to); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, ErrInvalidRecipient
		}
		return nil, err
	}

	event := &Thanks{
		FromEmployeeID: from,
		ToEmployeeID:   to,
		Message:        strings.TrimSpace(in.Message),
	}
	return s.repo.Insert(ctx, event, time.Time{})
}

// History は期間で絞り込んだ履歴を新しい順で返します。
func (s *Service) History(ctx context.Context, filter Filter) ([]HistoryEntry, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	events, employees, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	names := nameIndex(employees)
	filtered := filter.Apply(events, s.clock.Now())
	entries := make([]HistoryEntry, 0, len(filtered))
	for _, t := range filtered {
		entries = append(entries, HistoryEntry{
			ID:            t.ID,
			Date:          t.Date(),
			SenderName:    lookupName(names, t.FromEmployeeID),
			RecipientName: lookupName(names, t.ToEmployeeID),
			Message:       t.Message,
		})
	}
	return entries, nil
}

// Ranking は期間で絞り込んだポイントランキングを返します。
func (s *Service) Ranking(ctx context.Context, filter Filter, direction Direction) ([]*Ranked, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if direction != DirectionReceived && direction != DirectionGiven {
		return nil, ErrInvalidDirection
	}

	events, employees, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return Rank(filter.Apply(events, s.clock.Now()), employees, direction), nil
}

// MonthlyChart は指定月の獲得ポイントのグラフ系列を返します。
func (s *Service) MonthlyChart(ctx context.Context, monthKey string, withCommentOnly bool) ([]ChartEntry, error) {
	events, employees, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return MonthlyChart(events, employees, monthKey, withCommentOnly)
}

// PeriodChart は任意期間の獲得ポイントのグラフ系列を返します。
func (s *Service) PeriodChart(ctx context.Context, filter Filter) ([]ChartEntry, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	events, employees, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return PeriodChart(events, employees, filter, s.clock.Now()), nil
}

// ReceivedThanks は開示時刻を迎えた月の受信分を月別・送信者別に返します。
func (s *Service) ReceivedThanks(ctx context.Context, employeeID string) ([]MonthGroup, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, ErrInvalidRecipient
	}

	events, employees, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ReceivedByMonth(events, employees, employeeID, s.clock.Now()), nil
}

// SentThanks は自分が送った履歴を新しい順で返します。
func (s *Service) SentThanks(ctx context.Context, employeeID string) ([]HistoryEntry, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, ErrInvalidSender
	}

	events, employees, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	names := nameIndex(employees)
	entries := make([]HistoryEntry, 0)
	for _, t := range events {
		if t.FromEmployeeID != employeeID {
			continue
		}
		entries = append(entries, HistoryEntry{
			ID:            t.ID,
			Date:          t.Date(),
			SenderName:    lookupName(names, t.FromEmployeeID),
			RecipientName: lookupName(names, t.ToEmployeeID),
			Message:       t.Message,
		})
	}
	return entries, nil
}

// Summary は社員数・サンキュー総数・コメント付き件数を返します。
func (s *Service) Summary(ctx context.Context) (*SummaryResult, error) {
	events, employees, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	withComment := 0
	for _, t := range events {
		if strings.TrimSpace(t.Message) != "" {
			withComment++
		}
	}

	return &SummaryResult{
		EmployeeCount:    len(employees),
		ThanksCount:      len(events),
		WithCommentCount: withComment,
	}, nil
}

func (s *Service) snapshot(ctx context.Context) ([]*Thanks, []*employee.Employee, error) {
	events, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	employees, err := s.employees.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return events, employees, nil
}
