package auth

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/onetenth/thanks-point/internal/core/employee"
)

// Mode はログインの種別を表します。
type Mode string

const (
	ModeEmployee Mode = "employee"
	ModeAdmin    Mode = "admin"
)

// 初回ログイン時に設定する新パスワードの最小文字数。
const minPasswordRunes = 4

// Service はログインとパスワード変更のユースケースをまとめます。
// パスワードは不透明な共有シークレットとして等価比較のみを行います。
type Service struct {
	repo        employee.Repository
	adminEmails map[string]struct{}
}

// UseCase は認証ユースケースの公開インターフェースです。
type UseCase interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	ChangePassword(ctx context.Context, in ChangePasswordInput) error
}

// NewService は Service を生成します。adminEmails はダッシュボードへの
// アクセスを許可するメールアドレスの一覧です。
func NewService(repo employee.Repository, adminEmails []string) *Service {
	allowed := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		allowed[email] = struct{}{}
	}
	return &Service{repo: repo, adminEmails: allowed}
}

// LoginInput はログイン時の入力です。
type LoginInput struct {
	Email    string
	Password string
	Mode     Mode
}

// LoginResult はログイン結果を表します。
type LoginResult struct {
	Employee *employee.Employee
	IsAdmin  bool
	// RequirePasswordChange は初回ログインでパスワード変更が必要な場合に true です。
	RequirePasswordChange bool
}

// ChangePasswordInput はパスワード変更時の入力です。
type ChangePasswordInput struct {
	EmployeeID      string
	NewPassword     string
	ConfirmPassword string
}

// Login はメールアドレスとパスワードの組で社員を認証します。
// 管理者モードでは、設定された管理者メール一覧に含まれることを追加で要求します。
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	emp, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if emp.Password != in.Password {
		return nil, ErrInvalidCredentials
	}

	isAdmin := in.Mode == ModeAdmin
	if isAdmin {
		if _, ok := s.adminEmails[emp.Email]; !ok {
			return nil, ErrNotAdmin
		}
	}

	return &LoginResult{
		Employee:              emp,
		IsAdmin:               isAdmin,
		RequirePasswordChange: emp.IsFirstLogin,
	}, nil
}

// ChangePassword は新しいパスワードを保存し、初回ログインフラグを解除します。
func (s *Service) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if strings.TrimSpace(in.EmployeeID) == "" {
		return ErrInvalidID
	}
	if utf8.RuneCountInString(in.NewPassword) < minPasswordRunes {
		return ErrPasswordTooShort
	}
	if in.NewPassword != in.ConfirmPassword {
		return ErrPasswordMismatch
	}

	return s.repo.UpdatePassword(ctx, in.EmployeeID, in.NewPassword)
}
