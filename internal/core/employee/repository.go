package employee

import "context"

// Repository は社員永続化の抽象です。
// ListAll は登録順 (created_at, id 昇順) で全件を返します。ランキングの
// 同点時の並び順がこの順序に依存するため、実装は順序を保証する必要があります。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	ListAll(ctx context.Context) ([]*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	UpdatePassword(ctx context.Context, id, password string) error
	// Delete は社員本体と、その社員が送信者または受信者であるサンキューを
	// あわせて削除します。
	Delete(ctx context.Context, id string) error
}
