package thanks

import (
	"context"
	"time"
)

// Repository はサンキュー永続化の抽象です。
// ListAll は作成日時の降順 (新しい順) で全件を返します。集計の折り畳み順と
// CSV エクスポートの行順はこの順序をそのまま使います。
type Repository interface {
	// Insert は新しいサンキューを保存します。createdAt がゼロ値の場合、
	// 実装側で現在時刻を採用します。
	Insert(ctx context.Context, t *Thanks, createdAt time.Time) (*Thanks, error)
	ListAll(ctx context.Context) ([]*Thanks, error)
}
