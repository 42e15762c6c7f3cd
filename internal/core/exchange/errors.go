package exchange

import "errors"

var (
	// ErrNoData はヘッダ行以外にデータ行が 1 行もない入力に対して返されます。
	ErrNoData = errors.New("exchange: no data rows")
)
