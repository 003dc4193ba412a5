package sheets

import "context"

// EntryMirror appends ledger rows to an external spreadsheet copy. One
// sheet per ledger table; the worker decides what goes into each row.
type EntryMirror interface {
	Append(ctx context.Context, table string, row []any) error
}
