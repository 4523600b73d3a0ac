package contracts

import "context"

// TxManager runs fn inside one durable-store transaction. The transaction is
// carried in the context; repositories pick it up transparently. Commit
// happens only when fn returns nil, otherwise everything rolls back.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
