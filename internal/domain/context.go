package domain

import "context"

// Ключ для хранения владельца в контексте HTTP-запроса.
// Авторизация — внешняя: владельца проставляет вышестоящий слой/прокси.
type ctxKey int

const ownerCtxKey ctxKey = 1

func WithOwner(ctx context.Context, id UserID) context.Context {
	return context.WithValue(ctx, ownerCtxKey, id)
}

func OwnerFromCtx(ctx context.Context) (UserID, bool) {
	id, ok := ctx.Value(ownerCtxKey).(UserID)
	return id, ok
}
