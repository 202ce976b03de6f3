package auth

import "context"

type ctxKey struct{}

// WithUserID 把当前用户挂到请求 context 上（每个请求一份，不存全局）
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, uid)
}

func UserIDFrom(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(ctxKey{}).(string)
	return uid, ok && uid != ""
}
