package services

import "context"

type clientIPKey struct{}

// WithClientIP returns a copy of ctx carrying the caller's IP address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIPFrom returns the IP stored by WithClientIP, or nil.
func ClientIPFrom(ctx context.Context) *string {
	ip, ok := ctx.Value(clientIPKey{}).(string)
	if !ok {
		return nil
	}
	return &ip
}
