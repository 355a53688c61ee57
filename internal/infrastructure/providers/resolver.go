package providers

import (
	"context"
	"net"
)

// NetResolver implements port.HostResolver with the system resolver.
type NetResolver struct {
	resolver *net.Resolver
}

func NewNetResolver() *NetResolver {
	return &NetResolver{resolver: net.DefaultResolver}
}

func (r *NetResolver) Resolve(ctx context.Context, host string) error {
	_, err := r.resolver.LookupHost(ctx, host)
	return err
}
