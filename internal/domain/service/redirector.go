package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/model"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/valueobject"
)

// Redirector decides whether a company-kind run should be superseded by a
// domain-kind run. The transform is deterministic: lower-case the name, strip
// spaces, append ".com", and accept the candidate only when it resolves via
// DNS. Redirection happens at most once per run; the resulting domain
// identifier is never re-classified back to company.
type Redirector struct {
	resolver       port.HostResolver
	resolveTimeout time.Duration
	logger         *slog.Logger
}

// NewRedirector creates a Redirector. resolveTimeout bounds the DNS lookup;
// values <= 0 default to 5 seconds.
func NewRedirector(resolver port.HostResolver, resolveTimeout time.Duration, logger *slog.Logger) *Redirector {
	if resolveTimeout <= 0 {
		resolveTimeout = 5 * time.Second
	}
	return &Redirector{resolver: resolver, resolveTimeout: resolveTimeout, logger: logger}
}

// MaybeRedirect returns a domain identifier for the company's slug-derived
// candidate when it resolves, and false otherwise. Non-company identifiers
// are returned unchanged.
func (r *Redirector) MaybeRedirect(ctx context.Context, ident model.Identifier) (model.Identifier, bool) {
	if !ident.Kind.Equal(valueobject.KindCompany) {
		return ident, false
	}

	candidate := SlugDomain(ident.Value)

	resolveCtx, cancel := context.WithTimeout(ctx, r.resolveTimeout)
	defer cancel()

	if err := r.resolver.Resolve(resolveCtx, candidate); err != nil {
		r.logger.Debug("company slug did not resolve",
			slog.String("company", ident.Value),
			slog.String("candidate", candidate),
			slog.String("error", err.Error()),
		)
		return ident, false
	}

	r.logger.Info("company redirected to domain",
		slog.String("company", ident.Value),
		slog.String("domain", candidate),
	)

	return model.Identifier{
		Raw:   ident.Raw,
		Value: candidate,
		Kind:  valueobject.KindDomain,
	}, true
}

// SlugDomain derives the candidate domain for a company name.
func SlugDomain(company string) string {
	return strings.ReplaceAll(strings.ToLower(company), " ", "") + ".com"
}
