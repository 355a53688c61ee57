package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/model"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/service"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/valueobject"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/config"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/providers"
)

// newVerifyCmd runs a one-off verification against the live providers,
// without persistence or event publishing.
func newVerifyCmd() *cobra.Command {
	var artifactType string

	cmd := &cobra.Command{
		Use:   "verify <query>",
		Short: "Classify a query, collect evidence and print the scoring result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

			var kind valueobject.ArtifactKind
			if artifactType != "" && artifactType != "auto" {
				k, err := valueobject.ArtifactKindFromString(artifactType)
				if err != nil {
					return err
				}
				kind = k
			}

			ident, err := model.NewIdentifier(args[0], kind)
			if err != nil {
				return err
			}

			keywords, err := config.LoadKeywords(cfg.KeywordsFile)
			if err != nil {
				return err
			}

			vtClient := providers.NewVirusTotalClient(cfg.VirusTotalBaseURL, cfg.VirusTotalAPIKey, cfg.ProviderTimeout, logger)
			lenderRegistry, err := providers.NewLenderRegistry(logger)
			if err != nil {
				return err
			}

			providerSet := service.Providers{
				URLScanner:   vtClient,
				News:         providers.NewNewsClient(cfg.NewsAPIURL, cfg.NewsAPIKey, keywords.Scam, cfg.ProviderTimeout, logger),
				Registration: providers.NewWhoisClient(cfg.WhoisAPIURL, cfg.WhoisAPIKey, cfg.ProviderTimeout, logger),
				Blacklist:    providers.NewBlacklistService(logger),
				PhishingFeed: providers.NewFeedCache(providers.FeedCacheConfig{
					FeedURL:         cfg.PhishingFeedURL,
					RefreshInterval: cfg.FeedRefreshInterval,
					Logger:          logger,
				}),
				DomainScanner:   vtClient,
				CompanyRegistry: providers.NewCompanyRegistryClient(cfg.ProviderTimeout, logger),
				LenderRegistry:  lenderRegistry,
			}

			collector := service.NewCollector(providerSet, keywords.Financial, cfg.ProviderTimeout, logger)
			reducer := service.NewReducer()
			redirector := service.NewRedirector(providers.NewNetResolver(), 5*time.Second, logger)

			ctx := cmd.Context()
			if ident.Kind.Equal(valueobject.KindCompany) {
				ident, _ = redirector.MaybeRedirect(ctx, ident)
			}

			if !ident.Kind.Scorable() {
				return fmt.Errorf("type '%s' not supported", ident.Kind.String())
			}

			evidences, reasons := collector.Collect(ctx, ident)
			result := reducer.Reduce(reasons)

			out := struct {
				Kind      string               `json:"kind"`
				Value     string               `json:"value"`
				Score     int                  `json:"score"`
				Label     string               `json:"label"`
				Reasons   []model.Reason       `json:"reasons"`
				Evidences []model.EvidenceItem `json:"evidences"`
			}{
				Kind:      ident.Kind.String(),
				Value:     ident.Value,
				Score:     result.Score,
				Label:     result.Label,
				Reasons:   result.Reasons,
				Evidences: evidences,
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&artifactType, "type", "t", "auto", "artifact type (auto, url, domain, email, phone, company)")

	return cmd
}
