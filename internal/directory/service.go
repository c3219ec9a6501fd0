package directory

import (
	"context"
	"io"
	"log/slog"

	"phonedir/internal"
	"phonedir/internal/config"
	"phonedir/internal/util"
)

type SubAccountFetcher interface {
	GetSubAccounts(ctx context.Context) ([]map[string]any, error)
}

type Service struct {
	cfg        config.Config
	fetcher    SubAccountFetcher
	normalizer *Normalizer
	log        *slog.Logger
}

func NewService(cfg config.Config, aliases Aliases, fetcher SubAccountFetcher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		cfg:        cfg,
		fetcher:    fetcher,
		normalizer: NewNormalizer(aliases, cfg.DefaultPOP, log),
		log:        log,
	}
}

func (s *Service) Entries(ctx context.Context) ([]internal.DirectoryEntry, error) {
	records, err := s.fetcher.GetSubAccounts(ctx)
	if err != nil {
		return nil, err
	}
	entries := s.normalizer.Normalize(records)
	s.log.Info("subaccounts normalized", "records", len(records), "entries", len(entries))
	return entries, nil
}

// BuildCisco writes the Cisco directory to outputPath. Nothing is written when
// the fetch fails.
func (s *Service) BuildCisco(ctx context.Context, outputPath string) (int, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return 0, err
	}
	blob := BuildCiscoXML(s.cfg.Title, s.cfg.Prompt, entries)
	if err := util.WriteFileAtomic(outputPath, blob, 0o644); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *Service) ExportXLSX(ctx context.Context, outputPath string) (int, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return 0, err
	}
	if err := ExportEntriesToXLSX(entries, outputPath); err != nil {
		return 0, err
	}
	return len(entries), nil
}
