package rates

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Store persists raw section overrides by key.
type Store interface {
	Entries(ctx context.Context, keys []string) (map[string][]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Snapshot is the resolved configuration together with what is stored.
type Snapshot struct {
	Configuration Configuration              `json:"config"`
	Entries       map[string]json.RawMessage `json:"entries"`
	Sections      []SectionResult            `json:"sections"`
	Warnings      []string                   `json:"warnings,omitempty"`
}

// Service reads and replaces configuration sections in a Store.
type Service struct {
	logger *zap.Logger
	store  Store
}

// NewService constructs a Service over store.
func NewService(logger *zap.Logger, store Store) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, store: store}
}

// Snapshot loads the stored overrides and resolves them. The store is read on
// every call.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	stored, err := s.store.Entries(ctx, Keys())
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	overrides := make(map[Section][]byte, len(stored))
	entries := make(map[string]json.RawMessage, len(stored))
	for key, value := range stored {
		section, err := ParseSection(key)
		if err != nil {
			continue
		}
		overrides[section] = value
		entries[key] = json.RawMessage(value)
	}

	cfg, sections := Resolve(overrides)
	for _, result := range sections {
		if result.Outcome == OutcomeRejected {
			s.logger.Warn("stored configuration section rejected, using defaults",
				zap.String("op", "rates.Snapshot"),
				zap.String("section", string(result.Section)),
				zap.String("reason", result.Reason),
			)
		}
	}

	warnings := Warnings(cfg)
	for _, warning := range warnings {
		s.logger.Warn("Configuration warning: "+warning,
			zap.String("op", "rates.Snapshot"),
		)
	}

	return Snapshot{
		Configuration: cfg,
		Entries:       entries,
		Sections:      sections,
		Warnings:      warnings,
	}, nil
}

// Configuration returns only the resolved configuration.
func (s *Service) Configuration(ctx context.Context) (Configuration, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Configuration{}, err
	}
	return snap.Configuration, nil
}

// Replace validates a whole-section value and stores its normalized form.
// Invalid list elements are dropped before storing; a value with nothing
// usable left is refused and the stored section is left untouched.
func (s *Service) Replace(ctx context.Context, key string, raw []byte) (json.RawMessage, error) {
	section, err := ParseSection(key)
	if err != nil {
		return nil, err
	}

	value, dropped, err := ParseSectionValue(section, raw)
	if err != nil {
		return nil, err
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", section, err)
	}

	if err := s.store.Put(ctx, string(section), normalized); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", section, err)
	}

	s.logger.Info("configuration section replaced",
		zap.String("op", "rates.Replace"),
		zap.String("section", string(section)),
		zap.Int("dropped", dropped),
	)

	return json.RawMessage(normalized), nil
}
